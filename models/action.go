package models

// Action repräsentiert eine Wirkungsart einer Interaktion (z.B. "inhibitor").
// Dedupliziert über den normalisierten (getrimmten, kleingeschriebenen) Namen.
type Action struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Action) TableName() string {
	return "actions"
}
