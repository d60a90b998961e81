package models

// Group repräsentiert eine Zulassungsgruppe (z.B. "approved", "investigational").
// Many-to-Many mit Drug, dedupliziert über den Namen.
type Group struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Group) TableName() string {
	return "groups"
}
