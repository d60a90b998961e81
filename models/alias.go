package models

// Alias repräsentiert einen alternativen Namen eines Drugs. Die Menge der
// Aliase enthält immer den eigenen Namen des Drugs und keine Duplikate.
type Alias struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null"`

	DrugID uint `json:"-" gorm:"not null;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Alias) TableName() string {
	return "aliases"
}
