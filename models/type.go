package models

// Type repräsentiert den Stofftyp eines Drugs (z.B. "small molecule", "biotech").
// Wird über den Namen dedupliziert.
type Type struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Type) TableName() string {
	return "types"
}
