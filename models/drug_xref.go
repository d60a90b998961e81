package models

// DrugXref repräsentiert eine Cross-Referenz eines Drugs in eine externe
// Ressource. Nicht dedupliziert.
type DrugXref struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Resource   string `json:"resource" gorm:"not null;index"`
	Identifier string `json:"identifier" gorm:"not null"`

	DrugID uint `json:"-" gorm:"not null;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (DrugXref) TableName() string {
	return "drug_xrefs"
}
