package models

// AtcCode repräsentiert einen ATC-Code eines Drugs. Nicht dedupliziert,
// jedes Vorkommen wird erfasst.
type AtcCode struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"not null;index"`

	DrugID uint `json:"-" gorm:"not null;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (AtcCode) TableName() string {
	return "atc_codes"
}
