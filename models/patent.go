package models

import "time"

// Patent repräsentiert ein Patent. Dedupliziert über den zusammengesetzten
// Schlüssel (Country, PatentID), Many-to-Many mit Drug.
type Patent struct {
	ID uint `json:"id" gorm:"primaryKey"`

	PatentID           string     `json:"patent_id" gorm:"column:patent_id;not null;uniqueIndex:idx_patents_country_number"`
	Country            string     `json:"country" gorm:"not null;uniqueIndex:idx_patents_country_number"`
	Approved           *time.Time `json:"approved,omitempty"`
	Expires            *time.Time `json:"expires,omitempty"`
	PediatricExtension bool       `json:"pediatric_extension"`
}

// TableName gibt explizit den Tabellennamen an.
func (Patent) TableName() string {
	return "patents"
}
