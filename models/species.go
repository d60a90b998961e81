package models

// Species repräsentiert den Organismus eines Proteins. Dedupliziert über den
// Namen; die Taxonomie-ID stammt aus dem ncbi-taxonomy-id-Attribut.
type Species struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"uniqueIndex;not null"`
	TaxonomyID string `json:"taxonomy_id,omitempty" gorm:"column:taxonomy_id"`
}

// TableName gibt explizit den Tabellennamen an.
func (Species) TableName() string {
	return "species"
}
