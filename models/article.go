package models

// Article repräsentiert eine Literatur-Referenz. Dedupliziert über die PubMed-ID.
type Article struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PubmedID string `json:"pubmed_id" gorm:"column:pubmed_id;uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Article) TableName() string {
	return "articles"
}
