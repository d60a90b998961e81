package models

// Category repräsentiert eine pharmakologische Kategorie mit optionaler
// MeSH-Taxonomie-ID. Many-to-Many mit Drug, dedupliziert über den Namen.
type Category struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	MeshID string `json:"mesh_id,omitempty" gorm:"column:mesh_id;size:32"`
}

// TableName gibt explizit den Tabellennamen an.
func (Category) TableName() string {
	return "categories"
}
