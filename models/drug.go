package models

import (
	"time"

	"drug-graph/bel"
)

// Drug repräsentiert einen Wirkstoff-Eintrag aus dem DrugBank-Export.
type Drug struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TypeID uint  `json:"-" gorm:"not null"`
	Type   *Type `json:"type"`

	DrugbankID  string `json:"drugbank_id" gorm:"column:drugbank_id;uniqueIndex;not null"`
	CASNumber   string `json:"cas_number,omitempty" gorm:"column:cas_number;index"`
	Name        string `json:"name" gorm:"not null;size:1024"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	// Berechnete Struktur-Eigenschaften aus den calculated-properties.
	InChI    string `json:"inchi,omitempty" gorm:"column:inchi;type:text"`
	InChIKey string `json:"inchikey,omitempty" gorm:"column:inchikey;index"`
	SMILES   string `json:"smiles,omitempty" gorm:"column:smiles;type:text"`

	Groups     []*Group    `json:"groups,omitempty" gorm:"many2many:drug_groups"`
	Categories []*Category `json:"categories,omitempty" gorm:"many2many:drug_categories"`
	Patents    []*Patent   `json:"patents,omitempty" gorm:"many2many:drug_patents"`

	AtcCodes []AtcCode  `json:"atc_codes,omitempty"`
	Aliases  []Alias    `json:"aliases,omitempty"`
	Xrefs    []DrugXref `json:"xrefs,omitempty"`

	ProteinInteractions []*DrugProteinInteraction `json:"protein_interactions,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Drug) TableName() string {
	return "drugs"
}

// AsBELNode beschreibt das Drug als Graph-Knoten im DrugBank-Namespace.
func (d *Drug) AsBELNode() bel.Node {
	return bel.Node{
		Namespace:  bel.NamespaceDrugbank,
		Name:       d.Name,
		Identifier: d.DrugbankID,
	}
}
