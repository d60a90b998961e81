package models

import "drug-graph/bel"

// Protein repräsentiert ein Zielprotein (eine Polypeptid-Kette). Dedupliziert
// über die UniProt-ID; HGNC-ID und -Symbol sind optional.
type Protein struct {
	ID uint `json:"id" gorm:"primaryKey"`

	UniprotID        string `json:"uniprot_id" gorm:"column:uniprot_id;uniqueIndex;not null"`
	UniprotAccession string `json:"uniprot_accession,omitempty" gorm:"column:uniprot_accession"`
	Name             string `json:"name,omitempty" gorm:"size:1024"`

	// HGNC-ID ohne "HGNC:"-Präfix. Mehrere Proteine können dieselbe HGNC-ID
	// tragen (Isoform-Duplikate im Quellmaterial).
	HGNCID     string `json:"hgnc_id,omitempty" gorm:"column:hgnc_id;index"`
	HGNCSymbol string `json:"hgnc_symbol,omitempty" gorm:"column:hgnc_symbol"`

	SpeciesID *uint    `json:"-"`
	Species   *Species `json:"species,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Protein) TableName() string {
	return "proteins"
}

// AsBELNode beschreibt das Protein als Graph-Knoten. Bevorzugt wird die
// HGNC-Identität, sonst Fallback auf UniProt.
func (p *Protein) AsBELNode() bel.Node {
	if p.HGNCID != "" {
		name := p.HGNCSymbol
		if name == "" {
			name = p.Name
		}
		return bel.Node{
			Namespace:  bel.NamespaceHGNC,
			Name:       name,
			Identifier: p.HGNCID,
		}
	}
	return bel.Node{
		Namespace:  bel.NamespaceUniprot,
		Name:       p.Name,
		Identifier: p.UniprotID,
	}
}
