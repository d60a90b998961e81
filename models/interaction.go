package models

// Interaktions-Kategorien aus dem DrugBank-Schema. Pro Kategorie expandiert
// jedes Protein-Element in eine Zeile je auflösbarem Polypeptid.
const (
	CategoryTarget      = "target"
	CategoryEnzyme      = "enzyme"
	CategoryCarrier     = "carrier"
	CategoryTransporter = "transporter"
)

// InteractionCategories listet die vier festen Kategorien in Schema-Reihenfolge.
var InteractionCategories = []string{
	CategoryTarget,
	CategoryEnzyme,
	CategoryCarrier,
	CategoryTransporter,
}

// DrugProteinInteraction repräsentiert eine Drug-Protein-Beziehung einer
// Kategorie. KnownAction ist nur dann true, wenn die Quelle wörtlich "yes"
// liefert.
type DrugProteinInteraction struct {
	ID uint `json:"id" gorm:"primaryKey"`

	DrugID uint  `json:"-" gorm:"not null;index"`
	Drug   *Drug `json:"-"`

	ProteinID uint     `json:"-" gorm:"not null;index"`
	Protein   *Protein `json:"protein,omitempty"`

	Category    string `json:"category" gorm:"not null;index"`
	KnownAction bool   `json:"known_action"`

	Actions  []*Action  `json:"actions,omitempty" gorm:"many2many:interaction_actions"`
	Articles []*Article `json:"articles,omitempty" gorm:"many2many:interaction_articles"`
}

// TableName gibt explizit den Tabellennamen an.
func (DrugProteinInteraction) TableName() string {
	return "drug_protein_interactions"
}
