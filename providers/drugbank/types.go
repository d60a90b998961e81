// Package drugbank enthält die Logik für das Einlesen des DrugBank-XML-Exports:
// Schema-Strukturen, Dokument-Parsing und die Extraktion der Roh-Records.
package drugbank

import "encoding/xml"

// Resource-Labels der External-Identifier, über die Polypeptide aufgelöst werden.
const (
	resourceUniprotKB        = "UniProtKB"
	resourceUniprotAccession = "UniProt Accession"
	resourceHGNC             = "HUGO Gene Nomenclature Committee (HGNC)"
	hgncPrefix               = "HGNC:"
)

// DrugEntry repräsentiert ein einzelnes <drug>-Element des Exports.
type DrugEntry struct {
	XMLName     xml.Name     `xml:"drug"`
	Type        string       `xml:"type,attr"`
	IDs         []DrugbankID `xml:"drugbank-id"`
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	CASNumber   string       `xml:"cas-number"`

	Groups     []string       `xml:"groups>group"`
	AtcCodes   []AtcCodeEntry `xml:"atc-codes>atc-code"`
	Categories []CategoryEntry `xml:"categories>category"`
	Patents    []PatentEntry  `xml:"patents>patent"`
	Xrefs      []ExternalIdentifier `xml:"external-identifiers>external-identifier"`

	CalculatedProperties []Property `xml:"calculated-properties>property"`

	InternationalBrands []Brand        `xml:"international-brands>international-brand"`
	Synonyms            []Synonym      `xml:"synonyms>synonym"`
	Products            []ProductEntry `xml:"products>product"`

	Targets      []ProteinEntry `xml:"targets>target"`
	Enzymes      []ProteinEntry `xml:"enzymes>enzyme"`
	Carriers     []ProteinEntry `xml:"carriers>carrier"`
	Transporters []ProteinEntry `xml:"transporters>transporter"`
}

// DrugbankID repräsentiert eine drugbank-id; die primäre ID trägt das
// primary-Attribut.
type DrugbankID struct {
	Primary bool   `xml:"primary,attr"`
	Value   string `xml:",chardata"`
}

// AtcCodeEntry repräsentiert einen atc-code-Eintrag.
type AtcCodeEntry struct {
	Code string `xml:"code,attr"`
}

// CategoryEntry repräsentiert eine Kategorie mit optionaler MeSH-ID.
type CategoryEntry struct {
	Name   string `xml:"category"`
	MeshID string `xml:"mesh-id"`
}

// PatentEntry repräsentiert ein Patent im Export. Die Datumsfelder sind
// ISO-Strings, pediatric-extension ein Bool-Token.
type PatentEntry struct {
	Number             string `xml:"number"`
	Country            string `xml:"country"`
	Approved           string `xml:"approved"`
	Expires            string `xml:"expires"`
	PediatricExtension string `xml:"pediatric-extension"`
}

// ExternalIdentifier repräsentiert eine Cross-Referenz (resource + identifier).
type ExternalIdentifier struct {
	Resource   string `xml:"resource"`
	Identifier string `xml:"identifier"`
}

// Property repräsentiert eine berechnete Eigenschaft (kind/value-Paar).
type Property struct {
	Kind  string `xml:"kind"`
	Value string `xml:"value"`
}

// Brand repräsentiert einen internationalen Markennamen.
type Brand struct {
	Name string `xml:"name"`
}

// Synonym repräsentiert ein Synonym mit Sprach-Attribut.
type Synonym struct {
	Language string `xml:"language,attr"`
	Value    string `xml:",chardata"`
}

// ProductEntry repräsentiert ein Produkt; nur der Name wird verwendet.
type ProductEntry struct {
	Name string `xml:"name"`
}

// ProteinEntry repräsentiert ein Element einer der vier Interaktions-
// Kategorien (target/enzyme/carrier/transporter).
type ProteinEntry struct {
	Name        string       `xml:"name"`
	Organism    string       `xml:"organism"`
	KnownAction string       `xml:"known-action"`
	Actions     []string     `xml:"actions>action"`
	Articles    []ArticleRef `xml:"references>articles>article"`

	Polypeptides []PolypeptideEntry `xml:"polypeptide"`
}

// ArticleRef repräsentiert eine Literatur-Referenz eines Protein-Eintrags.
type ArticleRef struct {
	PubmedID string `xml:"pubmed-id"`
}

// PolypeptideEntry repräsentiert eine Polypeptid-Kette eines Proteins.
// Protein-Komplexe expandieren in mehrere Polypeptide.
type PolypeptideEntry struct {
	Name     string            `xml:"name"`
	GeneName string            `xml:"gene-name"`
	Organism OrganismEntry     `xml:"organism"`
	Xrefs    []ExternalIdentifier `xml:"external-identifiers>external-identifier"`
}

// OrganismEntry repräsentiert den Organismus mit Taxonomie-ID-Attribut.
type OrganismEntry struct {
	TaxonomyID string `xml:"ncbi-taxonomy-id,attr"`
	Name       string `xml:",chardata"`
}
