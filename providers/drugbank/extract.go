package drugbank

import (
	"sort"
	"strings"
	"time"
)

// RawDrug ist der flache, noch nicht abgeglichene Roh-Record eines Drugs.
// Optionale Skalarfelder sind leere Strings, optionale Daten nil-Pointer.
type RawDrug struct {
	Type        string
	DrugbankID  string
	CASNumber   string
	Name        string
	Description string

	Groups     []string
	AtcCodes   []string
	Categories []RawCategory
	Patents    []RawPatent
	Xrefs      []RawXref

	InChI    string
	InChIKey string
	SMILES   string

	// Aliases ist dedupliziert, enthält immer den eigenen Namen und ist für
	// deterministische Verarbeitung sortiert.
	Aliases []string

	ProteinInteractions []RawInteraction
}

// RawCategory ist eine Kategorie mit optionaler MeSH-ID.
type RawCategory struct {
	Name   string
	MeshID string
}

// RawPatent ist ein Patent mit zusammengesetztem Natural Key (Country, PatentID).
type RawPatent struct {
	PatentID           string
	Country            string
	Approved           *time.Time
	Expires            *time.Time
	PediatricExtension bool
}

// RawXref ist eine Cross-Referenz in eine externe Ressource.
type RawXref struct {
	Resource   string
	Identifier string
}

// RawInteraction ist ein Protein-Eintrag einer Kategorie. Nur auflösbare
// Polypeptide (mit UniProt-ID) sind enthalten; jedes davon wird später zu
// einer eigenen Interaktionszeile expandiert.
type RawInteraction struct {
	Category    string
	Name        string
	KnownAction bool
	Actions     []string
	Articles    []string

	Polypeptides []RawPolypeptide
}

// RawPolypeptide ist eine aufgelöste Polypeptid-Kette.
type RawPolypeptide struct {
	UniprotID        string
	UniprotAccession string
	Name             string
	HGNCID           string
	HGNCSymbol       string
	OrganismName     string
	OrganismTaxID    string
}

const patentDateLayout = "2006-01-02"

// ExtractDrug wandelt ein dekodiertes Drug-Element in den Roh-Record um.
// Fehlende optionale Felder führen nie zu Fehlern, sondern bleiben leer.
func ExtractDrug(entry *DrugEntry) *RawDrug {
	raw := &RawDrug{
		Type:        entry.Type,
		DrugbankID:  primaryID(entry.IDs),
		CASNumber:   entry.CASNumber,
		Name:        entry.Name,
		Description: entry.Description,
		Groups:      entry.Groups,
		InChI:       calculatedProperty(entry.CalculatedProperties, "InChI"),
		InChIKey:    calculatedProperty(entry.CalculatedProperties, "InChIKey"),
		SMILES:      calculatedProperty(entry.CalculatedProperties, "SMILES"),
	}

	for _, atc := range entry.AtcCodes {
		if atc.Code != "" {
			raw.AtcCodes = append(raw.AtcCodes, atc.Code)
		}
	}

	for _, cat := range entry.Categories {
		if cat.Name == "" {
			continue
		}
		raw.Categories = append(raw.Categories, RawCategory{Name: cat.Name, MeshID: cat.MeshID})
	}

	for _, patent := range entry.Patents {
		raw.Patents = append(raw.Patents, RawPatent{
			PatentID: patent.Number,
			Country:  patent.Country,
			Approved: parseDate(patent.Approved),
			Expires:  parseDate(patent.Expires),
			// Alles außer dem wörtlichen Token "false" gilt als Extension.
			PediatricExtension: patent.PediatricExtension != "false",
		})
	}

	for _, xref := range entry.Xrefs {
		raw.Xrefs = append(raw.Xrefs, RawXref{Resource: xref.Resource, Identifier: xref.Identifier})
	}

	raw.Aliases = extractAliases(entry)

	for _, category := range []string{"target", "enzyme", "carrier", "transporter"} {
		proteins := proteinsOf(entry, category)
		for i := range proteins {
			if interaction := extractInteraction(category, &proteins[i]); interaction != nil {
				raw.ProteinInteractions = append(raw.ProteinInteractions, *interaction)
			}
		}
	}

	return raw
}

// proteinsOf gibt die Protein-Einträge einer Kategorie zurück.
func proteinsOf(entry *DrugEntry, category string) []ProteinEntry {
	switch category {
	case "target":
		return entry.Targets
	case "enzyme":
		return entry.Enzymes
	case "carrier":
		return entry.Carriers
	case "transporter":
		return entry.Transporters
	}
	return nil
}

// extractInteraction extrahiert einen Protein-Eintrag. Polypeptide ohne
// UniProt-Cross-Referenz sind downstream unbrauchbar und werden verworfen;
// bleibt kein Polypeptid übrig, wird der ganze Eintrag verworfen (nil).
func extractInteraction(category string, protein *ProteinEntry) *RawInteraction {
	interaction := &RawInteraction{
		Category: category,
		Name:     protein.Name,
		// known_action ist nur beim wörtlichen Token "yes" wahr.
		KnownAction: protein.KnownAction == "yes",
		Actions:     protein.Actions,
	}

	for _, article := range protein.Articles {
		if article.PubmedID != "" {
			interaction.Articles = append(interaction.Articles, article.PubmedID)
		}
	}

	for _, polypeptide := range protein.Polypeptides {
		uniprotID := xrefIdentifier(polypeptide.Xrefs, resourceUniprotKB)
		if uniprotID == "" {
			continue
		}

		raw := RawPolypeptide{
			UniprotID:        uniprotID,
			UniprotAccession: xrefIdentifier(polypeptide.Xrefs, resourceUniprotAccession),
			Name:             polypeptide.Name,
			HGNCSymbol:       polypeptide.GeneName,
			OrganismName:     strings.TrimSpace(polypeptide.Organism.Name),
			OrganismTaxID:    polypeptide.Organism.TaxonomyID,
		}
		if raw.OrganismName == "" {
			raw.OrganismName = strings.TrimSpace(protein.Organism)
		}
		if hgnc := xrefIdentifier(polypeptide.Xrefs, resourceHGNC); hgnc != "" {
			raw.HGNCID = strings.TrimPrefix(hgnc, hgncPrefix)
		}

		interaction.Polypeptides = append(interaction.Polypeptides, raw)
	}

	if len(interaction.Polypeptides) == 0 {
		return nil
	}
	return interaction
}

// extractAliases führt Markennamen, englische Synonyme und Produktnamen zu
// einer deduplizierten Alias-Menge zusammen. Der eigene Name ist immer
// enthalten, leere Strings nie.
func extractAliases(entry *DrugEntry) []string {
	seen := make(map[string]struct{})

	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		seen[value] = struct{}{}
	}

	for _, brand := range entry.InternationalBrands {
		add(brand.Name)
	}
	for _, synonym := range entry.Synonyms {
		if synonym.Language == "English" {
			add(synonym.Value)
		}
	}
	for _, product := range entry.Products {
		add(product.Name)
	}
	add(entry.Name)

	aliases := make([]string, 0, len(seen))
	for alias := range seen {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// primaryID wählt die als primär markierte drugbank-id aus.
func primaryID(ids []DrugbankID) string {
	for _, id := range ids {
		if id.Primary {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// calculatedProperty sucht den Wert der berechneten Eigenschaft mit dem
// angegebenen kind-Tag.
func calculatedProperty(properties []Property, kind string) string {
	for _, p := range properties {
		if p.Kind == kind {
			return p.Value
		}
	}
	return ""
}

// xrefIdentifier filtert Cross-Referenzen nach Resource-Label.
func xrefIdentifier(xrefs []ExternalIdentifier, resource string) string {
	for _, xref := range xrefs {
		if xref.Resource == resource {
			return xref.Identifier
		}
	}
	return ""
}

// parseDate parst ein ISO-Datum; leere oder unparsbare Werte ergeben nil.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(patentDateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
