package drugbank

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// lepirudinXML ist ein gekürzter Export mit einem auflösbaren Target und
// einem Target ohne UniProt-Referenz.
const lepirudinXML = `<?xml version="1.0" encoding="UTF-8"?>
<drugbank xmlns="http://www.drugbank.ca" version="5.1">
  <drug type="biotech">
    <drugbank-id primary="true">DB00001</drugbank-id>
    <drugbank-id>BTD00024</drugbank-id>
    <name>Lepirudin</name>
    <description>Lepirudin ist ein rekombinantes Hirudin.</description>
    <cas-number>138068-37-8</cas-number>
    <groups>
      <group>approved</group>
    </groups>
    <synonyms>
      <synonym language="English">Hirudin variant-1</synonym>
      <synonym language="German">Lepirudin rekombinant</synonym>
    </synonyms>
    <international-brands>
      <international-brand>
        <name>Refludan</name>
      </international-brand>
    </international-brands>
    <products>
      <product>
        <name>Refludan</name>
      </product>
    </products>
    <calculated-properties>
      <property>
        <kind>InChIKey</kind>
        <value>OTXNTMVVOOBZCV-UHFFFAOYSA-N</value>
      </property>
      <property>
        <kind>SMILES</kind>
        <value>CC(=O)NC</value>
      </property>
    </calculated-properties>
    <categories>
      <category>
        <category>Anticoagulants</category>
        <mesh-id>D000925</mesh-id>
      </category>
    </categories>
    <atc-codes>
      <atc-code code="B01AE02"/>
    </atc-codes>
    <patents>
      <patent>
        <number>1339104</number>
        <country>Canada</country>
        <approved>1997-07-29</approved>
        <expires>2014-07-29</expires>
        <pediatric-extension>false</pediatric-extension>
      </patent>
    </patents>
    <external-identifiers>
      <external-identifier>
        <resource>PubChem Substance</resource>
        <identifier>46507011</identifier>
      </external-identifier>
    </external-identifiers>
    <targets>
      <target>
        <name>Prothrombin</name>
        <organism>Humans</organism>
        <actions>
          <action>inhibitor</action>
        </actions>
        <known-action>yes</known-action>
        <references>
          <articles>
            <article>
              <pubmed-id>10505536</pubmed-id>
            </article>
            <article>
              <pubmed-id>10912644</pubmed-id>
            </article>
          </articles>
        </references>
        <polypeptide>
          <name>Prothrombin</name>
          <gene-name>F2</gene-name>
          <organism ncbi-taxonomy-id="9606">Humans</organism>
          <external-identifiers>
            <external-identifier>
              <resource>UniProtKB</resource>
              <identifier>P00734</identifier>
            </external-identifier>
            <external-identifier>
              <resource>UniProt Accession</resource>
              <identifier>THRB_HUMAN</identifier>
            </external-identifier>
            <external-identifier>
              <resource>HUGO Gene Nomenclature Committee (HGNC)</resource>
              <identifier>HGNC:3535</identifier>
            </external-identifier>
          </external-identifiers>
        </polypeptide>
      </target>
      <target>
        <name>Hypothetical complex</name>
        <known-action>unknown</known-action>
        <polypeptide>
          <name>Unresolvable chain</name>
          <gene-name>XYZ</gene-name>
        </polypeptide>
      </target>
    </targets>
  </drug>
</drugbank>`

func parseFixture(t *testing.T, xml string) []DrugEntry {
	t.Helper()
	entries, err := ParseDocument(strings.NewReader(xml), zap.NewNop())
	require.NoError(t, err)
	return entries
}

func TestExtractDrugLepirudin(t *testing.T) {
	entries := parseFixture(t, lepirudinXML)
	require.Len(t, entries, 1)

	raw := ExtractDrug(&entries[0])

	assert.Equal(t, "biotech", raw.Type)
	assert.Equal(t, "DB00001", raw.DrugbankID)
	assert.Equal(t, "138068-37-8", raw.CASNumber)
	assert.Equal(t, "Lepirudin", raw.Name)
	assert.Equal(t, "OTXNTMVVOOBZCV-UHFFFAOYSA-N", raw.InChIKey)
	assert.Equal(t, "CC(=O)NC", raw.SMILES)
	assert.Empty(t, raw.InChI)

	assert.Equal(t, []string{"approved"}, raw.Groups)
	assert.Equal(t, []string{"B01AE02"}, raw.AtcCodes)
	require.Len(t, raw.Categories, 1)
	assert.Equal(t, "Anticoagulants", raw.Categories[0].Name)
	assert.Equal(t, "D000925", raw.Categories[0].MeshID)
	require.Len(t, raw.Xrefs, 1)
	assert.Equal(t, "PubChem Substance", raw.Xrefs[0].Resource)
	assert.Equal(t, "46507011", raw.Xrefs[0].Identifier)
}

func TestExtractDrugPatents(t *testing.T) {
	entries := parseFixture(t, lepirudinXML)
	raw := ExtractDrug(&entries[0])

	require.Len(t, raw.Patents, 1)
	patent := raw.Patents[0]
	assert.Equal(t, "1339104", patent.PatentID)
	assert.Equal(t, "Canada", patent.Country)
	assert.False(t, patent.PediatricExtension)

	require.NotNil(t, patent.Approved)
	assert.Equal(t, time.Date(1997, 7, 29, 0, 0, 0, 0, time.UTC), *patent.Approved)
	require.NotNil(t, patent.Expires)
	assert.Equal(t, time.Date(2014, 7, 29, 0, 0, 0, 0, time.UTC), *patent.Expires)
}

func TestExtractDrugAliases(t *testing.T) {
	entries := parseFixture(t, lepirudinXML)
	raw := ExtractDrug(&entries[0])

	// Markennamen + englische Synonyme + Produktnamen + eigener Name,
	// dedupliziert und sortiert. Das deutsche Synonym fehlt.
	assert.Equal(t, []string{"Hirudin variant-1", "Lepirudin", "Refludan"}, raw.Aliases)
}

func TestExtractDrugInteractions(t *testing.T) {
	entries := parseFixture(t, lepirudinXML)
	raw := ExtractDrug(&entries[0])

	// Das zweite Target hat kein Polypeptid mit UniProt-Referenz und fällt weg.
	require.Len(t, raw.ProteinInteractions, 1)
	interaction := raw.ProteinInteractions[0]
	assert.Equal(t, "target", interaction.Category)
	assert.Equal(t, "Prothrombin", interaction.Name)
	assert.True(t, interaction.KnownAction)
	assert.Equal(t, []string{"inhibitor"}, interaction.Actions)
	assert.Equal(t, []string{"10505536", "10912644"}, interaction.Articles)

	require.Len(t, interaction.Polypeptides, 1)
	polypeptide := interaction.Polypeptides[0]
	assert.Equal(t, "P00734", polypeptide.UniprotID)
	assert.Equal(t, "THRB_HUMAN", polypeptide.UniprotAccession)
	assert.Equal(t, "3535", polypeptide.HGNCID, "HGNC-Präfix muss entfernt sein")
	assert.Equal(t, "F2", polypeptide.HGNCSymbol)
	assert.Equal(t, "Humans", polypeptide.OrganismName)
	assert.Equal(t, "9606", polypeptide.OrganismTaxID)
}

func TestExtractInteractionKnownActionToken(t *testing.T) {
	polypeptide := PolypeptideEntry{
		Name: "Chain",
		Xrefs: []ExternalIdentifier{
			{Resource: resourceUniprotKB, Identifier: "P12345"},
		},
	}

	for token, want := range map[string]bool{"yes": true, "no": false, "unknown": false, "": false} {
		protein := ProteinEntry{Name: "X", KnownAction: token, Polypeptides: []PolypeptideEntry{polypeptide}}
		interaction := extractInteraction("target", &protein)
		require.NotNil(t, interaction)
		assert.Equal(t, want, interaction.KnownAction, "Token %q", token)
	}
}

func TestExtractInteractionDropsProteinWithoutUniprot(t *testing.T) {
	protein := ProteinEntry{
		Name:        "Orphan",
		KnownAction: "yes",
		Polypeptides: []PolypeptideEntry{
			{Name: "Chain without xrefs"},
		},
	}
	assert.Nil(t, extractInteraction("enzyme", &protein))
}

func TestExtractInteractionOrganismFallback(t *testing.T) {
	protein := ProteinEntry{
		Name:     "Fallback",
		Organism: " Humans ",
		Polypeptides: []PolypeptideEntry{
			{
				Name:  "Chain",
				Xrefs: []ExternalIdentifier{{Resource: resourceUniprotKB, Identifier: "P99999"}},
			},
		},
	}
	interaction := extractInteraction("carrier", &protein)
	require.NotNil(t, interaction)
	require.Len(t, interaction.Polypeptides, 1)
	assert.Equal(t, "Humans", interaction.Polypeptides[0].OrganismName)
}

func TestExtractDrugPediatricExtensionToken(t *testing.T) {
	entry := DrugEntry{
		Patents: []PatentEntry{
			{Number: "1", Country: "United States", PediatricExtension: "true"},
			{Number: "2", Country: "United States", PediatricExtension: "false"},
			{Number: "3", Country: "United States", PediatricExtension: ""},
		},
	}
	raw := ExtractDrug(&entry)
	require.Len(t, raw.Patents, 3)
	assert.True(t, raw.Patents[0].PediatricExtension)
	assert.False(t, raw.Patents[1].PediatricExtension)
	// Nur das wörtliche Token "false" bedeutet keine Extension.
	assert.True(t, raw.Patents[2].PediatricExtension)
}

func TestExtractDrugInvalidPatentDate(t *testing.T) {
	entry := DrugEntry{
		Patents: []PatentEntry{
			{Number: "1", Country: "Canada", Approved: "29.07.1997", Expires: ""},
		},
	}
	raw := ExtractDrug(&entry)
	require.Len(t, raw.Patents, 1)
	assert.Nil(t, raw.Patents[0].Approved)
	assert.Nil(t, raw.Patents[0].Expires)
}

func TestPrimaryIDWithoutPrimaryAttribute(t *testing.T) {
	entry := DrugEntry{
		IDs: []DrugbankID{{Value: "BTD00024"}, {Value: "BIOD00024"}},
	}
	raw := ExtractDrug(&entry)
	assert.Empty(t, raw.DrugbankID)
}
