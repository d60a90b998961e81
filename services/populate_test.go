package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"drug-graph/config"
	"drug-graph/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// twoDrugsXML enthält zwei Drugs, die Gruppe, Kategorie, Patent und das
// Zielprotein teilen. Der Lauf darf jede geteilte Entität nur einmal anlegen.
const twoDrugsXML = `<?xml version="1.0" encoding="UTF-8"?>
<drugbank>
  <drug type="biotech">
    <drugbank-id primary="true">DB00001</drugbank-id>
    <name>Lepirudin</name>
    <groups>
      <group>approved</group>
    </groups>
    <categories>
      <category>
        <category>Anticoagulants</category>
        <mesh-id>D000925</mesh-id>
      </category>
    </categories>
    <patents>
      <patent>
        <number>1339104</number>
        <country>Canada</country>
        <approved>1997-07-29</approved>
        <expires>2014-07-29</expires>
        <pediatric-extension>false</pediatric-extension>
      </patent>
    </patents>
    <targets>
      <target>
        <name>Prothrombin</name>
        <actions>
          <action>inhibitor</action>
        </actions>
        <known-action>yes</known-action>
        <references>
          <articles>
            <article>
              <pubmed-id>10505536</pubmed-id>
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
              <resource>HUGO Gene Nomenclature Committee (HGNC)</resource>
              <identifier>HGNC:3535</identifier>
            </external-identifier>
          </external-identifiers>
        </polypeptide>
      </target>
    </targets>
  </drug>
  <drug type="small molecule">
    <drugbank-id primary="true">DB00002</drugbank-id>
    <name>Bivalirudin</name>
    <groups>
      <group>approved</group>
    </groups>
    <categories>
      <category>
        <category>Anticoagulants</category>
        <mesh-id>D000925</mesh-id>
      </category>
    </categories>
    <patents>
      <patent>
        <number>1339104</number>
        <country>Canada</country>
        <approved>1997-07-29</approved>
        <expires>2014-07-29</expires>
        <pediatric-extension>false</pediatric-extension>
      </patent>
    </patents>
    <targets>
      <target>
        <name>Prothrombin</name>
        <actions>
          <action>inhibitor</action>
        </actions>
        <known-action>yes</known-action>
        <references>
          <articles>
            <article>
              <pubmed-id>10505536</pubmed-id>
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
              <resource>HUGO Gene Nomenclature Committee (HGNC)</resource>
              <identifier>HGNC:3535</identifier>
            </external-identifier>
          </external-identifiers>
        </polypeptide>
      </target>
    </targets>
  </drug>
</drugbank>`

func writeExportFixture(t *testing.T, xml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))
	return path
}

func TestPopulateRunDeduplicatesSharedEntities(t *testing.T) {
	db := newTestDB(t)
	svc := NewPopulateService(&config.Config{}, db, zap.NewNop())

	result, err := svc.Run(context.Background(), writeExportFixture(t, twoDrugsXML))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Drugs)
	assert.Equal(t, 2, result.Interactions)

	counts, err := svc.Summarize()
	require.NoError(t, err)

	assert.EqualValues(t, 2, counts["drugs"])
	assert.EqualValues(t, 2, counts["types"])
	assert.EqualValues(t, 2, counts["drug_protein_interactions"])

	// Geteilte Referenz-Entitäten: genau eine Zeile pro Natural Key.
	assert.EqualValues(t, 1, counts["groups"])
	assert.EqualValues(t, 1, counts["categories"])
	assert.EqualValues(t, 1, counts["patents"])
	assert.EqualValues(t, 1, counts["proteins"])
	assert.EqualValues(t, 1, counts["species"])
	assert.EqualValues(t, 1, counts["actions"])
	assert.EqualValues(t, 1, counts["articles"])

	// Assoziationen zeigen beide Drugs auf dieselben Zeilen.
	assert.EqualValues(t, 2, counts["drug_groups"])
	assert.EqualValues(t, 2, counts["drug_categories"])
	assert.EqualValues(t, 2, counts["drug_patents"])
}

func TestPopulateRunIsPopulated(t *testing.T) {
	db := newTestDB(t)
	svc := NewPopulateService(&config.Config{}, db, zap.NewNop())

	populated, err := svc.IsPopulated()
	require.NoError(t, err)
	assert.False(t, populated)

	_, err = svc.Run(context.Background(), writeExportFixture(t, twoDrugsXML))
	require.NoError(t, err)

	populated, err = svc.IsPopulated()
	require.NoError(t, err)
	assert.True(t, populated)
}

func TestPopulateRunDebugLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewPopulateService(&config.Config{DebugMaxRecords: 1}, db, zap.NewNop())

	result, err := svc.Run(context.Background(), writeExportFixture(t, twoDrugsXML))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Drugs)

	var drug models.Drug
	require.NoError(t, db.First(&drug).Error)
	assert.Equal(t, "DB00001", drug.DrugbankID)
}

func TestPopulateRunMissingFile(t *testing.T) {
	svc := NewPopulateService(&config.Config{}, newTestDB(t), zap.NewNop())
	_, err := svc.Run(context.Background(), filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
}

func TestPopulateRunLoadsAssociations(t *testing.T) {
	db := newTestDB(t)
	svc := NewPopulateService(&config.Config{}, db, zap.NewNop())
	_, err := svc.Run(context.Background(), writeExportFixture(t, twoDrugsXML))
	require.NoError(t, err)

	var drug models.Drug
	err = db.
		Preload("Type").
		Preload("Groups").
		Preload("Patents").
		Preload("ProteinInteractions").
		Preload("ProteinInteractions.Protein").
		Preload("ProteinInteractions.Actions").
		Preload("ProteinInteractions.Articles").
		Where("drugbank_id = ?", "DB00001").
		First(&drug).Error
	require.NoError(t, err)

	require.NotNil(t, drug.Type)
	assert.Equal(t, "biotech", drug.Type.Name)
	require.Len(t, drug.Groups, 1)
	require.Len(t, drug.Patents, 1)
	assert.Equal(t, "1339104", drug.Patents[0].PatentID)

	require.Len(t, drug.ProteinInteractions, 1)
	interaction := drug.ProteinInteractions[0]
	assert.Equal(t, models.CategoryTarget, interaction.Category)
	assert.True(t, interaction.KnownAction)
	require.NotNil(t, interaction.Protein)
	assert.Equal(t, "P00734", interaction.Protein.UniprotID)
	assert.Equal(t, "3535", interaction.Protein.HGNCID)
	require.Len(t, interaction.Actions, 1)
	assert.Equal(t, "inhibitor", interaction.Actions[0].Name)
	require.Len(t, interaction.Articles, 1)
	assert.Equal(t, "10505536", interaction.Articles[0].PubmedID)
}
