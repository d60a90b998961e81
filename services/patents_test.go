package services

import (
	"strings"
	"testing"
	"time"

	"drug-graph/config"
	"drug-graph/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPatentService(t *testing.T, db *gorm.DB) *PatentService {
	t.Helper()
	return NewPatentService(&config.Config{}, db, nil, zap.NewNop())
}

func TestPatentExportTSV(t *testing.T) {
	db := newTestDB(t)
	approved := time.Date(1997, 7, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Patent{
		PatentID: "1339104",
		Country:  "Canada",
		Approved: &approved,
	}).Error)
	require.NoError(t, db.Create(&models.Patent{
		PatentID:           "5861115",
		Country:            "United States",
		PediatricExtension: true,
	}).Error)

	var sb strings.Builder
	require.NoError(t, newPatentService(t, db).ExportTSV(&sb))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "country\tpatent_id\tapproved\texpires\tpediatric_extension", lines[0])
	assert.Equal(t, "Canada\t1339104\t1997-07-29\t\tfalse", lines[1])
	assert.Equal(t, "United States\t5861115\t\t\ttrue", lines[2])
}

func TestXrefSummary(t *testing.T) {
	db := newTestDB(t)
	drug := &models.Drug{
		Type:       &models.Type{Name: "biotech"},
		DrugbankID: "DB00001",
		Name:       "Lepirudin",
		Xrefs: []models.DrugXref{
			{Resource: "PubChem Substance", Identifier: "46507011"},
			{Resource: "KEGG Drug", Identifier: "D06880"},
		},
	}
	require.NoError(t, db.Create(drug).Error)
	other := &models.Drug{
		Type:       drug.Type,
		DrugbankID: "DB00002",
		Name:       "Cetuximab",
		Xrefs: []models.DrugXref{
			{Resource: "PubChem Substance", Identifier: "46507042"},
		},
	}
	require.NoError(t, db.Create(other).Error)

	summary, err := newPatentService(t, db).XrefSummary()
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary["PubChem Substance"])
	assert.EqualValues(t, 1, summary["KEGG Drug"])
}

func TestExportXrefsTSV(t *testing.T) {
	db := newTestDB(t)
	drug := &models.Drug{
		Type:       &models.Type{Name: "biotech"},
		DrugbankID: "DB00001",
		Name:       "Lepirudin",
		Xrefs: []models.DrugXref{
			{Resource: "KEGG Drug", Identifier: "D06880"},
			{Resource: "PubChem Substance", Identifier: "46507011"},
		},
	}
	require.NoError(t, db.Create(drug).Error)

	var sb strings.Builder
	require.NoError(t, newPatentService(t, db).ExportXrefsTSV(&sb, "KEGG Drug"))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "drugbank_id\tidentifier", lines[0])
	assert.Equal(t, "DB00001\tD06880", lines[1])
}

func TestPatentPDFRegex(t *testing.T) {
	page := `<html><meta content="https://patentimages.storage.googleapis.com/pdfs/ca1339104.pdf">` +
		`<a href="HTTPS://patentimages.storage.googleapis.com/df/aa/bb/US5861115.pdf">PDF</a></html>`

	matches := patentPDFRegex.FindAllStringSubmatch(page, -1)
	require.Len(t, matches, 2)
	assert.Equal(t, "ca1339104.pdf", matches[0][1])
	assert.Equal(t, "US5861115.pdf", matches[1][1])
}
