package services

import (
	"encoding/json"
	"os"
	"path/filepath"

	"drug-graph/config"
	"drug-graph/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MappingService baut die Drug<->HGNC-Abbildungen aus den persistierten
// Interaktionen. Die beiden Drug-Name-Maps werden als JSON-Dateien gecacht
// und nur bei erzwungener Neuberechnung überschrieben.
type MappingService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewMappingService erstellt eine neue Instanz des MappingService.
func NewMappingService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *MappingService {
	return &MappingService{Config: cfg, DB: db, Logger: logger}
}

// dtiRow ist eine Join-Zeile Drug-Name + HGNC-Felder des Proteins.
type dtiRow struct {
	DrugName   string
	HGNCID     string
	HGNCSymbol string
}

func (m *MappingService) dtiRows() ([]dtiRow, error) {
	var rows []dtiRow
	err := m.DB.
		Table("drug_protein_interactions").
		Select("drugs.name AS drug_name, proteins.hgnc_id AS hgnc_id, proteins.hgnc_symbol AS hgnc_symbol").
		Joins("JOIN drugs ON drugs.id = drug_protein_interactions.drug_id").
		Joins("JOIN proteins ON proteins.id = drug_protein_interactions.protein_id").
		Where("proteins.hgnc_id <> ''").
		Order("drug_protein_interactions.id").
		Scan(&rows).Error
	return rows, err
}

// DrugToHGNCIDs gibt die Abbildung Drug-Name -> HGNC-IDs zurück. Ohne
// recalculate wird ein vorhandener JSON-Cache gelesen.
func (m *MappingService) DrugToHGNCIDs(recalculate bool) (map[string][]string, error) {
	path := m.Config.HGNCIDsCachePath()
	if !recalculate {
		if cached, ok := readMappingCache(path, m.Logger); ok {
			return cached, nil
		}
	}

	rows, err := m.dtiRows()
	if err != nil {
		return nil, err
	}

	rv := make(map[string][]string)
	for _, row := range rows {
		rv[row.DrugName] = append(rv[row.DrugName], row.HGNCID)
	}

	writeMappingCache(path, rv, m.Logger)
	return rv, nil
}

// DrugToHGNCSymbols gibt die Abbildung Drug-Name -> HGNC-Gensymbole zurück.
// Proteine mit HGNC-ID aber ohne Symbol werden mit Warnung übersprungen.
func (m *MappingService) DrugToHGNCSymbols(recalculate bool) (map[string][]string, error) {
	path := m.Config.HGNCSymbolsCachePath()
	if !recalculate {
		if cached, ok := readMappingCache(path, m.Logger); ok {
			return cached, nil
		}
	}

	rows, err := m.dtiRows()
	if err != nil {
		return nil, err
	}

	rv := make(map[string][]string)
	for _, row := range rows {
		if row.HGNCSymbol == "" {
			m.Logger.Warn("Kein HGNC-Symbol für HGNC-ID vorhanden", zap.String("hgnc_id", row.HGNCID))
			continue
		}
		rv[row.DrugName] = append(rv[row.DrugName], row.HGNCSymbol)
	}

	writeMappingCache(path, rv, m.Logger)
	return rv, nil
}

// HGNCIDToDrugs gibt die inverse Abbildung HGNC-ID -> Drug-Namen zurück.
func (m *MappingService) HGNCIDToDrugs() (map[string][]string, error) {
	rows, err := m.dtiRows()
	if err != nil {
		return nil, err
	}

	rv := make(map[string][]string)
	for _, row := range rows {
		rv[row.HGNCID] = append(rv[row.HGNCID], row.DrugName)
	}
	return rv, nil
}

// InteractionsByHGNCID gibt die Interaktionen des Proteins mit der HGNC-ID
// zurück. Teilen sich mehrere Proteine die ID (Isoform-Duplikate), gewinnt
// deterministisch der erste Treffer in Speicher-Reihenfolge; die verworfenen
// Kandidaten werden als Warnung protokolliert.
func (m *MappingService) InteractionsByHGNCID(hgncID string) ([]models.DrugProteinInteraction, error) {
	var proteins []models.Protein
	if err := m.DB.Where("hgnc_id = ?", hgncID).Order("id").Find(&proteins).Error; err != nil {
		return nil, err
	}
	if len(proteins) == 0 {
		return nil, nil
	}

	chosen := proteins[0]
	if len(proteins) > 1 {
		rejected := make([]string, 0, len(proteins)-1)
		for _, p := range proteins[1:] {
			rejected = append(rejected, p.UniprotID)
		}
		m.Logger.Warn("Mehrere Proteine mit derselben HGNC-ID, erster Treffer gewinnt",
			zap.String("hgnc_id", hgncID),
			zap.String("chosen_uniprot_id", chosen.UniprotID),
			zap.Strings("rejected_uniprot_ids", rejected))
	}

	var interactions []models.DrugProteinInteraction
	err := m.DB.
		Where("protein_id = ?", chosen.ID).
		Preload("Drug").
		Preload("Protein").
		Preload("Actions").
		Preload("Articles").
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// readMappingCache liest einen JSON-Cache; jeder Fehler gilt als Cache-Miss.
func readMappingCache(path string, logger *zap.Logger) (map[string][]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var rv map[string][]string
	if err := json.Unmarshal(data, &rv); err != nil {
		logger.Warn("Mapping-Cache ist unlesbar und wird neu aufgebaut",
			zap.String("path", path), zap.Error(err))
		return nil, false
	}

	logger.Info("Mapping-Cache geladen", zap.String("path", path))
	return rv, true
}

// writeMappingCache schreibt den JSON-Cache; Fehler sind nicht fatal, da der
// Cache nur Beschleunigung ist.
func writeMappingCache(path string, rv map[string][]string, logger *zap.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("Cache-Verzeichnis konnte nicht angelegt werden", zap.String("path", path), zap.Error(err))
		return
	}

	data, err := json.Marshal(rv)
	if err != nil {
		logger.Warn("Mapping-Cache konnte nicht serialisiert werden", zap.Error(err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("Mapping-Cache konnte nicht geschrieben werden", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("Mapping-Cache geschrieben", zap.String("path", path))
}
