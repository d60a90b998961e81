package services

import (
	"context"
	"fmt"
	"time"

	"drug-graph/config"
	"drug-graph/models"
	"drug-graph/providers/drugbank"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PopulateService kümmert sich um den kompletten Populate-Lauf: Parsen des
// Exports, Abgleich der geteilten Entitäten, Zusammenbau der Drug-Aggregate
// und den Commit in einer einzigen Transaktion.
type PopulateService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewPopulateService erstellt eine neue Instanz des PopulateService.
func NewPopulateService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *PopulateService {
	return &PopulateService{Config: cfg, DB: db, Logger: logger}
}

// PopulateResult fasst das Ergebnis eines Populate-Laufs zusammen.
type PopulateResult struct {
	Drugs        int           `json:"drugs"`
	Interactions int           `json:"interactions"`
	Duration     time.Duration `json:"duration"`
}

// IsPopulated prüft über die Drug-Anzahl, ob die Datenbank bereits befüllt ist.
func (s *PopulateService) IsPopulated() (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Drug{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count != 0, nil
}

// Run führt den Populate-Lauf für die Exportdatei unter path aus. Scheitert
// der Lauf, bleibt die Datenbank unverändert: alle Zeilen entstehen in einer
// Transaktion.
func (s *PopulateService) Run(ctx context.Context, path string) (*PopulateResult, error) {
	start := time.Now()

	entries, err := drugbank.ParseFile(path, s.Logger)
	if err != nil {
		return nil, err
	}

	maxRecords := 0
	if s.Config != nil {
		maxRecords = s.Config.DebugMaxRecords
	}

	rc := NewReconcileContext(s.DB, s.Logger)

	var drugs []*models.Drug
	interactions := 0
	for i := range entries {
		if maxRecords > 0 && len(drugs) >= maxRecords {
			s.Logger.Warn("Debug-Limit erreicht, restliche Drug-Elemente werden ignoriert",
				zap.Int("max_records", maxRecords))
			break
		}

		raw := drugbank.ExtractDrug(&entries[i])
		drug, err := s.assembleDrug(rc, raw)
		if err != nil {
			return nil, fmt.Errorf("Drug %s konnte nicht zusammengebaut werden: %w", raw.DrugbankID, err)
		}

		drugs = append(drugs, drug)
		interactions += len(drug.ProteinInteractions)
	}

	s.Logger.Info("Modelle gebaut, starte Commit",
		zap.Int("drugs", len(drugs)),
		zap.Int("interactions", interactions))

	commitStart := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, drug := range drugs {
			if err := tx.Create(drug).Error; err != nil {
				return fmt.Errorf("Commit für Drug %s fehlgeschlagen: %w", drug.DrugbankID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Commit abgeschlossen", zap.Duration("duration", time.Since(commitStart)))

	return &PopulateResult{
		Drugs:        len(drugs),
		Interactions: interactions,
		Duration:     time.Since(start),
	}, nil
}

// assembleDrug verdrahtet einen Roh-Record mit den abgeglichenen Referenz-
// Handles zu einem persistierbaren Drug-Aggregat.
func (s *PopulateService) assembleDrug(rc *ReconcileContext, raw *drugbank.RawDrug) (*models.Drug, error) {
	drugType, err := rc.GetOrCreateType(raw.Type)
	if err != nil {
		return nil, err
	}

	drug := &models.Drug{
		Type:        drugType,
		DrugbankID:  raw.DrugbankID,
		CASNumber:   raw.CASNumber,
		Name:        raw.Name,
		Description: raw.Description,
		InChI:       raw.InChI,
		InChIKey:    raw.InChIKey,
		SMILES:      raw.SMILES,
	}

	for _, name := range raw.Groups {
		group, err := rc.GetOrCreateGroup(name)
		if err != nil {
			return nil, err
		}
		drug.Groups = append(drug.Groups, group)
	}

	for _, category := range raw.Categories {
		m, err := rc.GetOrCreateCategory(category.Name, category.MeshID)
		if err != nil {
			return nil, err
		}
		drug.Categories = append(drug.Categories, m)
	}

	for _, patent := range raw.Patents {
		m, err := rc.GetOrCreatePatent(patent)
		if err != nil {
			return nil, err
		}
		drug.Patents = append(drug.Patents, m)
	}

	for _, code := range raw.AtcCodes {
		drug.AtcCodes = append(drug.AtcCodes, models.AtcCode{Code: code})
	}
	for _, alias := range raw.Aliases {
		drug.Aliases = append(drug.Aliases, models.Alias{Name: alias})
	}
	for _, xref := range raw.Xrefs {
		drug.Xrefs = append(drug.Xrefs, models.DrugXref{Resource: xref.Resource, Identifier: xref.Identifier})
	}

	for _, pi := range raw.ProteinInteractions {
		var actions []*models.Action
		for _, name := range pi.Actions {
			action, err := rc.GetOrCreateAction(name)
			if err != nil {
				return nil, err
			}
			if action != nil {
				actions = append(actions, action)
			}
		}

		var articles []*models.Article
		for _, pubmedID := range pi.Articles {
			article, err := rc.GetOrCreateArticle(pubmedID)
			if err != nil {
				return nil, err
			}
			articles = append(articles, article)
		}

		// Jedes auflösbare Polypeptid wird zu einer eigenen Interaktionszeile,
		// die Kategorie-, Action- und Artikel-Metadaten des Eintrags teilt.
		for _, polypeptide := range pi.Polypeptides {
			var species *models.Species
			if polypeptide.OrganismName != "" {
				species, err = rc.GetOrCreateSpecies(polypeptide.OrganismName, polypeptide.OrganismTaxID)
				if err != nil {
					return nil, err
				}
			}

			protein, err := rc.GetOrCreateProtein(polypeptide, species)
			if err != nil {
				return nil, err
			}

			drug.ProteinInteractions = append(drug.ProteinInteractions, &models.DrugProteinInteraction{
				Protein:     protein,
				Category:    pi.Category,
				KnownAction: pi.KnownAction,
				Actions:     actions,
				Articles:    articles,
			})
		}
	}

	return drug, nil
}

// Summarize zählt die Zeilen aller Entitäts- und Assoziationstabellen.
func (s *PopulateService) Summarize() (map[string]int64, error) {
	counts := make(map[string]int64)

	entityCounts := []struct {
		name  string
		model interface{}
	}{
		{"drugs", &models.Drug{}},
		{"types", &models.Type{}},
		{"aliases", &models.Alias{}},
		{"atc_codes", &models.AtcCode{}},
		{"groups", &models.Group{}},
		{"categories", &models.Category{}},
		{"patents", &models.Patent{}},
		{"xrefs", &models.DrugXref{}},
		{"species", &models.Species{}},
		{"proteins", &models.Protein{}},
		{"actions", &models.Action{}},
		{"articles", &models.Article{}},
		{"drug_protein_interactions", &models.DrugProteinInteraction{}},
	}
	for _, ec := range entityCounts {
		var count int64
		if err := s.DB.Model(ec.model).Count(&count).Error; err != nil {
			return nil, err
		}
		counts[ec.name] = count
	}

	for _, table := range []string{"drug_groups", "drug_categories", "drug_patents"} {
		var count int64
		if err := s.DB.Table(table).Count(&count).Error; err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}
