package services

import (
	"errors"
	"strings"

	"drug-graph/models"
	"drug-graph/providers/drugbank"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// patentKey ist der zusammengesetzte Natural Key eines Patents.
type patentKey struct {
	Country  string
	PatentID string
}

// ReconcileContext hält die Lauf-lokalen Caches für geteilte Referenz-
// Entitäten. Pro Natural Key existiert innerhalb eines Populate-Laufs genau
// ein Handle (Pointer-Identität); das verhindert doppelte Referenzzeilen und
// doppelte Join-Einträge. Der Kontext ist nicht nebenläufigkeitssicher und
// gehört exakt einem Lauf.
type ReconcileContext struct {
	db  *gorm.DB
	log *zap.Logger

	types      map[string]*models.Type
	groups     map[string]*models.Group
	categories map[string]*models.Category
	species    map[string]*models.Species
	patents    map[patentKey]*models.Patent
	proteins   map[string]*models.Protein
	actions    map[string]*models.Action
	articles   map[string]*models.Article
}

// NewReconcileContext erstellt einen leeren Abgleich-Kontext für einen Lauf.
// Die Datenbank dient als Fallback-Lookup, bevor neue Entitäten entstehen.
func NewReconcileContext(db *gorm.DB, logger *zap.Logger) *ReconcileContext {
	return &ReconcileContext{
		db:         db,
		log:        logger,
		types:      make(map[string]*models.Type),
		groups:     make(map[string]*models.Group),
		categories: make(map[string]*models.Category),
		species:    make(map[string]*models.Species),
		patents:    make(map[patentKey]*models.Patent),
		proteins:   make(map[string]*models.Protein),
		actions:    make(map[string]*models.Action),
		articles:   make(map[string]*models.Article),
	}
}

// GetOrCreateType gibt das Type-Handle für einen Namen zurück.
func (r *ReconcileContext) GetOrCreateType(name string) (*models.Type, error) {
	if m, ok := r.types[name]; ok {
		return m, nil
	}

	var existing models.Type
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.types[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Type{Name: name}
	r.types[name] = m
	return m, nil
}

// GetOrCreateGroup gibt das Group-Handle für einen Namen zurück.
func (r *ReconcileContext) GetOrCreateGroup(name string) (*models.Group, error) {
	if m, ok := r.groups[name]; ok {
		return m, nil
	}

	var existing models.Group
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.groups[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Group{Name: name}
	r.groups[name] = m
	return m, nil
}

// GetOrCreateCategory gibt das Category-Handle für einen Namen zurück. Die
// MeSH-ID wird nur beim erstmaligen Anlegen übernommen.
func (r *ReconcileContext) GetOrCreateCategory(name, meshID string) (*models.Category, error) {
	if m, ok := r.categories[name]; ok {
		return m, nil
	}

	var existing models.Category
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.categories[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Category{Name: name, MeshID: meshID}
	r.categories[name] = m
	return m, nil
}

// GetOrCreateSpecies gibt das Species-Handle für einen Namen zurück.
func (r *ReconcileContext) GetOrCreateSpecies(name, taxonomyID string) (*models.Species, error) {
	if m, ok := r.species[name]; ok {
		return m, nil
	}

	var existing models.Species
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.species[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Species{Name: name, TaxonomyID: taxonomyID}
	r.species[name] = m
	return m, nil
}

// GetOrCreatePatent gibt das Patent-Handle für den zusammengesetzten
// Schlüssel (Country, PatentID) zurück.
func (r *ReconcileContext) GetOrCreatePatent(raw drugbank.RawPatent) (*models.Patent, error) {
	key := patentKey{Country: raw.Country, PatentID: raw.PatentID}
	if m, ok := r.patents[key]; ok {
		return m, nil
	}

	var existing models.Patent
	err := r.db.Where("country = ? AND patent_id = ?", raw.Country, raw.PatentID).First(&existing).Error
	if err == nil {
		r.patents[key] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Patent{
		PatentID:           raw.PatentID,
		Country:            raw.Country,
		Approved:           raw.Approved,
		Expires:            raw.Expires,
		PediatricExtension: raw.PediatricExtension,
	}
	r.patents[key] = m
	return m, nil
}

// GetOrCreateProtein gibt das Protein-Handle für eine UniProt-ID zurück.
// Die restlichen Polypeptid-Felder werden nur beim erstmaligen Anlegen gesetzt.
func (r *ReconcileContext) GetOrCreateProtein(raw drugbank.RawPolypeptide, species *models.Species) (*models.Protein, error) {
	if m, ok := r.proteins[raw.UniprotID]; ok {
		return m, nil
	}

	var existing models.Protein
	err := r.db.Where("uniprot_id = ?", raw.UniprotID).First(&existing).Error
	if err == nil {
		r.proteins[raw.UniprotID] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Protein{
		UniprotID:        raw.UniprotID,
		UniprotAccession: raw.UniprotAccession,
		Name:             raw.Name,
		HGNCID:           raw.HGNCID,
		HGNCSymbol:       raw.HGNCSymbol,
		Species:          species,
	}
	r.proteins[raw.UniprotID] = m
	return m, nil
}

// GetOrCreateAction gibt das Action-Handle für einen Namen zurück. Der Name
// wird getrimmt und kleingeschrieben; leere Namen ergeben nil.
func (r *ReconcileContext) GetOrCreateAction(name string) (*models.Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	if m, ok := r.actions[name]; ok {
		return m, nil
	}

	var existing models.Action
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.actions[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Action{Name: name}
	r.actions[name] = m
	return m, nil
}

// GetOrCreateArticle gibt das Article-Handle für eine PubMed-ID zurück.
func (r *ReconcileContext) GetOrCreateArticle(pubmedID string) (*models.Article, error) {
	if m, ok := r.articles[pubmedID]; ok {
		return m, nil
	}

	var existing models.Article
	err := r.db.Where("pubmed_id = ?", pubmedID).First(&existing).Error
	if err == nil {
		r.articles[pubmedID] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := &models.Article{PubmedID: pubmedID}
	r.articles[pubmedID] = m
	return m, nil
}
