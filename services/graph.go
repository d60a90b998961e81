package services

import (
	"strings"

	"drug-graph/bel"
	"drug-graph/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GraphService projiziert persistierte Drug-Protein-Interaktionen in den
// BEL-artigen Graphen.
type GraphService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewGraphService erstellt eine neue Instanz des GraphService.
func NewGraphService(db *gorm.DB, logger *zap.Logger) *GraphService {
	return &GraphService{DB: db, Logger: logger}
}

// GraphOptions steuert Name/Version des Exports und erlaubt das Überschreiben
// der Standard-Namespaces.
type GraphOptions struct {
	Name    string
	Version string

	DrugNamespace    string
	HGNCNamespace    string
	UniprotNamespace string
}

func (o GraphOptions) withDefaults() GraphOptions {
	if o.Name == "" {
		o.Name = "DrugBank"
	}
	if o.Version == "" {
		o.Version = "5.1"
	}
	if o.DrugNamespace == "" {
		o.DrugNamespace = bel.NamespaceDrugbank
	}
	if o.HGNCNamespace == "" {
		o.HGNCNamespace = bel.NamespaceHGNC
	}
	if o.UniprotNamespace == "" {
		o.UniprotNamespace = bel.NamespaceUniprot
	}
	return o
}

// ExportBEL baut den Graphen über alle gespeicherten Interaktionen auf.
func (g *GraphService) ExportBEL(opts GraphOptions) (*bel.Graph, error) {
	opts = opts.withDefaults()
	graph := bel.NewGraph(opts.Name, opts.Version)

	var interactions []models.DrugProteinInteraction
	err := g.DB.
		Preload("Drug").
		Preload("Protein").
		Preload("Actions").
		Preload("Articles").
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}

	edges := 0
	for i := range interactions {
		edges += g.addInteraction(graph, &interactions[i], opts)
	}

	g.Logger.Info("Graph-Export aufgebaut",
		zap.Int("interactions", len(interactions)),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", edges))
	return graph, nil
}

// MapInteraction projiziert eine einzelne Interaktion in Kanten-Strukturen,
// ohne sie in einen Graphen einzufügen.
func (g *GraphService) MapInteraction(dpi *models.DrugProteinInteraction, opts GraphOptions) []bel.Edge {
	graph := bel.NewGraph("", "")
	g.addInteraction(graph, dpi, opts.withDefaults())
	return graph.Edges()
}

// addInteraction erzeugt pro Artikel der Interaktion eine gerichtete Kante
// Drug -> Protein. Interaktionen ohne Literatur-Referenz liefern keine Kanten;
// sie bleiben nur im relationalen Modell sichtbar.
func (g *GraphService) addInteraction(graph *bel.Graph, dpi *models.DrugProteinInteraction, opts GraphOptions) int {
	if dpi.Drug == nil || dpi.Protein == nil || len(dpi.Articles) == 0 {
		return 0
	}

	source := dpi.Drug.AsBELNode()
	source.Namespace = opts.DrugNamespace

	target := dpi.Protein.AsBELNode()
	switch target.Namespace {
	case bel.NamespaceHGNC:
		target.Namespace = opts.HGNCNamespace
	case bel.NamespaceUniprot:
		target.Namespace = opts.UniprotNamespace
	}

	annotations := map[string]string{"category": dpi.Category}
	if dpi.KnownAction {
		annotations["known_action"] = "yes"
	}
	if len(dpi.Actions) > 0 {
		names := make([]string, 0, len(dpi.Actions))
		for _, action := range dpi.Actions {
			names = append(names, action.Name)
		}
		// Aktivitäts-Qualifier auf dem Ziel, abgeleitet aus den Action-Labels.
		annotations["activity"] = strings.Join(names, "|")
	}

	for _, article := range dpi.Articles {
		graph.AddQualifiedEdge(source, target, bel.RelationRegulates, article.PubmedID, bel.DefaultEvidence, annotations)
	}
	return len(dpi.Articles)
}
