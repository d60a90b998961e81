// Package bel stellt ein minimales Graph-Modell im Stil von BEL bereit:
// Knoten mit Namespace/Name/Identifier und gerichtete, zitat-qualifizierte
// Kanten. Die Downstream-Netzwerkanalyse konsumiert ausschließlich diese
// Strukturen.
package bel

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Standard-Namespaces der Knotenerzeugung. Über Export-Optionen überschreibbar.
const (
	NamespaceDrugbank = "drugbank"
	NamespaceHGNC     = "hgnc"
	NamespaceUniprot  = "uniprot"
)

// Relation und Evidenz-Label der exportierten Kanten.
const (
	RelationRegulates = "regulates"
	DefaultEvidence   = "Interaction annotation extracted from the DrugBank database"
)

// Node beschreibt eine Entität als Graph-Knoten.
type Node struct {
	Namespace  string `json:"namespace"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Key liefert den Deduplizierungs-Schlüssel eines Knotens.
func (n Node) Key() string {
	return fmt.Sprintf("%s:%s!%s", n.Namespace, n.Identifier, n.Name)
}

// Edge ist eine gerichtete, zitat-qualifizierte Kante zwischen zwei Knoten.
type Edge struct {
	Source   Node   `json:"source"`
	Target   Node   `json:"target"`
	Relation string `json:"relation"`
	// Citation ist die PubMed-ID der Literatur-Referenz der Kante.
	Citation    string            `json:"citation"`
	Evidence    string            `json:"evidence"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Graph sammelt Knoten (dedupliziert) und Kanten (in Einfüge-Reihenfolge).
type Graph struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// NamespaceURL verknüpft verwendete Namespaces mit ihren Definitions-URLs.
	NamespaceURL map[string]string `json:"namespace_url,omitempty"`

	nodes map[string]Node
	edges []Edge
}

// NewGraph erstellt einen leeren Graphen.
func NewGraph(name, version string) *Graph {
	return &Graph{
		Name:         name,
		Version:      version,
		NamespaceURL: make(map[string]string),
		nodes:        make(map[string]Node),
	}
}

// AddNode registriert einen Knoten. Wiederholtes Hinzufügen desselben
// Schlüssels ist ein No-Op.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.Key()]; !ok {
		g.nodes[n.Key()] = n
	}
}

// AddQualifiedEdge fügt eine gerichtete Kante mit Zitat, Evidenz und
// Annotationen hinzu. Beide Endpunkte werden als Knoten registriert.
func (g *Graph) AddQualifiedEdge(source, target Node, relation, citation, evidence string, annotations map[string]string) {
	g.AddNode(source)
	g.AddNode(target)
	g.edges = append(g.edges, Edge{
		Source:      source,
		Target:      target,
		Relation:    relation,
		Citation:    citation,
		Evidence:    evidence,
		Annotations: annotations,
	})
}

// Nodes gibt alle Knoten in deterministischer Reihenfolge zurück.
func (g *Graph) Nodes() []Node {
	keys := make([]string, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	nodes := make([]Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, g.nodes[k])
	}
	return nodes
}

// Edges gibt alle Kanten in Einfüge-Reihenfolge zurück.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// MarshalJSON serialisiert den Graphen inklusive Knoten und Kanten.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		NamespaceURL map[string]string `json:"namespace_url,omitempty"`
		Nodes        []Node            `json:"nodes"`
		Edges        []Edge            `json:"edges"`
	}{
		Name:         g.Name,
		Version:      g.Version,
		NamespaceURL: g.NamespaceURL,
		Nodes:        g.Nodes(),
		Edges:        g.Edges(),
	})
}

// NodeCount gibt die Anzahl der Knoten zurück.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount gibt die Anzahl der Kanten zurück.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
