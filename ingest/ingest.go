// Package ingest turns textual graph descriptions into graphs and back
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
	opensimplex "github.com/ojrac/opensimplex-go"
	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned for malformed input
var ErrSyntax = errors.New("syntax error")

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// Spacing is the distance between neighbouring nodes of the initial placement
const Spacing = 3.0

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

var jitter = opensimplex.New(7)

// Spiral returns the initial position of the i-th node: a golden-angle spiral,
// roughened with a little noise so that no two imports look machine-aligned
func Spiral(i int, spacing float64) geom.Vector {
	r := spacing * math.Sqrt(float64(i)+0.5)
	theta := float64(i) * goldenAngle

	wobble := 0.25 * spacing
	dx := jitter.Eval2(float64(i)*0.71, 0) * wobble
	dy := jitter.Eval2(0, float64(i)*0.71) * wobble

	return geom.Vec(r*math.Cos(theta)+dx, r*math.Sin(theta)+dy)
}

// document is the structured form shared by the JSON and YAML formats
type document struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Directed bool          `json:"directed" yaml:"directed"`
	Weighted bool          `json:"weighted" yaml:"weighted"`
	Nodes    []documentRow `json:"nodes" yaml:"nodes"`
	Edges    []documentArc `json:"edges" yaml:"edges"`
}

type documentRow struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	X     *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y     *float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

type documentArc struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

func (doc *document) build(fallbackName string) (*models.Graph, error) {
	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	graph := models.NewGraph(name, doc.Directed)
	graph.Weighted = doc.Weighted

	ids := make(map[string]models.NodeID, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if _, exists := ids[n.ID]; exists {
			return nil, fmt.Errorf("node %q: %w: duplicate id", n.ID, ErrSyntax)
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		position := Spiral(i, Spacing)
		if n.X != nil && n.Y != nil {
			position = geom.Vec(*n.X, *n.Y)
		}
		ids[n.ID] = graph.AddNode(label, position)
	}

	for _, e := range doc.Edges {
		source, sourceExists := ids[e.Source]
		target, targetExists := ids[e.Target]
		if !sourceExists || !targetExists {
			return nil, fmt.Errorf("edge references non-existent node: %s -> %s", e.Source, e.Target)
		}

		opts := []models.VertexOption{}
		if e.Weight != nil {
			opts = append(opts, models.WithWeight(*e.Weight))
			graph.Weighted = true
		}
		if err := graph.AddVertex(source, target, opts...); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	return graph, nil
}

func newDocument(g *models.Graph) document {
	doc := document{
		Name:     g.Name,
		Directed: g.Directed,
		Weighted: g.Weighted,
	}

	for _, n := range g.Nodes() {
		x, y := n.Position.X(), n.Position.Y()
		doc.Nodes = append(doc.Nodes, documentRow{
			ID:    strconv.FormatInt(int64(n.ID), 10),
			Label: n.Label,
			X:     &x,
			Y:     &y,
		})
	}

	for _, v := range undirectedOnce(g) {
		arc := documentArc{
			Source: strconv.FormatInt(int64(v.From), 10),
			Target: strconv.FormatInt(int64(v.To), 10),
		}
		if g.Weighted {
			w := v.Weight
			arc.Weight = &w
		}
		doc.Edges = append(doc.Edges, arc)
	}
	return doc
}

// undirectedOnce returns the vertices of g, listing each undirected edge once
func undirectedOnce(g *models.Graph) []*models.Vertex {
	vertices := g.Vertices()
	if g.Directed {
		return vertices
	}

	var out []*models.Vertex
	for _, v := range vertices {
		if v.From <= v.To {
			out = append(out, v)
		}
	}
	return out
}

// JSONProcessor handles JSON documents
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return doc.build("JSON Import")
}

// YAMLProcessor handles YAML documents with the same shape as the JSON format
type YAMLProcessor struct{}

// NewYAMLProcessor creates a new YAML processor
func NewYAMLProcessor() *YAMLProcessor {
	return &YAMLProcessor{}
}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes YAML data
func (p *YAMLProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return doc.build("YAML Import")
}

// CSVProcessor handles source,target[,weight] tables. Rows are directed
// vertices from source to target.
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx, weightIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, fmt.Errorf("%w: CSV must contain source and target columns", ErrSyntax)
	}

	graph := models.NewGraph("CSV Import", true)
	graph.Weighted = weightIdx >= 0
	ids := make(map[string]models.NodeID)
	node := func(name string) models.NodeID {
		if id, ok := ids[name]; ok {
			return id
		}
		id := graph.AddNode(name, Spiral(len(ids), Spacing))
		ids[name] = id
		return id
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		if sourceIdx >= len(row) || targetIdx >= len(row) {
			return nil, fmt.Errorf("line %d: %w: missing columns", line, ErrSyntax)
		}

		source, target := node(row[sourceIdx]), node(row[targetIdx])

		weight := models.DefaultWeight
		if weightIdx >= 0 && weightIdx < len(row) && row[weightIdx] != "" {
			weight, err = strconv.ParseFloat(strings.TrimSpace(row[weightIdx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: bad weight %q", line, ErrSyntax, row[weightIdx])
			}
		}

		if err := graph.AddVertex(source, target, models.WithWeight(weight)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return graph, nil
}

// Encode writes g in the named format: "edgelist", "json" or "yaml"
func Encode(g *models.Graph, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "edgelist", "txt", "graph":
		return []byte(Export(g)), nil
	case "json":
		return json.MarshalIndent(newDocument(g), "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(newDocument(g))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "edgelist", "txt", "graph":
		return NewEdgeListProcessor(), nil
	case "json":
		return NewJSONProcessor(), nil
	case "yaml", "yml":
		return NewYAMLProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatOf guesses the format of a file from its extension, defaulting to the
// edge list format
func FormatOf(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "json", "yaml", "yml", "csv":
		return ext
	default:
		return "edgelist"
	}
}
