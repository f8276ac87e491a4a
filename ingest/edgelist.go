package ingest

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/TFMV/forcegraph/models"
)

// EdgeListProcessor reads the line-oriented edge list format:
//
//	A -> B 5
//	B <- C
//	C D
//	E
//
// Each line names one or two nodes, an optional arrow and an optional numeric
// weight. Blank lines and lines starting with '#' are skipped. The graph is
// directed if any line has an arrow, or if the comment "# directed" appears,
// and weighted if any line has a weight; arrowless lines in a directed graph
// connect both ways.
type EdgeListProcessor struct{}

// NewEdgeListProcessor creates a new edge list processor
func NewEdgeListProcessor() *EdgeListProcessor {
	return &EdgeListProcessor{}
}

// GetName returns the name of the processor
func (p *EdgeListProcessor) GetName() string {
	return "Edge List Processor"
}

// directedPragma marks a directed graph that has no arrows to show it
const directedPragma = "# directed"

type edgeLine struct {
	number   int
	from, to string
	arrow    string
	weight   *float64
}

func parseEdgeLine(number int, text string) (edgeLine, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return edgeLine{}, false, nil
	}

	parts := strings.Fields(text)
	line := edgeLine{number: number, from: parts[0]}
	rest := parts[1:]

	if len(rest) == 0 {
		return line, true, nil
	}

	if rest[0] == "->" || rest[0] == "<-" {
		line.arrow = rest[0]
		rest = rest[1:]
		if len(rest) == 0 {
			return edgeLine{}, false, fmt.Errorf("line %d: %w: arrow without target", number, ErrSyntax)
		}
	}

	line.to = rest[0]
	rest = rest[1:]

	switch len(rest) {
	case 0:
	case 1:
		w, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return edgeLine{}, false, fmt.Errorf("line %d: %w: bad weight %q", number, ErrSyntax, rest[0])
		}
		line.weight = &w
	default:
		return edgeLine{}, false, fmt.Errorf("line %d: %w: unexpected %q", number, ErrSyntax, strings.Join(rest, " "))
	}

	return line, true, nil
}

// ProcessData parses an edge list
func (p *EdgeListProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var lines []edgeLine
	directed, weighted := false, false

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for number := 1; scanner.Scan(); number++ {
		if strings.TrimSpace(scanner.Text()) == directedPragma {
			directed = true
			continue
		}
		line, ok, err := parseEdgeLine(number, scanner.Text())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		directed = directed || line.arrow != ""
		weighted = weighted || line.weight != nil
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading edge list: %w", err)
	}

	graph := models.NewGraph("Edge List Import", directed)
	graph.Weighted = weighted

	ids := make(map[string]models.NodeID)
	node := func(name string) models.NodeID {
		if id, ok := ids[name]; ok {
			return id
		}
		id := graph.AddNode(name, Spiral(len(ids), Spacing))
		ids[name] = id
		return id
	}

	for _, line := range lines {
		from := node(line.from)
		if line.to == "" {
			continue
		}
		to := node(line.to)

		if line.arrow == "<-" {
			from, to = to, from
		}

		opts := []models.VertexOption{models.Directed(line.arrow != "")}
		if line.weight != nil {
			opts = append(opts, models.WithWeight(*line.weight))
		}
		if err := graph.AddVertex(from, to, opts...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line.number, err)
		}
	}

	return graph, nil
}

// Export writes g in the edge list format. Nodes are written under their
// label when it is usable and unique, by ID otherwise; nodes without vertices
// get a line of their own.
func Export(g *models.Graph) string {
	names := exportNames(g)

	var b strings.Builder
	connected := make(map[models.NodeID]bool)

	for _, v := range undirectedOnce(g) {
		connected[v.From] = true
		connected[v.To] = true

		b.WriteString(names[v.From])
		if g.Directed {
			b.WriteString(" -> ")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(names[v.To])
		if g.Weighted {
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(v.Weight, 'g', -1, 64))
		}
		b.WriteString("\n")
	}

	for _, n := range g.Nodes() {
		if !connected[n.ID] {
			b.WriteString(names[n.ID])
			b.WriteString("\n")
		}
	}

	if g.Directed && len(connected) == 0 {
		return directedPragma + "\n" + b.String()
	}
	return b.String()
}

// exportNames picks a distinct name for every node. A label that cannot be
// parsed back, or that another node would be written under as well, gives way
// to the node's ID; IDs are distinct, so repeating until nothing collides
// terminates.
func exportNames(g *models.Graph) map[models.NodeID]string {
	names := make(map[models.NodeID]string, g.Len())
	byID := make(map[models.NodeID]bool, g.Len())
	for _, n := range g.Nodes() {
		name := n.Label
		if name == "" || strings.ContainsAny(name, " \t#") || name == "->" || name == "<-" {
			name = strconv.FormatInt(int64(n.ID), 10)
			byID[n.ID] = true
		}
		names[n.ID] = name
	}

	for {
		count := make(map[string]int, len(names))
		for _, name := range names {
			count[name]++
		}

		changed := false
		for id, name := range names {
			if count[name] > 1 && !byID[id] {
				names[id] = strconv.FormatInt(int64(id), 10)
				byID[id] = true
				changed = true
			}
		}
		if !changed {
			return names
		}
	}
}
