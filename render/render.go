// Package render draws captured scenes. Renderers are read-only consumers:
// they see a Scene, never the live graph.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
)

// OutputOptions controls how a scene is drawn
type OutputOptions struct {
	Format         string  // Output format (svg, ascii, json, dot, echarts)
	Width          float64 // Width of the output
	Height         float64 // Height of the output
	Timestamp      bool    // Include the capture time
	NodeSize       float64 // Node radius on the canvas
	EdgeWidth      float64 // Default edge width
	FontSize       float64 // Font size for labels
	ShowLabels     bool    // Show node labels
	ShowEdgeLabels bool    // Show weights on edges
	Quality        string  // Rendering quality (low, medium, high)
}

// Renderer draws a captured scene
type Renderer interface {
	// Render creates a visualization of the scene using the provided options
	Render(scene *Scene, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		Width:          800,
		Height:         600,
		Timestamp:      false,
		NodeSize:       12.0,
		EdgeWidth:      1.0,
		FontSize:       10.0,
		ShowLabels:     true,
		ShowEdgeLabels: false,
		Quality:        "medium",
	}
}

// Formats lists the names GetRenderer accepts
func Formats() []string {
	return []string{"svg", "json", "dot", "ascii", "echarts"}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "echarts", "html":
		return &EChartsRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Generate lays out g with alg for at most maxTicks ticks, then renders it
// against palette. The layout stops early when ctx is done.
func Generate(ctx context.Context, g *models.Graph, alg physics.LayoutAlgorithm, maxTicks int, palette colors.Palette, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}

	if _, err := physics.Run(ctx, alg, g, maxTicks); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	return renderer.Render(Capture(g, nil, palette, g.UpdatedAt), options)
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders graphs as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the scene
func (r *SVGRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	proj := fit(scene, options.Width, options.Height, options.NodeSize+options.FontSize+4)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, scene.Background)

	if scene.Directed {
		buf.WriteString(`<defs>
  <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5"
      markerWidth="6" markerHeight="6" orient="auto-start-reverse">
    <path d="M0,0 L10,5 L0,10 z" fill="context-stroke"/>
  </marker>
</defs>
`)
	}

	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<rect x="0" y="0" width="%g" height="%g" fill="none" stroke="#e0e0e0" stroke-width="1"/>
`, options.Width, options.Height)
	}

	for _, edge := range scene.Edges() {
		from, okFrom := scene.Node(edge.From)
		to, okTo := scene.Node(edge.To)
		if !okFrom || !okTo {
			continue
		}

		width := options.EdgeWidth
		if scene.Weighted && edge.Weight > 0 {
			width = math.Max(0.5, edge.Weight*options.EdgeWidth*0.5)
		}
		if edge.Selected {
			width *= 2
		}

		x1, y1 := proj.point(from.X, from.Y)
		x2, y2 := proj.point(to.X, to.Y)

		if edge.From == edge.To {
			// loops are drawn as a small circle above the node
			fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>
`, x1, y1-options.NodeSize, options.NodeSize*0.8, edge.Color, width)
			continue
		}

		// stop the line at the rim of the target so the arrow stays visible
		dx, dy := x2-x1, y2-y1
		if d := math.Hypot(dx, dy); d > options.NodeSize {
			x2 -= dx / d * options.NodeSize
			y2 -= dy / d * options.NodeSize
		}

		marker := ""
		if scene.Directed {
			marker = ` marker-end="url(#arrow)"`
		}
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>
`, x1, y1, x2, y2, edge.Color, width, marker)

		if options.ShowEdgeLabels && scene.Weighted {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle">%g</text>
`, (x1+x2)/2, (y1+y2)/2, options.FontSize, edge.Color, edge.Weight)
		}
	}

	for _, node := range scene.Nodes {
		x, y := proj.point(node.X, node.Y)

		if options.Quality == "high" {
			fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="rgba(0,0,0,0.1)" transform="translate(2,2)"/>
`, x, y, options.NodeSize)
		}

		stroke, strokeWidth := node.Font, 1.0
		if node.Selected {
			strokeWidth = 2.5
		}
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>
`, x, y, options.NodeSize, node.Fill, stroke, strokeWidth)

		if options.ShowLabels && node.Label != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>
`, x, y, options.FontSize, node.Font, html.EscapeString(node.Label))
		}
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, scene.Time.Format("2006-01-02 15:04:05"))
	}

	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<text x="5" y="15" font-family="sans-serif" font-size="10" fill="#808080">Nodes: %d | Edges: %d</text>
`, len(scene.Nodes), len(scene.Edges()))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// JSONRenderer outputs the scene as JSON
type JSONRenderer struct{}

func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

func (r *JSONRenderer) Description() string {
	return "Renders the scene as JSON data for machine consumption or custom visualizations"
}

// Render creates a JSON representation of the scene
func (r *JSONRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(scene, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

func (r *DOTRenderer) Description() string {
	return "Renders graph in Graphviz DOT format for compatibility with Graphviz tools"
}

// Render creates a DOT representation of the scene. Positions are pinned so
// that neato -n reproduces the layout.
func (r *DOTRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	kind, arrow := "graph", "--"
	if scene.Directed {
		kind, arrow = "digraph", "->"
	}

	fmt.Fprintf(&buf, "%s G {\n", kind)
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, size=\"%g,%g\"];\n",
		scene.Background, options.Width/72.0, options.Height/72.0)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fontname=\"Arial\", fontsize=%g];\n", options.FontSize)
	fmt.Fprintf(&buf, "  edge [fontname=\"Arial\", fontsize=%g];\n", options.FontSize*0.8)

	for _, node := range scene.Nodes {
		label := node.Label
		if label == "" {
			label = fmt.Sprint(node.ID)
		}
		penwidth := 1.0
		if node.Selected {
			penwidth = 3
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q, fontcolor=%q, penwidth=%g, pos=\"%g,%g!\"];\n",
			node.ID, label, node.Fill, node.Font, penwidth, node.X, -node.Y)
	}

	for _, edge := range scene.Edges() {
		attrs := fmt.Sprintf("color=%q", edge.Color)
		if scene.Weighted {
			attrs += fmt.Sprintf(", weight=%g", edge.Weight)
			if options.ShowEdgeLabels {
				attrs += fmt.Sprintf(", label=\"%g\"", edge.Weight)
			}
		}
		fmt.Fprintf(&buf, "  n%d %s n%d [%s];\n", edge.From, arrow, edge.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

func (r *ASCIIRenderer) Description() string {
	return "Renders graphs as ASCII art for terminal or text-based output"
}

const edgeRune = '·'

// Render creates an ASCII representation of the scene
func (r *ASCIIRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	// one cell is roughly twice as tall as it is wide
	proj := fit(scene, float64(width-2), float64(height-2)*2, 1)
	cell := func(n SceneNode) (int, int) {
		x, y := proj.point(n.X, n.Y)
		return clamp(int(math.Round(x))+1, 1, width-2), clamp(int(math.Round(y/2))+1, 1, height-2)
	}

	for _, edge := range scene.Edges() {
		from, okFrom := scene.Node(edge.From)
		to, okTo := scene.Node(edge.To)
		if !okFrom || !okTo || edge.From == edge.To {
			continue
		}
		x1, y1 := cell(from)
		x2, y2 := cell(to)
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, node := range scene.Nodes {
		x, y := cell(node)

		symbol := 'o'
		if node.Selected {
			symbol = '@'
		}
		grid[y][x] = symbol

		if options.ShowLabels && node.Label != "" && y+1 < height-1 {
			label := []rune(node.Label)
			for i := 0; i < len(label) && x+i < width-1; i++ {
				grid[y+1][x+i] = label[i]
			}
		}
	}

	title := []rune(scene.Name)
	if len(title) < width-4 && height > 3 {
		for i, c := range title {
			grid[0][i+2] = c
		}
	}

	if options.Timestamp && height > 4 {
		stamp := scene.Time.Format("2006-01-02 15:04")
		if len(stamp) < width-4 {
			for i, c := range stamp {
				grid[height-1][i+2] = c
			}
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}

	return []byte(result.String()), nil
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Draw a line on the ASCII grid using Bresenham's algorithm, leaving
// non-blank cells alone
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && grid[y1][x1] == ' ' {
			grid[y1][x1] = edgeRune
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
