package render

import (
	"math"
	"time"

	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/selection"
)

// Scene is a frozen, fully resolved picture of a graph at one instant. It
// shares nothing with the graph it was captured from.
type Scene struct {
	Name       string        `json:"name"`
	Directed   bool          `json:"directed"`
	Weighted   bool          `json:"weighted"`
	Time       time.Time     `json:"time"`
	Background string        `json:"background"`
	Nodes      []SceneNode   `json:"nodes"`
	Vertices   []SceneVertex `json:"vertices"`
}

// SceneNode is a node as drawn
type SceneNode struct {
	ID       models.NodeID `json:"id"`
	Label    string        `json:"label"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Fill     string        `json:"fill"`
	Font     string        `json:"font"`
	Selected bool          `json:"selected,omitempty"`
	Dragged  bool          `json:"dragged,omitempty"`
}

// SceneVertex is a vertex as drawn
type SceneVertex struct {
	From     models.NodeID `json:"from"`
	To       models.NodeID `json:"to"`
	Weight   float64       `json:"weight"`
	Color    string        `json:"color"`
	Selected bool          `json:"selected,omitempty"`
}

// Capture resolves every animated colour of g at now against palette. A nil
// selection captures nothing as selected.
func Capture(g *models.Graph, sel *selection.State, palette colors.Palette, now time.Time) *Scene {
	if sel == nil {
		sel = selection.New()
	}

	scene := &Scene{
		Name:       g.Name,
		Directed:   g.Directed,
		Weighted:   g.Weighted,
		Time:       now,
		Background: colors.HexOf(colors.Background(), palette),
		Nodes:      make([]SceneNode, 0, g.Len()),
		Vertices:   make([]SceneVertex, 0, g.VertexCount()),
	}

	for _, n := range g.Nodes() {
		scene.Nodes = append(scene.Nodes, SceneNode{
			ID:       n.ID,
			Label:    n.Label,
			X:        n.Position.X(),
			Y:        n.Position.Y(),
			Fill:     colors.HexOf(n.Paint.ResolveFill(now, colors.Background()), palette),
			Font:     colors.HexOf(n.Paint.ResolveFont(now, colors.Text()), palette),
			Selected: sel.IsSelected(n.ID),
			Dragged:  sel.IsDragged(n.ID),
		})
	}

	for _, v := range g.Vertices() {
		scene.Vertices = append(scene.Vertices, SceneVertex{
			From:     v.From,
			To:       v.To,
			Weight:   v.Weight,
			Color:    colors.HexOf(v.Paint.ResolveFill(now, colors.Text()), palette),
			Selected: sel.IsVertexSelected(v.From, v.To),
		})
	}

	return scene
}

// Node looks up a node of the scene by ID
func (s *Scene) Node(id models.NodeID) (SceneNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return SceneNode{}, false
}

// Edges returns the vertices to draw: every vertex of a directed scene, each
// undirected pair once otherwise
func (s *Scene) Edges() []SceneVertex {
	if s.Directed {
		return s.Vertices
	}
	edges := make([]SceneVertex, 0, len(s.Vertices)/2+1)
	for _, v := range s.Vertices {
		if v.From <= v.To {
			edges = append(edges, v)
		}
	}
	return edges
}

// projection maps world coordinates onto a canvas, fitting the scene inside
// the canvas minus a margin and keeping the aspect ratio
type projection struct {
	scale  float64
	offset [2]float64
}

func fit(s *Scene, width, height, margin float64) projection {
	if len(s.Nodes) == 0 {
		return projection{scale: 1, offset: [2]float64{width / 2, height / 2}}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range s.Nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}

	innerW := math.Max(width-2*margin, 1)
	innerH := math.Max(height-2*margin, 1)

	scale := 1.0
	spanX, spanY := maxX-minX, maxY-minY
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	return projection{
		scale:  scale,
		offset: [2]float64{width/2 - midX*scale, height/2 - midY*scale},
	}
}

func (p projection) point(x, y float64) (float64, float64) {
	return x*p.scale + p.offset[0], y*p.scale + p.offset[1]
}
