package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsRenderer outputs a self-contained go-echarts HTML page. Nodes keep
// their laid out positions; echarts' own force layout stays off.
type EChartsRenderer struct{}

// Name returns the name of the renderer
func (r *EChartsRenderer) Name() string {
	return "ECharts Renderer"
}

// Description returns a description of the renderer
func (r *EChartsRenderer) Description() string {
	return "Renders an interactive HTML page using Apache ECharts"
}

func nodeName(n SceneNode) string {
	if n.Label != "" {
		return fmt.Sprintf("%s (%d)", n.Label, n.ID)
	}
	return fmt.Sprint(n.ID)
}

// Render creates an HTML page showing the scene
func (r *EChartsRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	proj := fit(scene, options.Width, options.Height, options.NodeSize*2)

	names := make(map[int64]string, len(scene.Nodes))
	nodes := make([]opts.GraphNode, 0, len(scene.Nodes))
	for _, n := range scene.Nodes {
		x, y := proj.point(n.X, n.Y)
		name := nodeName(n)
		names[int64(n.ID)] = name

		size := options.NodeSize * 2
		if n.Selected {
			size *= 1.3
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       name,
			X:          float32(x),
			Y:          float32(y),
			SymbolSize: size,
			ItemStyle:  &opts.ItemStyle{Color: n.Fill},
		})
	}

	links := make([]opts.GraphLink, 0, len(scene.Vertices))
	for _, e := range scene.Edges() {
		links = append(links, opts.GraphLink{
			Source: names[int64(e.From)],
			Target: names[int64(e.To)],
		})
	}

	title := scene.Name
	if title == "" {
		title = "forcegraph"
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Width:           fmt.Sprintf("%gpx", options.Width),
			Height:          fmt.Sprintf("%gpx", options.Height),
			BackgroundColor: scene.Background,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Draggable:  opts.Bool(true),
				Roam:       opts.Bool(true),
				EdgeSymbol: edgeSymbol(scene.Directed),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(options.ShowLabels),
			Position: "inside",
		}),
	)

	page := components.NewPage()
	page.AddCharts(graph)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render echarts page: %w", err)
	}
	return buf.Bytes(), nil
}

func edgeSymbol(directed bool) []string {
	if directed {
		return []string{"none", "arrow"}
	}
	return []string{"none", "none"}
}
