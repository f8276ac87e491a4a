package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/editor"
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/input"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxUpload bounds request bodies
const maxUpload = 10 << 20

// errBadRequest marks client errors that carry no more specific sentinel
var errBadRequest = errors.New("bad request")

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/graph", s.handleGetGraph())
	mux.HandleFunc("POST /api/graph", s.handleUpload())
	mux.HandleFunc("PATCH /api/graph", s.handleCommand(func() request { return &graphRequest{} }))
	mux.HandleFunc("POST /api/graph/reorient", s.handleCommand(func() request { return &restructureRequest{op: "reorient"} }))
	mux.HandleFunc("POST /api/graph/complement", s.handleCommand(func() request { return &restructureRequest{op: "complement"} }))
	mux.HandleFunc("GET /api/export", s.handleExport())
	mux.HandleFunc("GET /render", s.handleRender())

	mux.HandleFunc("POST /api/nodes", s.handleCommand(func() request { return &addNodeRequest{} }))
	mux.HandleFunc("DELETE /api/nodes/{id}", s.handleRemoveNode())
	mux.HandleFunc("PATCH /api/nodes/{id}", s.handleRenameNode())
	mux.HandleFunc("POST /api/vertices", s.handleCommand(func() request { return &vertexRequest{} }))
	mux.HandleFunc("DELETE /api/vertices", s.handleCommand(func() request { return &vertexRequest{Remove: true} }))
	mux.HandleFunc("PATCH /api/vertices", s.handleCommand(func() request { return &vertexRequest{Update: true} }))
	mux.HandleFunc("POST /api/select", s.handleCommand(func() request { return &selectRequest{} }))
	mux.HandleFunc("POST /api/tree", s.handleCommand(func() request { return &treeRequest{} }))
	mux.HandleFunc("POST /api/forces", s.handleCommand(func() request { return &forcesRequest{validate: s.validate} }))
	mux.HandleFunc("POST /api/rotate", s.handleCommand(func() request { return &rotateRequest{} }))
	mux.HandleFunc("POST /api/color", s.handleCommand(func() request { return &colorRequest{} }))
	mux.HandleFunc("POST /api/animations", s.handleCommand(func() request { return &animationsRequest{} }))
	mux.HandleFunc("POST /api/palette", s.handleCommand(func() request { return &paletteRequest{} }))
	mux.HandleFunc("POST /api/key", s.handleCommand(func() request { return &keyRequest{} }))
	mux.HandleFunc("POST /api/pointer", s.handleCommand(func() request { return &pointerRequest{} }))

	mux.HandleFunc("GET /ws", s.handleStream())
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// request is a JSON command body that is applied on the simulation goroutine
type request interface {
	apply(ed *editor.Editor) (any, error)
}

// handleCommand decodes a request, applies it and replies with its result
func (s *Server) handleCommand(newRequest func() request) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := newRequest()
		if err := decode(r, req); err != nil {
			s.fail(w, err)
			return
		}

		var result any
		err := s.Do(r.Context(), func(ed *editor.Editor) error {
			var err error
			result, err = req.apply(ed)
			return err
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// handleGetGraph replies with the current scene
func (s *Server) handleGetGraph() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scene, err := s.Scene(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, scene)
	}
}

// handleUpload replaces the edited graph with an uploaded one
func (s *Server) handleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "edgelist"
		}
		processor, err := ingest.GetProcessor(format)
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		graph, err := processor.ProcessData(data)
		if err != nil {
			s.fail(w, err)
			return
		}
		if name := r.URL.Query().Get("name"); name != "" {
			graph.Name = name
		}

		if err := s.Do(r.Context(), func(ed *editor.Editor) error {
			ed.Replace(graph)
			return nil
		}); err != nil {
			s.fail(w, err)
			return
		}

		s.log.Info("graph uploaded", "processor", processor.GetName(), "nodes", graph.Len(), "vertices", graph.VertexCount())
		writeJSON(w, http.StatusCreated, summarize(graph))
	}
}

func summarize(graph *models.Graph) graphSummary {
	return graphSummary{
		ID:       graph.ID,
		Name:     graph.Name,
		Nodes:    graph.Len(),
		Vertices: graph.VertexCount(),
		Directed: graph.Directed,
		Weighted: graph.Weighted,
	}
}

type graphSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nodes    int    `json:"nodes"`
	Vertices int    `json:"vertices"`
	Directed bool   `json:"directed"`
	Weighted bool   `json:"weighted"`
}

// handleExport writes the graph as an edge list, JSON or YAML
func (s *Server) handleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")

		var data []byte
		err := s.Do(r.Context(), func(ed *editor.Editor) error {
			var err error
			data, err = ingest.Encode(ed.Graph(), format)
			return err
		})
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		switch format {
		case "json":
			w.Header().Set("Content-Type", "application/json")
		case "yaml", "yml":
			w.Header().Set("Content-Type", "application/yaml")
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.Write(data)
	}
}

// handleRender draws the current scene
func (s *Server) handleRender() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "svg"
		}
		renderer, err := render.GetRenderer(format)
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		options := render.NewDefaultOptions(format)
		options.Width, options.Height = s.cfg.Width, s.cfg.Height
		if v, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && v > 0 {
			options.Width = float64(v)
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && v > 0 {
			options.Height = float64(v)
		}

		scene, err := s.Scene(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		output, err := renderer.Render(scene, options)
		if err != nil {
			s.fail(w, err)
			return
		}

		switch format {
		case "svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		case "echarts", "html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		case "json":
			w.Header().Set("Content-Type", "application/json")
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.Write(output)
	}
}

func pathNode(r *http.Request) (models.NodeID, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: node id %q", errBadRequest, r.PathValue("id"))
	}
	return models.NodeID(id), nil
}

// handleRemoveNode deletes the node named in the path
func (s *Server) handleRemoveNode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathNode(r)
		if err != nil {
			s.fail(w, err)
			return
		}
		err = s.Do(r.Context(), func(ed *editor.Editor) error {
			if !ed.Graph().HasNode(id) {
				return fmt.Errorf("node %d: %w", id, editor.ErrNoSuchNode)
			}
			ed.RemoveNode(id)
			return nil
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type labelRequest struct {
	Label string `json:"label"`
}

// handleRenameNode relabels the node named in the path
func (s *Server) handleRenameNode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathNode(r)
		if err != nil {
			s.fail(w, err)
			return
		}
		var req labelRequest
		if err := decode(r, &req); err != nil {
			s.fail(w, err)
			return
		}
		if err := s.Do(r.Context(), func(ed *editor.Editor) error {
			return ed.SetLabel(id, req.Label)
		}); err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type graphRequest struct {
	Name     *string `json:"name,omitempty"`
	Directed *bool   `json:"directed,omitempty"`
}

func (req *graphRequest) apply(ed *editor.Editor) (any, error) {
	if req.Name != nil {
		ed.Graph().Name = *req.Name
	}
	if req.Directed != nil {
		ed.SetDirected(*req.Directed)
	}
	return summarize(ed.Graph()), nil
}

// restructureRequest reverses or complements the whole graph
type restructureRequest struct {
	op string
}

func (req *restructureRequest) apply(ed *editor.Editor) (any, error) {
	switch req.op {
	case "reorient":
		ed.Reorient()
	case "complement":
		ed.Complement()
	}
	return summarize(ed.Graph()), nil
}

type addNodeRequest struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Select bool    `json:"select"`
}

func (req *addNodeRequest) apply(ed *editor.Editor) (any, error) {
	id := ed.AddNode(req.Label, geom.Vec(req.X, req.Y))
	if req.Select {
		if err := ed.Select(id, false); err != nil {
			return nil, err
		}
	}
	return map[string]models.NodeID{"id": id}, nil
}

type vertexRequest struct {
	From   models.NodeID `json:"from"`
	To     models.NodeID `json:"to"`
	Weight *float64      `json:"weight,omitempty"`
	Remove bool          `json:"-"`
	Update bool          `json:"-"`
}

func (req *vertexRequest) apply(ed *editor.Editor) (any, error) {
	if req.Update {
		if req.Weight == nil {
			return nil, fmt.Errorf("%w: weight is required", errBadRequest)
		}
		return nil, ed.SetWeight(req.From, req.To, *req.Weight)
	}
	if req.Remove {
		return nil, ed.RemoveVertex(req.From, req.To)
	}
	var opts []models.VertexOption
	if req.Weight != nil {
		opts = append(opts, models.WithWeight(*req.Weight))
	}
	return nil, ed.AddVertex(req.From, req.To, opts...)
}

// vertexRef names a vertex inside another request
type vertexRef struct {
	From models.NodeID `json:"from"`
	To   models.NodeID `json:"to"`
}

type selectRequest struct {
	Node     models.NodeID `json:"node"`
	Vertex   *vertexRef    `json:"vertex,omitempty"`
	Additive bool          `json:"additive"`
	Clear    bool          `json:"clear"`
}

type selectionReply struct {
	Selected []models.NodeID `json:"selected"`
	Vertices []vertexRef     `json:"vertices,omitempty"`
}

func (req *selectRequest) apply(ed *editor.Editor) (any, error) {
	if req.Clear {
		ed.DeselectAll()
		return nil, nil
	}

	var err error
	if req.Vertex != nil {
		err = ed.SelectVertex(req.Vertex.From, req.Vertex.To, req.Additive)
	} else {
		err = ed.Select(req.Node, req.Additive)
	}
	if err != nil {
		return nil, err
	}

	reply := selectionReply{Selected: ed.Selection().Selected()}
	for _, k := range ed.Selection().SelectedVertices() {
		reply.Vertices = append(reply.Vertices, vertexRef{From: k.From, To: k.To})
	}
	return reply, nil
}

type treeRequest struct {
	Enabled bool `json:"enabled"`
}

func (req *treeRequest) apply(ed *editor.Editor) (any, error) {
	ed.SetTreeMode(req.Enabled)
	return nil, nil
}

type forcesRequest struct {
	Enabled *bool           `json:"enabled,omitempty"`
	Physics *physics.Config `json:"physics,omitempty"`

	validate interface{ Struct(any) error }
}

func (req *forcesRequest) apply(ed *editor.Editor) (any, error) {
	if req.Physics != nil {
		if err := req.validate.Struct(req.Physics); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		ed.SetPhysics(*req.Physics)
	}
	if req.Enabled != nil {
		ed.SetForces(*req.Enabled)
	}
	return ed.Layout().Config(), nil
}

type rotateRequest struct {
	Angle float64 `json:"angle"`
}

func (req *rotateRequest) apply(ed *editor.Editor) (any, error) {
	ed.Rotate(req.Angle)
	return nil, nil
}

type colorRequest struct {
	Node     models.NodeID `json:"node"`
	Vertex   *vertexRef    `json:"vertex,omitempty"`
	Hex      string        `json:"hex,omitempty"`
	Accent   *int          `json:"accent,omitempty"`
	Parallel bool          `json:"parallel"`
}

func (req *colorRequest) apply(ed *editor.Editor) (any, error) {
	var spec colors.Spec
	switch {
	case req.Accent != nil:
		spec = colors.Accent(*req.Accent)
	case req.Hex != "":
		var err error
		if spec, err = colors.Hex(req.Hex); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	default:
		return nil, fmt.Errorf("%w: colour needs hex or accent", errBadRequest)
	}
	if req.Vertex != nil {
		return nil, ed.ChangeVertexColor(req.Vertex.From, req.Vertex.To, spec, req.Parallel)
	}
	return nil, ed.ChangeColor(req.Node, nil, spec, req.Parallel)
}

type animationsRequest struct {
	Paused bool `json:"paused"`
}

func (req *animationsRequest) apply(ed *editor.Editor) (any, error) {
	if req.Paused {
		ed.PauseAnimations()
	} else {
		ed.ResumeAnimations()
	}
	return nil, nil
}

type paletteRequest struct {
	Name string `json:"name"`
}

func (req *paletteRequest) apply(ed *editor.Editor) (any, error) {
	palette, err := colors.PaletteByName(req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	ed.SetPalette(palette)
	return nil, nil
}

type keyRequest struct {
	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`
}

func (req *keyRequest) apply(ed *editor.Editor) (any, error) {
	k, err := input.ParseKey(req.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if req.Pressed {
		ed.PressKey(k)
	} else {
		ed.ReleaseKey(k)
	}
	return nil, nil
}

type pointerRequest struct {
	Action string  `json:"action"` // down, move, up or scroll
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
}

func (req *pointerRequest) apply(ed *editor.Editor) (any, error) {
	screen := geom.Vec(req.X, req.Y)

	button := input.Left
	if req.Button != "" {
		var err error
		if button, err = input.ParseButton(req.Button); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	switch req.Action {
	case "down":
		return nil, ed.PointerDown(screen, button)
	case "move":
		ed.PointerMove(screen)
	case "up":
		ed.PointerUp(button)
	case "scroll":
		ed.Scroll(screen, req.Delta)
	default:
		return nil, fmt.Errorf("%w: unknown pointer action %q", errBadRequest, req.Action)
	}
	return nil, nil
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxUpload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}

// statusOf maps an error onto an HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, ingest.ErrSyntax):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrNoSuchNode),
		errors.Is(err, models.ErrNodeNotFound),
		errors.Is(err, models.ErrVertexNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateVertex),
		errors.Is(err, models.ErrSelfLoop),
		errors.Is(err, models.ErrMixedDirection):
		return http.StatusConflict
	case errors.Is(err, ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	} else {
		s.log.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
