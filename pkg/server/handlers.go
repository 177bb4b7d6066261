package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/layout"
	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/render/nodelink"
	"github.com/matzehuels/movegraph/pkg/render/scene"
	"github.com/matzehuels/movegraph/pkg/viewport"
)

const maxEventBytes = 64 << 10

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body{margin:0;background:{{.Background}};color:#fff;font-family:Helvetica,sans-serif}#graph{width:100vw;height:100vh}</style>
</head>
<body>
<div id="graph"><img id="svg" src="/api/graph.svg" alt="{{.Title}}"></div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "reload" || msg.type === "state") {
    document.getElementById("svg").src = "/api/graph.svg?t=" + Date.now();
  }
};
</script>
</body>
</html>
`))

// handleIndex serves StaticDir/index.html when present and a minimal
// SVG viewer otherwise.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.opts.StaticDir != "" {
		index := filepath.Join(s.opts.StaticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Title, Background string }{"Moves", s.session.Style().Background}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

// handleMoveset returns the raw moveset as loaded.
func (s *Server) handleMoveset(w http.ResponseWriter, r *http.Request) {
	ms := s.session.Moveset()
	if ms == nil {
		writeError(w, mgerrors.New(mgerrors.ErrCodeNotFound, "Moveset not found"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := moves.WriteJSON(w, ms); err != nil {
		s.logger.Error("write moveset", "err", err)
	}
}

type healthResponse struct {
	Status   string    `json:"status"`
	Source   string    `json:"source,omitempty"`
	Moves    int       `json:"moves"`
	Edges    int       `json:"edges"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Clients  int       `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "empty", Clients: s.hub.Count()}
	resp.Source, resp.LoadedAt = s.session.Source()
	if g := s.session.Graph(); g != nil {
		resp.Status = "ok"
		resp.Moves, resp.Edges = g.NodeCount(), g.EdgeCount()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeHTTP(w, r)
}

// handleNode returns the tooltip of one move.
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	tip, err := s.session.Tooltip(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

// handleStyle returns the zoom-dependent attributes, optionally after
// applying ?zoom.
func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	if !s.applyZoom(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.ZoomStyle())
}

// handleGraph returns the scene. ?mode re-runs the layout, ?zoom restyles
// and ?format=cytoscape selects the Cytoscape elements document.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !s.applyMode(w, r) || !s.applyZoom(w, r) {
		return
	}
	sc := s.session.Scene()

	w.Header().Set("Content-Type", "application/json")
	var err error
	switch r.URL.Query().Get("format") {
	case "", "json":
		err = scene.WriteJSON(w, sc)
	case "cytoscape":
		err = scene.WriteCytoscape(w, sc)
	default:
		writeError(w, mgerrors.New(mgerrors.ErrCodeInvalidFormat, "unknown graph format: %s", r.URL.Query().Get("format")))
		return
	}
	if err != nil {
		s.logger.Error("write scene", "err", err)
	}
}

// handleGraphSVG renders the scene through Graphviz.
func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	if !s.applyMode(w, r) || !s.applyZoom(w, r) {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot := nodelink.ToDOT(s.session.Scene(), nodelink.Options{Detailed: detailed})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) applyMode(w http.ResponseWriter, r *http.Request) bool {
	name := r.URL.Query().Get("mode")
	if name == "" || layout.ParseMode(name) == s.session.State().Mode {
		return true
	}
	if _, err := s.session.SetLayoutMode(r.Context(), name); err != nil {
		if errors.Is(err, layout.ErrSuperseded) {
			s.logger.Debug("layout superseded", "mode", name)
			return true
		}
		writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInternal, err, "layout %s", name))
		return false
	}
	return true
}

func (s *Server) applyZoom(w http.ResponseWriter, r *http.Request) bool {
	raw := r.URL.Query().Get("zoom")
	if raw == "" {
		return true
	}
	z, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, mgerrors.New(mgerrors.ErrCodeInvalidInput, "invalid zoom: %s", raw))
		return false
	}
	s.session.Zoom(z)
	return true
}

// Event is a user interaction posted by the browser. Which fields are read
// depends on Type.
type Event struct {
	Type    string  `json:"type"`
	Value   string  `json:"value,omitempty"`
	Show    *bool   `json:"show,omitempty"`
	ID      string  `json:"id,omitempty"`
	Zoom    float64 `json:"zoom,omitempty"`
	Factor  float64 `json:"factor,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Padding float64 `json:"padding,omitempty"`
}

// Event types accepted by POST /api/events.
const (
	EventLayout          = "layout"
	EventCurve           = "curve"
	EventLabels          = "labels"
	EventNodeColor       = "node_color"
	EventEdgeColor       = "edge_color"
	EventBackground      = "background"
	EventResetNodeColors = "reset_node_colors"
	EventResetColors     = "reset_colors"
	EventZoom            = "zoom"
	EventZoomAt          = "zoom_at"
	EventPan             = "pan"
	EventResize          = "resize"
	EventFit             = "fit"
	EventFocus           = "focus"
)

// handleEvent applies one event to the session and pushes the new state to
// every client. The response carries the same state.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&ev); err != nil {
		writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInvalidInput, err, "decode event"))
		return
	}

	var (
		anim *viewport.Animation
		err  error
	)
	switch ev.Type {
	case EventLayout:
		_, err = s.session.SetLayoutMode(r.Context(), ev.Value)
		if errors.Is(err, layout.ErrSuperseded) {
			err = nil
		}
	case EventCurve:
		err = s.session.SetCurveStyle(ev.Value)
	case EventLabels:
		if ev.Show == nil {
			err = mgerrors.New(mgerrors.ErrCodeInvalidInput, "labels event needs show")
			break
		}
		s.session.SetShowLabels(*ev.Show)
	case EventNodeColor:
		err = s.session.SetNodeColor(ev.Value)
	case EventEdgeColor:
		err = s.session.SetEdgeColor(ev.Value)
	case EventBackground:
		err = s.session.SetBackground(ev.Value)
	case EventResetNodeColors:
		s.session.ResetNodeColors()
	case EventResetColors:
		s.session.ResetColors()
	case EventZoom:
		s.session.Zoom(ev.Zoom)
	case EventZoomAt:
		s.session.ZoomAt(ev.Factor, layout.Point{X: ev.X, Y: ev.Y})
	case EventPan:
		s.session.Pan(ev.DX, ev.DY)
	case EventResize:
		s.session.Resize(ev.Width, ev.Height)
	case EventFit:
		s.session.Fit(ev.Padding)
	case EventFocus:
		var a viewport.Animation
		a, _, err = s.session.Focus(ev.ID)
		if err == nil {
			anim = &a
		}
	default:
		err = mgerrors.New(mgerrors.ErrCodeInvalidInput, "unknown event type: %q", ev.Type)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	update := &StateUpdate{State: s.session.State(), Overrides: s.session.Overrides(), Animation: anim}
	s.hub.Broadcast(Message{Type: MessageState, State: update})
	writeJSON(w, http.StatusOK, update)
}
