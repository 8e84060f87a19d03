// Package bridgetest runs an in-process fake of the bridge host so client,
// TUI and CLI tests can exercise real HTTP round trips.
package bridgetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/csheth/paperlens/internal/bridge"
)

// Handler answers one operation. Returning an error produces a
// {"success": false, "error": ...} envelope.
type Handler func(body json.RawMessage) (any, error)

// Server is a fake host that records every call.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    map[string]int
	bodies   map[string][]json.RawMessage
}

// New starts a server preloaded with DefaultHandlers. Callers close it.
func New() *Server {
	s := &Server{
		handlers: DefaultHandlers(),
		calls:    map[string]int{},
		bodies:   map[string][]json.RawMessage{},
	}
	r := chi.NewRouter()
	r.Post("/api/{op}", s.serve)
	s.Server = httptest.NewServer(r)
	return s
}

// Handle replaces the handler for op.
func (s *Server) Handle(op string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[op] = h
}

// Fail makes op answer with success=false and message.
func (s *Server) Fail(op, message string) {
	s.Handle(op, func(json.RawMessage) (any, error) {
		return nil, fmt.Errorf("%s", message)
	})
}

// Calls reports how many requests op received.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// LastBody returns the most recent request body for op.
func (s *Server) LastBody(op string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	bodies := s.bodies[op]
	if len(bodies) == 0 {
		return nil
	}
	return bodies[len(bodies)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls[op]++
	s.bodies[op] = append(s.bodies[op], json.RawMessage(body))
	handler, ok := s.handlers[op]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "unknown operation " + op})
		return
	}
	payload, err := handler(json.RawMessage(body))
	if err != nil {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(mergeSuccess(payload))
}

func mergeSuccess(payload any) map[string]any {
	out := map[string]any{}
	if payload != nil {
		raw, _ := json.Marshal(payload)
		_ = json.Unmarshal(raw, &out)
	}
	out["success"] = true
	return out
}

// DefaultHandlers answers every operation with small fixtures.
func DefaultHandlers() map[string]Handler {
	return map[string]Handler{
		bridge.OpSearchPapers: func(json.RawMessage) (any, error) {
			papers := Papers(3)
			return bridge.SearchResult{Papers: papers, Count: len(papers)}, nil
		},
		bridge.OpGenerateVisualizations: func(json.RawMessage) (any, error) {
			return bridge.VisualizationResult{Visualizations: Bundle("network", "years", "sources")}, nil
		},
		bridge.OpExportData: func(body json.RawMessage) (any, error) {
			var req struct {
				Format string `json:"format"`
			}
			_ = json.Unmarshal(body, &req)
			return bridge.ExportResult{Filepath: "/tmp/exports/papers." + req.Format}, nil
		},
		bridge.OpGetPaperStatistics: func(json.RawMessage) (any, error) {
			return Statistics(), nil
		},
		bridge.OpGetAppInfo: func(json.RawMessage) (any, error) {
			return bridge.AppInfo{Name: "PaperLens Mini", Version: "1.0.0"}, nil
		},
		bridge.OpOpenFile: func(json.RawMessage) (any, error) {
			return bridge.Empty{}, nil
		},
		bridge.OpOpenFileManager: func(json.RawMessage) (any, error) {
			return bridge.Empty{}, nil
		},
	}
}

// Papers builds n distinct papers.
func Papers(n int) []bridge.Paper {
	papers := make([]bridge.Paper, 0, n)
	for i := 0; i < n; i++ {
		citations := 10 * (i + 1)
		papers = append(papers, bridge.Paper{
			Title:           fmt.Sprintf("Attention Variant %d", i+1),
			Authors:         []string{"A. Vaswani", "N. Shazeer", "N. Parmar", "J. Uszkoreit"},
			Abstract:        "We study transformer architectures for sequence modelling.",
			PublicationDate: fmt.Sprintf("%d-06-01", 2021+i),
			Journal:         "NeurIPS",
			Citations:       &citations,
			Source:          "arxiv",
			DOI:             fmt.Sprintf("10.0000/attn.%d", i+1),
		})
	}
	return papers
}

// Fragment returns a chart fragment long enough to render, with one
// plotting script.
func Fragment(slot string) string {
	div := "chart-" + slot
	return fmt.Sprintf(`<div><div id=%q class="plotly-graph-div" style="height:420px;width:100%%;"></div>`+
		`<script type="text/javascript">window.PLOTLYENV=window.PLOTLYENV || {};`+
		`Plotly.newPlot(%q, [{"type":"bar","x":[2021,2022],"y":[1,2]}], {"title":%q});</script></div>`,
		div, div, strings.ToUpper(slot))
}

// Bundle builds a bundle with real fragments for the given slots.
func Bundle(slots ...string) bridge.VisualizationBundle {
	bundle := bridge.VisualizationBundle{}
	for _, slot := range slots {
		bundle[slot] = Fragment(slot)
	}
	return bundle
}

// Statistics returns a fixture with four ranked authors.
func Statistics() bridge.Statistics {
	return bridge.Statistics{
		TotalPapers:  3,
		TotalAuthors: 4,
		YearRange:    "2021 - 2023",
		DataSources:  []string{"arxiv"},
		TopAuthors: []bridge.TopAuthor{
			{Name: "A. Vaswani", Affiliation: "Google Brain", PaperCount: 5, Papers: []string{"P1", "P2", "P3", "P4", "P5"}},
			{Name: "N. Shazeer", PaperCount: 3, Papers: []string{"P1", "P2", "P3"}},
			{Name: "N. Parmar", PaperCount: 2, Papers: []string{"P1", "P2"}},
			{Name: "J. Uszkoreit", PaperCount: 1, Papers: []string{"P1"}},
		},
	}
}
