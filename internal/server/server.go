// Package server implements the kinforge HTTP API.
//
// The API exposes the tree collection for web frontends: CRUD on trees,
// action dispatch against a tree's graph, and cached layout and SVG
// endpoints. All handlers go through a single load-modify-save critical
// section, so concurrent writers cannot interleave partial updates.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kinforge/kinforge/pkg/cache"
	kferrors "github.com/kinforge/kinforge/pkg/errors"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/treeio"
	"github.com/kinforge/kinforge/pkg/treestore"
)

// layoutCacheTTL bounds how long computed layouts and artifacts stay cached.
const layoutCacheTTL = 30 * 24 * time.Hour

// Server serves the tree collection over HTTP.
type Server struct {
	store  treestore.Store
	cache  cache.Cache
	logger *log.Logger

	mu sync.Mutex // serializes load-modify-save cycles
}

// New creates a server over the given store and cache.
func New(store treestore.Store, c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, cache: c, logger: logger}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/trees", s.handleListTrees)
		r.Post("/trees", s.handleCreateTree)
		r.Route("/trees/{tree}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Put("/", s.handleReplaceTree)
			r.Delete("/", s.handleDeleteTree)
			r.Post("/actions", s.handleActions)
			r.Get("/layout", s.handleLayout)
			r.Get("/render.svg", s.handleRenderSVG)
		})
	})

	return r
}

// logRequests logs one line per request with method, path, status and timing.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// =============================================================================
// Tree CRUD
// =============================================================================

// treeSummary is the list representation of a tree.
type treeSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	People  int    `json:"people"`
	Current bool   `json:"current"`
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	col, err := s.store.Load(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]treeSummary, 0, len(col.Trees))
	for _, t := range col.Trees {
		out = append(out, treeSummary{
			ID:      t.ID,
			Name:    t.Name,
			People:  len(t.Graph.People),
			Current: t.ID == col.CurrentTreeID,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type createTreeRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Name == "" {
		s.writeError(w, kferrors.New(kferrors.ErrCodeInvalidInput, "tree name is required"))
		return
	}

	t := treeio.NamedTree{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Graph: familytree.NewGraph(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	col, err := s.store.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	col.SetTree(t)
	if col.CurrentTreeID == "" {
		col.CurrentTreeID = t.ID
	}
	if err := s.store.Save(r.Context(), col); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, treeSummary{
		ID: t.ID, Name: t.Name, Current: col.CurrentTreeID == t.ID,
	})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, t, err := s.loadTree(r)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t.Graph)
}

func (s *Server) handleReplaceTree(w http.ResponseWriter, r *http.Request) {
	g, err := treeio.ReadGraph(r.Body)
	if err != nil {
		s.writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidInput, err, "decode graph"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	col, t, err := s.loadTree(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	t.Graph = familytree.Apply(t.Graph, familytree.ReplaceGraph{Graph: g})
	col.SetTree(t)
	if err := s.store.Save(r.Context(), col); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t.Graph)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, t, err := s.loadTree(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	col.RemoveTree(t.ID)
	if err := s.store.Save(r.Context(), col); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Actions
// =============================================================================

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	var envelopes []actionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelopes); err != nil {
		s.writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidAction, err, "decode actions"))
		return
	}
	actions := make([]familytree.Action, 0, len(envelopes))
	for _, env := range envelopes {
		a, err := decodeAction(env)
		if err != nil {
			s.writeError(w, err)
			return
		}
		actions = append(actions, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	col, t, err := s.loadTree(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, a := range actions {
		t.Graph = familytree.Apply(t.Graph, a)
	}
	col.SetTree(t)
	if err := s.store.Save(r.Context(), col); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t.Graph)
}

// =============================================================================
// Layout & Render
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, t, err := s.loadTree(r)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.layoutJSON(r, t.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, t, err := s.loadTree(r)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.renderSVG(r, t.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

// loadTree loads the collection and resolves the {tree} URL parameter by id
// or name. Callers must hold s.mu when the result will be modified.
func (s *Server) loadTree(r *http.Request) (treeio.Collection, treeio.NamedTree, error) {
	col, err := s.store.Load(r.Context())
	if err != nil {
		return treeio.Collection{}, treeio.NamedTree{}, err
	}
	key := chi.URLParam(r, "tree")
	if t, ok := col.Tree(key); ok {
		return col, t, nil
	}
	for _, t := range col.Trees {
		if t.Name == key {
			return col, t, nil
		}
	}
	return treeio.Collection{}, treeio.NamedTree{},
		kferrors.New(kferrors.ErrCodeTreeNotFound, "no tree named %q", key)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := kferrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case kferrors.ErrCodeTreeNotFound, kferrors.ErrCodePersonNotFound, kferrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case kferrors.ErrCodeInvalidInput, kferrors.ErrCodeInvalidAction,
		kferrors.ErrCodeInvalidDate, kferrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case "":
		code = kferrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: kferrors.UserMessage(err),
	}})
}
