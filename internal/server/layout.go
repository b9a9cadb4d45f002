package server

import (
	"encoding/json"
	"net/http"

	"github.com/kinforge/kinforge/pkg/cache"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/familytree/layout"
	"github.com/kinforge/kinforge/pkg/observability"
	"github.com/kinforge/kinforge/pkg/render"
	"github.com/kinforge/kinforge/pkg/treeio"
)

// layoutJSON returns the marshaled layout for g, consulting the cache keyed
// by the graph's content hash.
func (s *Server) layoutJSON(r *http.Request, g familytree.TreeGraph) ([]byte, error) {
	ctx := r.Context()

	hash, err := graphHash(g)
	if err != nil {
		return nil, err
	}
	key := cache.LayoutKey(hash)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "layout")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l := layout.Compute(g)
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, data, layoutCacheTTL); err != nil {
		s.logger.Debug("cache write failed", "err", err)
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
	return data, nil
}

// renderSVG returns the rendered SVG for g, consulting the artifact cache.
func (s *Server) renderSVG(r *http.Request, g familytree.TreeGraph) ([]byte, error) {
	ctx := r.Context()

	hash, err := graphHash(g)
	if err != nil {
		return nil, err
	}
	key := cache.ArtifactKey(hash, "svg")

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data := render.RenderSVG(layout.Compute(g))

	if err := s.cache.Set(ctx, key, data, layoutCacheTTL); err != nil {
		s.logger.Debug("cache write failed", "err", err)
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	return data, nil
}

// graphHash returns the content hash of the graph's canonical JSON form.
func graphHash(g familytree.TreeGraph) (string, error) {
	data, err := treeio.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
