package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/cache"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/familytree/layout"
	"github.com/kinforge/kinforge/pkg/observability"
	"github.com/kinforge/kinforge/pkg/treeio"
)

// layoutCacheTTL bounds how long computed layouts stay cached. Layouts are
// content-addressed, so a long TTL is safe.
const layoutCacheTTL = 30 * 24 * time.Hour

// layoutCommand creates the layout command for exporting computed layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the layout of the active tree and print it as JSON",
		Long: `Compute the layout of the active tree and print it as JSON.

The layout is deterministic: the same tree always produces the same node
coordinates. Results are cached by content hash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}

			data, cached, err := c.layoutJSON(ctx, t.Graph, noCache)
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := out.Write(data); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Wrote layout for %s", StyleHighlight.Render(t.Name))
				printFile(output)
				printStats(len(t.Graph.People), unionCount(t.Graph), cached)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the layout cache")
	return cmd
}

// layoutJSON returns the marshaled layout for g, consulting the cache keyed
// by the graph's content hash. The second return reports a cache hit.
func (c *CLI) layoutJSON(ctx context.Context, g familytree.TreeGraph, noCache bool) ([]byte, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, false, err
	}

	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		store = c.openCache(ctx, cfg)
	}
	defer store.Close()

	hash, err := graphHash(g)
	if err != nil {
		return nil, false, err
	}
	key := cache.LayoutKey(hash)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "layout")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	prog := newProgress(loggerFromContext(ctx))
	observability.Layout().OnLayoutStart(ctx, len(g.People))
	start := time.Now()
	l := layout.Compute(g)
	observability.Layout().OnLayoutComplete(ctx, len(g.People), time.Since(start), nil)

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, false, err
	}
	data = append(data, '\n')
	prog.done(fmt.Sprintf("Computed layout for %d people", len(g.People)))

	if err := store.Set(ctx, key, data, layoutCacheTTL); err != nil {
		loggerFromContext(ctx).Debugf("Cache write failed: %v", err)
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
	return data, false, nil
}

// graphHash returns the content hash of the graph's canonical JSON form.
func graphHash(g familytree.TreeGraph) (string, error) {
	data, err := treeio.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// unionCount counts distinct union ids across the graph.
func unionCount(g familytree.TreeGraph) int {
	seen := map[string]struct{}{}
	for _, p := range g.People {
		for _, sp := range p.Partnerships {
			seen[sp.UnionID] = struct{}{}
		}
	}
	return len(seen)
}
