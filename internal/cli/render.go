package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/cache"
	"github.com/kinforge/kinforge/pkg/config"
	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/familytree/layout"
	"github.com/kinforge/kinforge/pkg/observability"
	"github.com/kinforge/kinforge/pkg/render"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
	formatPNG = "png"
)

// artifactCacheTTL bounds how long rendered artifacts stay cached.
const artifactCacheTTL = 30 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (stdout if empty)
	format     string // "svg", "dot" or "png"
	background string // SVG background color, empty means transparent
	accent     string // SVG accent color override
	showIDs    bool   // print person ids inside SVG nodes
	noCache    bool   // bypass the artifact cache
}

// renderCommand creates the render command for generating diagrams.
//
// SVG output uses the built-in renderer; DOT and PNG go through Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the active tree as SVG, DOT or PNG",
		Long: `Render the active tree as a generational diagram.

Formats:
  svg  built-in renderer (default)
  dot  Graphviz DOT source
  png  rasterized via Graphviz

Examples:
  kinforge render -o tree.svg
  kinforge render -f png -o tree.png
  kinforge render -f svg --ids --background "#ffffff"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color (default from config)")
	cmd.Flags().StringVar(&opts.accent, "accent", "", "SVG accent color")
	cmd.Flags().BoolVar(&opts.showIDs, "ids", false, "show person ids in nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// validateFormat checks that the format is svg, dot or png.
func validateFormat(f string) error {
	switch f {
	case formatSVG, formatDOT, formatPNG:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'svg', 'dot' or 'png')", f)
	}
}

// runRender renders the active tree and writes the artifact.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	t, err := s.current()
	if err != nil {
		return err
	}

	data, cached, err := c.renderArtifact(ctx, cfg, t.Graph, opts)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Rendered %s as %s", StyleHighlight.Render(t.Name), opts.format)
		printFile(opts.output)
		printStats(len(t.Graph.People), unionCount(t.Graph), cached)
	}
	return nil
}

// renderArtifact produces the artifact bytes for the requested format,
// consulting the cache keyed by graph hash and render options.
func (c *CLI) renderArtifact(ctx context.Context, cfg config.Config, g familytree.TreeGraph, opts *renderOpts) ([]byte, bool, error) {
	var store cache.Cache = cache.NewNullCache()
	if !opts.noCache {
		store = c.openCache(ctx, cfg)
	}
	defer store.Close()

	hash, err := renderHash(g, cfg, opts)
	if err != nil {
		return nil, false, err
	}
	key := cache.ArtifactKey(hash, opts.format)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	prog := newProgress(loggerFromContext(ctx))
	observability.Layout().OnRenderStart(ctx, opts.format)
	start := time.Now()
	data, err := renderGraph(ctx, cfg, g, opts)
	observability.Layout().OnRenderComplete(ctx, opts.format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	prog.done(fmt.Sprintf("Rendered %s (%d bytes)", opts.format, len(data)))

	if err := store.Set(ctx, key, data, artifactCacheTTL); err != nil {
		loggerFromContext(ctx).Debugf("Cache write failed: %v", err)
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	return data, false, nil
}

// renderHash mixes the graph content hash with the render settings so any
// option change produces a distinct cache key.
func renderHash(g familytree.TreeGraph, cfg config.Config, opts *renderOpts) (string, error) {
	base, err := graphHash(g)
	if err != nil {
		return "", err
	}
	settings, err := json.Marshal(map[string]any{
		"background": background(cfg, opts),
		"accent":     opts.accent,
		"ids":        opts.showIDs,
	})
	if err != nil {
		return "", err
	}
	return cache.Hash(append([]byte(base), settings...)), nil
}

// background resolves the SVG background: flag first, then config.
func background(cfg config.Config, opts *renderOpts) string {
	if opts.background != "" {
		return opts.background
	}
	return cfg.SVGBackground
}

// renderGraph dispatches to the appropriate renderer based on the format.
func renderGraph(ctx context.Context, cfg config.Config, g familytree.TreeGraph, opts *renderOpts) ([]byte, error) {
	switch opts.format {
	case formatSVG:
		return renderSVG(cfg, g, opts), nil
	case formatDOT:
		return []byte(render.ToDOT(g)), nil
	case formatPNG:
		return render.RenderDOTPNG(ctx, render.ToDOT(g))
	default:
		return nil, fmt.Errorf("unknown format: %s", opts.format)
	}
}

// renderSVG computes the layout and renders it with the built-in SVG renderer.
func renderSVG(cfg config.Config, g familytree.TreeGraph, opts *renderOpts) []byte {
	l := layout.Compute(g)

	var svgOpts []render.SVGOption
	if bg := background(cfg, opts); bg != "" {
		svgOpts = append(svgOpts, render.WithBackground(bg))
	}
	if opts.accent != "" {
		svgOpts = append(svgOpts, render.WithAccent(opts.accent))
	}
	if opts.showIDs {
		svgOpts = append(svgOpts, render.WithIDs())
	}
	return render.RenderSVG(l, svgOpts...)
}
