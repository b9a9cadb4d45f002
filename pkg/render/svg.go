package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kinforge/kinforge/pkg/familytree"
	"github.com/kinforge/kinforge/pkg/familytree/layout"
)

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

// WithBackground sets a solid background color (any SVG color string).
// Without it the background is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithAccent overrides the color used for union markers and edges.
func WithAccent(color string) SVGOption {
	return func(r *svgRenderer) { r.accent = color }
}

// WithIDs annotates each person box with the person id below the name.
func WithIDs() SVGOption {
	return func(r *svgRenderer) { r.showIDs = true }
}

type svgRenderer struct {
	background string
	accent     string
	showIDs    bool
}

// RenderSVG draws a computed layout into a standalone SVG document. Geometry
// comes verbatim from the layout - no repositioning happens here - so every
// consumer of the same layout produces the same picture.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{accent: "#8c6d46"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", l.Width, l.Height, r.background)
	}

	for _, e := range l.Edges {
		fmt.Fprintf(&buf, `  <line id="edge-%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
			escape(e.ID), e.From.X, e.From.Y, e.To.X, e.To.Y, r.accent)
	}

	for _, n := range l.PersonNodes {
		renderPersonNode(&buf, &r, n)
	}

	for _, u := range l.UnionNodes {
		c := u.Center()
		fmt.Fprintf(&buf, `  <circle id="union-%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			escape(u.UnionID), c.X, c.Y, layout.UnionSize/2, r.accent)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderPersonNode(buf *bytes.Buffer, r *svgRenderer, n layout.PersonNode) {
	fmt.Fprintf(buf, `  <g id="person-%s">`+"\n", escape(n.Person.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="white" stroke="#444" stroke-width="1"/>`+"\n",
		n.X, n.Y, n.Width, n.Height)

	cx := n.X + n.Width/2
	y := n.Y + 18.0
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="12" font-weight="bold">%s</text>`+"\n",
		cx, y, escape(n.Person.DisplayName()))

	if years := lifespan(n.Person); years != "" {
		y += 14
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="#555">%s</text>`+"\n",
			cx, y, escape(years))
	}
	for _, place := range []string{n.Person.BirthPlace, n.Person.DeathPlace} {
		if place == "" {
			continue
		}
		y += 14
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="#777">%s</text>`+"\n",
			cx, y, escape(place))
	}
	if r.showIDs {
		y += 14
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="9" fill="#999">%s</text>`+"\n",
			cx, y, escape(n.Person.ID))
	}
	buf.WriteString("  </g>\n")
}

// lifespan formats "birth – death" from whatever dates are present.
func lifespan(p familytree.Person) string {
	switch {
	case p.BirthDate != nil && p.DeathDate != nil:
		return *p.BirthDate + " – " + *p.DeathDate
	case p.BirthDate != nil:
		return "* " + *p.BirthDate
	case p.DeathDate != nil:
		return "† " + *p.DeathDate
	default:
		return ""
	}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
