// Package render turns computed family tree layouts into output artifacts.
//
// Two sinks are provided:
//
//   - [RenderSVG] draws the positioned layout directly into an SVG document.
//     It consumes the exact coordinates produced by the layout engine, so an
//     exported file matches the on-screen rendering of the same layout.
//   - [ToDOT] plus [RenderDOTSVG]/[RenderDOTPNG] produce a Graphviz node-link
//     view of the raw graph, useful for debugging structure independently of
//     the deterministic layout.
package render
