package layout

import (
	"unicode/utf8"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// Geometry constants. These are part of the layout contract: renderers and
// exporters rely on Compute producing the same coordinates for the same
// graph.
const (
	// PerCharWidth scales the clamped character count into a node width.
	PerCharWidth = 7.5
	// BaseHeight is the height of a node with no place lines.
	BaseHeight = 56.0
	// LineHeight is added per estimated wrapped place line.
	LineHeight = 14.0
	// HGap and VGap separate nodes within and between rows.
	HGap = 24.0
	VGap = 60.0
	// UnionSize is the side length of the square union marker.
	UnionSize = 12.0
	// Margin pads the canvas on all sides.
	Margin = 40.0

	minLabelChars = 12
	maxLabelChars = 30
	avgCharWidth  = 6.5
	textPadding   = 8.0
)

// nodeSize derives a node's dimensions purely from its text content. Width
// follows the longest of the name and place lines, clamped to a fixed range;
// height adds an estimated wrapped-line count for the place lines. Word wrap
// is approximated by a fixed average character width, not by measuring
// rendered glyphs, so sizing stays deterministic across platforms.
func nodeSize(p familytree.Person) (w, h float64) {
	longest := utf8.RuneCountInString(p.DisplayName())
	if n := utf8.RuneCountInString(p.BirthPlace); n > longest {
		longest = n
	}
	if n := utf8.RuneCountInString(p.DeathPlace); n > longest {
		longest = n
	}

	chars := longest
	if chars < minLabelChars {
		chars = minLabelChars
	}
	if chars > maxLabelChars {
		chars = maxLabelChars
	}
	w = float64(chars) * PerCharWidth

	lines := wrappedLines(p.BirthPlace, w) + wrappedLines(p.DeathPlace, w)
	h = BaseHeight + LineHeight*float64(lines)
	return w, h
}

func wrappedLines(s string, nodeWidth float64) int {
	if s == "" {
		return 0
	}
	perLine := int((nodeWidth - 2*textPadding) / avgCharWidth)
	if perLine < 1 {
		perLine = 1
	}
	n := utf8.RuneCountInString(s)
	return (n + perLine - 1) / perLine
}
