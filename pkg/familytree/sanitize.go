package familytree

import (
	"strings"
	"time"
)

// dateLayout is the only calendar date representation stored in the graph.
const dateLayout = "2006-01-02"

// NormalizeDate trims the input and validates it against the "YYYY-MM-DD"
// layout. It returns nil for blank or unparseable input, so corrupted dates
// from hand-edited imports degrade to "unknown" rather than propagating.
func NormalizeDate(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, trimmed); err != nil {
		return nil
	}
	return &trimmed
}

// SanitizePerson normalizes a person record before it is written into a
// graph:
//
//   - birth/death/marriage dates are trimmed, blank-to-absent normalized and
//     validated
//   - parent and child id lists are de-duplicated preserving first-seen order
//   - partnership entries are de-duplicated by union id, last write wins with
//     all fields replaced
//
// The input is not modified.
func SanitizePerson(p Person) Person {
	out := p.Clone()
	out.BirthDate = NormalizeDate(out.BirthDate)
	out.DeathDate = NormalizeDate(out.DeathDate)
	out.Parents = dedupeIDs(out.Parents)
	out.Children = dedupeIDs(out.Children)
	out.Partnerships = dedupePartnerships(out.Partnerships)
	return out
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// dedupePartnerships keeps one entry per union id. A later entry with the
// same union id replaces the earlier one in place, preserving the position of
// the first occurrence.
func dedupePartnerships(sps []Partnership) []Partnership {
	out := make([]Partnership, 0, len(sps))
	index := make(map[string]int, len(sps))
	for _, sp := range sps {
		sp.MarriageDate = NormalizeDate(sp.MarriageDate)
		if i, ok := index[sp.UnionID]; ok {
			out[i] = sp
			continue
		}
		index[sp.UnionID] = len(out)
		out = append(out, sp)
	}
	return out
}
