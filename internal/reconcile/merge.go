package reconcile

import "github.com/aurashield/aurashield/internal/models"

// Precedence names the rule applied when both input lists carry the
// same alert id. It replaces the implicit "last map insertion wins"
// behavior with something visible and testable.
type Precedence int

const (
	// PreferSecond keeps the second list's entry on an id collision.
	PreferSecond Precedence = iota
	// PreferFirst keeps the first list's entry.
	PreferFirst
	// PreferNewest keeps whichever entry has the later timestamp,
	// falling back to the second list on a tie.
	PreferNewest
)

// MergeByID merges two alert lists into one deduplicated list. Entries
// unique to either list are always kept; collisions are settled by the
// precedence rule. Output order is first-list order followed by the
// second list's new ids; callers sort afterwards.
func MergeByID(first, second []models.Alert, prefer Precedence) []models.Alert {
	out := make([]models.Alert, 0, len(first)+len(second))
	index := make(map[string]int, len(first))

	for _, a := range first {
		if i, ok := index[a.ID]; ok {
			// Duplicate within a single source: last one wins.
			out[i] = a
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}

	for _, a := range second {
		i, ok := index[a.ID]
		if !ok {
			index[a.ID] = len(out)
			out = append(out, a)
			continue
		}
		switch prefer {
		case PreferFirst:
			// keep existing
		case PreferNewest:
			if !out[i].Timestamp.After(a.Timestamp) {
				out[i] = a
			}
		default: // PreferSecond
			out[i] = a
		}
	}

	return out
}
