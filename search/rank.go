package search

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geo"
)

// Rank sorts institutions in place: status tier descending, then distance
// ascending when both entries carry one, then name, then id.
func Rank(institutions []core.Institution) {
	// Collators keep internal buffers and are not safe for concurrent use.
	c := collate.New(language.English)
	slices.SortStableFunc(institutions, func(a, b core.Institution) int {
		if d := cmp.Compare(b.Status.Rank(), a.Status.Rank()); d != 0 {
			return d
		}
		if a.Distance != nil && b.Distance != nil {
			if d := cmp.Compare(*a.Distance, *b.Distance); d != 0 {
				return d
			}
		}
		if d := c.CompareString(a.Name, b.Name); d != 0 {
			return d
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// MatchText returns copies of the institutions whose name, address or any
// program contains query, ignoring case. Copies carry no distance.
func MatchText(institutions []core.Institution, query string) []core.Institution {
	matches := filterText(institutions, query)
	for i := range matches {
		matches[i] = matches[i].WithoutDistance()
	}
	return matches
}

// filterText is MatchText without clearing distances.
func filterText(institutions []core.Institution, query string) []core.Institution {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var matches []core.Institution
	for _, inst := range institutions {
		if matchesText(&inst, needle) {
			matches = append(matches, inst)
		}
	}
	return matches
}

func matchesText(inst *core.Institution, needle string) bool {
	if strings.Contains(strings.ToLower(inst.Name), needle) ||
		strings.Contains(strings.ToLower(inst.Address), needle) {
		return true
	}
	for _, p := range inst.Programs {
		if strings.Contains(strings.ToLower(p), needle) {
			return true
		}
	}
	return false
}

// WithinRadius returns copies of the institutions that lie within miles of
// center, each annotated with its distance. Entries without coordinates are
// never included.
func WithinRadius(institutions []core.Institution, center core.Coordinate, miles int) []core.Institution {
	var within []core.Institution
	for _, inst := range institutions {
		if !inst.HasCoords() {
			continue
		}
		d := geo.DistanceMiles(&center, inst.Coords)
		if d <= float64(miles) {
			within = append(within, inst.WithDistance(d))
		}
	}
	return within
}
