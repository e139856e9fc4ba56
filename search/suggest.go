package search

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode"
)

// Suggest assembles autocomplete entries for query: matching institutions,
// then localities taken from directory addresses, then remote places from g.
// Sources are concatenated in that order without re-ranking. A nil g skips
// the remote part.
func (e *Engine) Suggest(ctx context.Context, query string, dir []core.Institution, g geocode.Geocoder) []core.Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < e.policy.MinSuggestionLength {
		return nil
	}

	suggestions := LocalSuggestions(query, dir, e.policy.InstitutionSuggestions, e.policy.LocalitySuggestions)
	if g == nil || e.policy.RemoteSuggestions == 0 {
		return suggestions
	}
	return append(suggestions, PlaceSuggestions(g.Suggest(ctx, query), e.policy.RemoteSuggestions)...)
}

// LocalSuggestions returns up to maxInstitutions institutions whose name
// contains query, followed by up to maxLocalities distinct localities that
// contain it.
func LocalSuggestions(query string, dir []core.Institution, maxInstitutions, maxLocalities int) []core.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var suggestions []core.Suggestion
	for i := range dir {
		if len(suggestions) >= maxInstitutions {
			break
		}
		if strings.Contains(strings.ToLower(dir[i].Name), needle) {
			inst := dir[i].WithoutDistance()
			suggestions = append(suggestions, core.Suggestion{
				ID:          "school-" + string(inst.ID),
				Kind:        core.SuggestionInstitution,
				Label:       inst.Name,
				SubLabel:    inst.Address,
				Institution: &inst,
			})
		}
	}

	seen := make(map[string]bool)
	localities := 0
	for i := range dir {
		if localities >= maxLocalities {
			break
		}
		locality := dir[i].Locality()
		if locality == "" || seen[locality] || !strings.Contains(strings.ToLower(locality), needle) {
			continue
		}
		seen[locality] = true
		localities++
		suggestions = append(suggestions, core.Suggestion{
			ID:       "city-" + strconv.FormatUint(uint64(core.IDFromContent(locality)), 16),
			Kind:     core.SuggestionLocality,
			Label:    locality,
			SubLabel: "City",
		})
	}
	return suggestions
}

// PlaceSuggestions converts geocoder candidates, keeping at most limit.
// The label is the first segment of the display name.
func PlaceSuggestions(places []core.GeocodeResult, limit int) []core.Suggestion {
	if len(places) > limit {
		places = places[:limit]
	}
	suggestions := make([]core.Suggestion, 0, len(places))
	for i, p := range places {
		label, rest, _ := strings.Cut(p.DisplayName, ",")
		coord := p.Coordinate()
		suggestions = append(suggestions, core.Suggestion{
			ID:       "place-" + strconv.Itoa(i),
			Kind:     core.SuggestionPlace,
			Label:    strings.TrimSpace(label),
			SubLabel: strings.TrimSpace(rest),
			Coords:   &coord,
		})
	}
	return suggestions
}
