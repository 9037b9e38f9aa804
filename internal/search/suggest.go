package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxTypoDistance bounds the edit distance for titles that do not contain
// the query as a subsequence.
const maxTypoDistance = 3

type candidate struct {
	title    string
	distance int
	index    int
}

// SuggestTitles returns up to limit distinct titles resembling query, best
// first. Titles containing the query's characters in order rank by fuzzy
// distance; near-miss typos are picked up by edit distance.
func SuggestTitles(query string, titles []string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || len(titles) == 0 || limit <= 0 {
		return nil
	}

	best := make(map[string]candidate)
	consider := func(c candidate) {
		if prev, ok := best[c.title]; !ok || c.distance < prev.distance {
			best[c.title] = c
		}
	}

	for _, rank := range fuzzy.RankFindNormalizedFold(query, titles) {
		consider(candidate{title: rank.Target, distance: rank.Distance, index: rank.OriginalIndex})
	}

	lowerQuery := strings.ToLower(query)
	for i, title := range titles {
		d := fuzzy.LevenshteinDistance(lowerQuery, strings.ToLower(title))
		if d <= maxTypoDistance {
			consider(candidate{title: title, distance: d, index: i})
		}
	}

	candidates := make([]candidate, 0, len(best))
	for _, c := range best {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].index < candidates[j].index
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	results := make([]string, len(candidates))
	for i, c := range candidates {
		results[i] = c.title
	}
	return results
}
