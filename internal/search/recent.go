package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/lector/internal/domain"
)

// FilterRecent narrows the recent-files list to entries whose path fuzzily
// matches query. Closer matches come first; equal distances keep the
// original (newest first) order. An empty query returns entries unchanged.
func FilterRecent(query string, entries []domain.RecentFile) []domain.RecentFile {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	targets := make([]string, len(entries))
	for i, e := range entries {
		targets[i] = e.Path
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	results := make([]domain.RecentFile, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, entries[r.OriginalIndex])
	}
	return results
}
