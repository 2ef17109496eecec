package search

import (
	"github.com/nikbrunner/sl/internal/model"
	"github.com/sahilm/fuzzy"
)

// Result is a fuzzy match against a shortlink name.
type Result struct {
	Link           model.Shortlink
	MatchedIndexes []int
	Score          int
}

// shortlinkNames implements fuzzy.Source over shortlink names.
type shortlinkNames []model.Shortlink

func (s shortlinkNames) String(i int) string {
	return s[i].Name
}

func (s shortlinkNames) Len() int {
	return len(s)
}

// Shortlinks matches query against shortlink names.
// Returns results sorted by match score (best first); an empty query
// matches nothing.
func Shortlinks(links []model.Shortlink, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, shortlinkNames(links))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Link:           links[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Filter keeps the order of links when query is empty and otherwise
// returns the matching links best first.
func Filter(links []model.Shortlink, query string) []model.Shortlink {
	if query == "" {
		return links
	}
	results := Shortlinks(links, query)
	out := make([]model.Shortlink, len(results))
	for i, r := range results {
		out[i] = r.Link
	}
	return out
}

// Suggest returns up to limit names that fuzzily match name, excluding an
// exact match.
func Suggest(names []string, name string, limit int) []string {
	if name == "" || limit <= 0 {
		return nil
	}

	var out []string
	for _, m := range fuzzy.Find(name, names) {
		if m.Str == name {
			continue
		}
		out = append(out, m.Str)
		if len(out) == limit {
			break
		}
	}
	return out
}
