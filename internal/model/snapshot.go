package model

import (
	"cmp"
	"slices"
)

// SortByPriority orders shortlinks by descending priority, then descending
// date. Remaining ties are ordered by name so the result is deterministic.
func SortByPriority(links []Shortlink) {
	slices.SortStableFunc(links, func(a, b Shortlink) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// Find returns the shortlink with the given name, or nil.
func Find(links []Shortlink, name string) *Shortlink {
	for i := range links {
		if links[i].Name == name {
			return &links[i]
		}
	}
	return nil
}

// Names returns the names of the given shortlinks, in order.
func Names(links []Shortlink) []string {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	return names
}
