package exporter

import (
	"encoding/json"

	"github.com/nikbrunner/sl/internal/model"
)

// DefaultJSONName is the file name used when exporting JSON to a directory.
const DefaultJSONName = "shortlinks.json"

// ExportJSON serializes shortlinks as an indented JSON array of
// {name, urls, date, priority} objects.
func ExportJSON(links []model.Shortlink) ([]byte, error) {
	if links == nil {
		links = []model.Shortlink{}
	}
	out := make([]model.Shortlink, len(links))
	for i, l := range links {
		if l.URLs == nil {
			l.URLs = []string{}
		}
		out[i] = l
	}
	return json.MarshalIndent(out, "", "  ")
}
