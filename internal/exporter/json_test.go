package exporter

import (
	"testing"

	"github.com/nikbrunner/sl/internal/model"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"
)

func TestExportJSON_Empty(t *testing.T) {
	data, err := ExportJSON(nil)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "[]")
}

func TestExportJSON_Golden(t *testing.T) {
	links := []model.Shortlink{
		{Name: "work", URLs: []string{"https://mail.example.com", "https://cal.example.com"}, Date: 1700000000000, Priority: 4},
		{Name: "empty", URLs: nil, Date: 1700000001000},
	}

	data, err := ExportJSON(links)
	assert.NilError(t, err)
	golden.Assert(t, string(data), "export.json.golden")
}
