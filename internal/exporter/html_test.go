package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/sl/internal/model"
	"gotest.tools/v3/golden"
)

func TestExportHTML_Empty(t *testing.T) {
	html := ExportHTML(nil)

	// Should have basic structure even when empty
	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Shortlinks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if strings.Contains(html, "<H3") {
		t.Error("expected no folders")
	}
}

func TestExportHTML_Golden(t *testing.T) {
	links := []model.Shortlink{
		{Name: "work", URLs: []string{"https://mail.example.com", "https://cal.example.com"}, Date: 1700000000000, Priority: 4},
		{Name: "empty", URLs: []string{}, Date: 1700000001000},
	}

	golden.Assert(t, ExportHTML(links), "export.html.golden")
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	html := ExportHTML([]model.Shortlink{{
		Name: "Test <script>alert('xss')</script>",
		URLs: []string{"https://example.com?foo=bar&baz=qux"},
		Date: time.Now().UnixMilli(),
	}})

	if strings.Contains(html, "<script>") {
		t.Error("script tag should be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if strings.Contains(html, "foo=bar&baz") {
		t.Error("ampersand should be escaped in URL")
	}
	if !strings.Contains(html, "foo=bar&amp;baz") {
		t.Error("expected escaped ampersand in URL")
	}
}

func TestExportHTML_KeepsURLOrder(t *testing.T) {
	html := ExportHTML([]model.Shortlink{{
		Name: "order",
		URLs: []string{"https://b.example", "https://a.example"},
	}})

	b := strings.Index(html, `HREF="https://b.example"`)
	a := strings.Index(html, `HREF="https://a.example"`)
	if b == -1 || a == -1 {
		t.Fatal("missing links in output")
	}
	if b > a {
		t.Error("expected URLs in stored order")
	}
}

func TestDefaultExportPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	path, err := DefaultExportPath(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/home/tester/Downloads/shortlinks-export-2024-03-09.html" {
		t.Errorf("unexpected path %q", path)
	}
}
