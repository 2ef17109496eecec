package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/sl/internal/model"
)

// DefaultExportPath returns the default HTML export file path.
// Format: ~/Downloads/shortlinks-export-YYYY-MM-DD.html
func DefaultExportPath(now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("shortlinks-export-%s.html", now.Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports shortlinks to Netscape bookmark HTML format. Each
// shortlink becomes a folder named after it holding its URLs in order.
func ExportHTML(links []model.Shortlink) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Shortlinks</TITLE>\n")
	b.WriteString("<H1>Shortlinks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, link := range links {
		writeFolder(&b, link)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeFolder(b *strings.Builder, link model.Shortlink) {
	const prefix = "    "
	timestamp := link.Date / 1000

	fmt.Fprintf(b, "%s<DT><H3 ADD_DATE=\"%d\">%s</H3>\n", prefix, timestamp, html.EscapeString(link.Name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, u := range link.URLs {
		fmt.Fprintf(b,
			"%s%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix, prefix,
			html.EscapeString(u),
			timestamp,
			html.EscapeString(u),
		)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}
