package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses Netscape bookmark HTML. Every folder becomes a record
// holding the links directly inside it, named after the folder. Links
// outside any folder become single-URL records named after their title.
// Names are returned as written; callers normalize them.
func ParseHTML(r io.Reader) ([]Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var records []Record

	// Stack of indexes into records, one per open folder.
	var folderStack []int
	pendingFolder := -1 // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					records = append(records, Record{Name: name, URLs: []string{}})
					pendingFolder = len(records) - 1
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}

				if len(folderStack) > 0 {
					top := folderStack[len(folderStack)-1]
					records[top].URLs = append(records[top].URLs, href)
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}
				records = append(records, Record{Name: title, URLs: []string{href}})
				return // Don't recurse into A

			case "dl":
				pushedFolder := false
				if pendingFolder >= 0 {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = -1
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return // Don't recurse further, we handled children
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return records, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
