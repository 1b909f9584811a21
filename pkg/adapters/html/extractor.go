// Package html implements ports.Extractor on top of golang.org/x/net/html.
package html

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/aretw0/gforms/pkg/ports"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var loadData = regexp.MustCompile(`(?s)FB_PUBLIC_LOAD_DATA_\s*=\s*(\[.+\])\s*;`)

// Extractor scrapes form pages.
type Extractor struct{}

var _ ports.Extractor = Extractor{}

// New creates an extractor.
func New() Extractor {
	return Extractor{}
}

// HiddenInput returns the value of the first input named name.
func (Extractor) HiddenInput(body []byte, name string) (string, bool) {
	doc, err := parse(body)
	if err != nil {
		return "", false
	}
	n := find(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Input && attr(n, "name") == name
	})
	if n == nil {
		return "", false
	}
	return attr(n, "value"), true
}

// EmbeddedJSON returns the document assigned to FB_PUBLIC_LOAD_DATA_ in a
// script of the page.
func (Extractor) EmbeddedJSON(body []byte) ([]byte, bool) {
	doc, err := parse(body)
	if err != nil {
		return nil, false
	}
	var out []byte
	find(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.Script || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
			return false
		}
		if m := loadData.FindStringSubmatch(n.FirstChild.Data); m != nil {
			out = []byte(m[1])
			return true
		}
		return false
	})
	return out, out != nil
}

// Links returns the hrefs of the anchors in the div enclosing the first
// anchor of the page, or in the whole page when that anchor has no div
// ancestor.
func (Extractor) Links(body []byte) []string {
	doc, err := parse(body)
	if err != nil {
		return nil
	}
	first := find(doc, isAnchor)
	if first == nil {
		return nil
	}
	container := doc
	for p := first.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Div {
			container = p
			break
		}
	}
	var links []string
	walk(container, func(n *html.Node) bool {
		if isAnchor(n) {
			links = append(links, attr(n, "href"))
		}
		return false
	})
	return links
}

// Images returns the src of the pictures found under an element carrying a
// data-item-id attribute, keyed by that id. Pictures attached to questions
// or options have no such ancestor and are skipped.
func (Extractor) Images(body []byte) map[int64]string {
	out := map[int64]string{}
	doc, err := parse(body)
	if err != nil {
		return out
	}
	walk(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.Img || attr(n, "src") == "" {
			return false
		}
		for p := n.Parent; p != nil; p = p.Parent {
			raw := attr(p, "data-item-id")
			if raw == "" {
				continue
			}
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				if _, seen := out[id]; !seen {
					out[id] = attr(n, "src")
				}
			}
			break
		}
		return false
	})
	return out
}

func parse(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

func isAnchor(n *html.Node) bool {
	return n.DataAtom == atom.A && attr(n, "href") != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// walk visits element nodes depth first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}
