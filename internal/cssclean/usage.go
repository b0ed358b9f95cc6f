package cssclean

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// UsageSets holds the class names, ids and tag names present in an HTML corpus
type UsageSets struct {
	Classes map[string]struct{}
	IDs     map[string]struct{}
	Tags    map[string]struct{} // Lower-cased element names
}

// NewUsageSets creates empty usage sets
func NewUsageSets() UsageSets {
	return UsageSets{
		Classes: make(map[string]struct{}),
		IDs:     make(map[string]struct{}),
		Tags:    make(map[string]struct{}),
	}
}

// Corpus is everything a classifier may look at
type Corpus struct {
	Documents []Document
	Usage     UsageSets
}

// HasClass reports whether a class token appears in any class attribute
func (u UsageSets) HasClass(name string) bool {
	_, ok := u.Classes[name]
	return ok
}

// HasID reports whether an id attribute carries this value
func (u UsageSets) HasID(name string) bool {
	_, ok := u.IDs[name]
	return ok
}

// HasTag reports whether an element with this (lower-cased) name exists
func (u UsageSets) HasTag(name string) bool {
	_, ok := u.Tags[name]
	return ok
}

// AddDocument walks a parsed DOM tree and records every element's tag, classes and id
func (u UsageSets) AddDocument(doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			u.Tags[strings.ToLower(n.Data)] = struct{}{}
			for _, attr := range n.Attr {
				switch attr.Key {
				case "class":
					for _, cls := range strings.Fields(attr.Val) {
						u.Classes[cls] = struct{}{}
					}
				case "id":
					if attr.Val != "" {
						u.IDs[attr.Val] = struct{}{}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// ParseHTML parses an HTML document from a string
func ParseHTML(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// readHTMLFile reads an HTML file and decodes it to UTF-8 using its declared charset
func readHTMLFile(path string) (string, error) {
	// #nosec G304 - path comes from discovery under the project root
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	r, err := charset.NewReader(bytes.NewReader(raw), "text/html")
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(decoded), nil
}

// StylesheetLinks returns the href of every <link rel="stylesheet"> in document order
func StylesheetLinks(doc *html.Node) []string {
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isStylesheetLink(n) {
			if href := strings.TrimSpace(getAttr(n, "href")); href != "" {
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs
}

// isStylesheetLink checks for a <link> whose rel tokens include "stylesheet"
func isStylesheetLink(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Link {
		return false
	}
	for _, rel := range strings.Fields(getAttr(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return true
		}
	}
	return false
}

// getAttr returns the value of an attribute on a node
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
