package cssclean

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/net/html"
)

// RewriteStylesheetLinks points every <link rel="stylesheet"> of an HTML
// document at href and renders the document back to text.
func RewriteStylesheetLinks(content, href string) (string, error) {
	doc, err := ParseHTML(content)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isStylesheetLink(n) {
			n.Attr = []html.Attribute{
				{Key: "rel", Val: "stylesheet"},
				{Key: "href", Val: href},
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// PreviewFile loads a project HTML file with its stylesheets replaced by cssHref.
// Paths escaping root fail with ErrOutsideRoot; missing files wrap fs.ErrNotExist.
func PreviewFile(root, rel, cssHref string) (string, error) {
	path, err := ResolveInRoot(root, rel)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err != nil {
		return "", err
	} else if info.IsDir() {
		return "", fmt.Errorf("%s: %w", rel, os.ErrNotExist)
	}

	content, err := readHTMLFile(path)
	if err != nil {
		return "", err
	}
	return RewriteStylesheetLinks(content, cssHref)
}
