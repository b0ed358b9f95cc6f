package cssclean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageSets(t *testing.T) {
	usage := usageFromHTML(t, `<html><body>
  <main id="content" class="  layout   wide "><SECTION></SECTION></main>
  <div id="">empty id</div>
</body></html>`)

	assert.True(t, usage.HasClass("layout"))
	assert.True(t, usage.HasClass("wide"))
	assert.False(t, usage.HasClass("narrow"))
	assert.True(t, usage.HasID("content"))
	assert.False(t, usage.HasID(""))
	assert.True(t, usage.HasTag("section"))
	assert.True(t, usage.HasTag("html"))
	assert.False(t, usage.HasTag("footer"))
}

func TestUsageSetsAcrossDocuments(t *testing.T) {
	usage := NewUsageSets()
	for _, content := range []string{`<div class="a"></div>`, `<p class="b"></p>`} {
		doc, err := ParseHTML(content)
		require.NoError(t, err)
		usage.AddDocument(doc)
	}

	assert.True(t, usage.HasClass("a"))
	assert.True(t, usage.HasClass("b"))
	assert.True(t, usage.HasTag("p"))
}

func TestStylesheetLinks(t *testing.T) {
	doc, err := ParseHTML(`<html><head>
  <link rel="stylesheet" href="css/main.css">
  <link rel="icon" href="favicon.ico">
  <link rel="alternate stylesheet" href="alt.css">
  <link rel="Stylesheet" href=" /theme.css ">
  <link rel="stylesheet">
</head><body></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"css/main.css", "alt.css", "/theme.css"}, StylesheetLinks(doc))
}

func TestReadHTMLFileDecodesCharset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.html")
	// "café" in ISO-8859-1
	content := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body class=\"caf\xe9\"></body></html>")
	require.NoError(t, os.WriteFile(path, content, 0644))

	decoded, err := readHTMLFile(path)
	require.NoError(t, err)
	assert.Contains(t, decoded, "café")
}
