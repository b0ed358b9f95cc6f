package cssclean

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usageFromHTML(t *testing.T, content string) UsageSets {
	t.Helper()
	doc, err := ParseHTML(content)
	require.NoError(t, err)
	usage := NewUsageSets()
	usage.AddDocument(doc)
	return usage
}

func TestIsUnused(t *testing.T) {
	usage := usageFromHTML(t, `<!DOCTYPE html>
<html><body>
  <div class="card featured" id="main"><p>Hi</p></div>
  <nav class="nav"><a href="/">Home</a></nav>
  <span class="sm:flex">x</span>
  <i class="10">y</i>
</body></html>`)

	tests := []struct {
		selector string
		unused   bool
	}{
		{".card", false},
		{`.\31 0`, false},
		{`.\31 1`, true},
		{".card.featured", false},
		{".card-title", true},
		{".old-banner", true},
		{"#main", false},
		{"#sidebar", true},
		{"div", false},
		{"DIV", false},
		{"footer", true},
		{"p", false},
		{"div > p", false},
		{".nav a:hover", false},
		{".nav:hover", false},
		{"a:hover", false},
		{".ghost:hover", true},
		{"input[type=text]", true},
		{".card ~ .other", false},
		{".card + .other", false},
		{"html", false},
		{"body", false},
		{"*", false},
		{`.sm\:flex`, false},
		{`.md\:flex`, true},
		{":root", true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.unused, IsUnused(tt.selector, usage))
		})
	}
}

func TestHeuristicClassifier(t *testing.T) {
	usage := usageFromHTML(t, `<div class="card"><h1 class="card-title">Hi</h1></div>`)
	corpus := &Corpus{Usage: usage}

	var h HeuristicClassifier
	assert.Equal(t, HeuristicName, h.Name())

	unused, err := h.Classify(context.Background(), []string{".card", ".card-title", ".old-banner", "body"}, corpus)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{".old-banner": true}, unused)
}

func TestLeadingName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"card", "card"},
		{"card.featured", "card"},
		{"card:hover", "card"},
		{"card[data-x]", "card"},
		{"card > a", "card"},
		{`sm\:flex`, "sm:flex"},
		{`w-1\/2`, "w-1/2"},
		{`\31 0`, "10"},
		{`\31 0:hover`, "10"},
		{`\000031`, "1"},
		{`md\3A grid`, "md:grid"},
		{`\0`, "\uFFFD"},
		{`trailing\`, "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, leadingName(tt.in))
		})
	}
}
