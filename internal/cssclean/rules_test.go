package cssclean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleSelectors(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Selector
	}
	return out
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name      string
		css       string
		selectors []string
		check     func(*testing.T, []Rule)
	}{
		{
			name:      "single rule",
			css:       ".btn { color: red; }",
			selectors: []string{".btn"},
			check: func(t *testing.T, rules []Rule) {
				assert.Equal(t, ".btn {\n  color: red;\n}\n", rules[0].Text)
			},
		},
		{
			name:      "selector group shares one text",
			css:       ".a, .b { margin: 0 auto; }",
			selectors: []string{".a", ".b"},
			check: func(t *testing.T, rules []Rule) {
				assert.Equal(t, ".a, .b {\n  margin: 0 auto;\n}\n", rules[0].Text)
				assert.Equal(t, rules[0].Text, rules[1].Text)
			},
		},
		{
			name:      "compound and combinator selectors keep their text",
			css:       ".card.featured { color: red; }\n.nav a:hover { color: blue; }",
			selectors: []string{".card.featured", ".nav a:hover"},
		},
		{
			name:      "source order across rules",
			css:       "h1 { font-size: 2rem; } p { line-height: 1.5; } #main { padding: 0; }",
			selectors: []string{"h1", "p", "#main"},
		},
		{
			name:      "media wrapper kept around nested rule",
			css:       "@media (max-width: 600px) { .mobile { display: block; } }",
			selectors: []string{".mobile"},
			check: func(t *testing.T, rules []Rule) {
				text := rules[0].Text
				assert.True(t, strings.HasPrefix(text, "@media"), text)
				assert.Contains(t, text, "max-width")
				assert.Contains(t, text, ".mobile {\n  display: block;\n}\n")
				assert.True(t, strings.HasSuffix(text, "}\n}\n"), text)
			},
		},
		{
			name:      "keyframes produce no records",
			css:       "@keyframes spin { from { opacity: 0; } to { opacity: 1; } } .spinner { color: red; }",
			selectors: []string{".spinner"},
		},
		{
			name:      "font-face produces no records",
			css:       "@font-face { font-family: Inter; } body { margin: 0; }",
			selectors: []string{"body"},
		},
		{
			name:      "combinator whitespace kept as written",
			css:       ".a:is(.b , .c) > .d ~ .e + .f { color: red; }\n.a > .b { margin: 0; }",
			selectors: []string{".a:is(.b , .c) > .d ~ .e + .f", ".a > .b"},
		},
		{
			name:      "raw selectors inside media group",
			css:       "@media (max-width: 600px) { .a > .b , ul li:not(.x, .y) {margin:0 auto} }",
			selectors: []string{".a > .b", "ul li:not(.x, .y)"},
			check: func(t *testing.T, rules []Rule) {
				assert.Contains(t, rules[0].Text, ".a > .b, ul li:not(.x, .y) {\n  margin: 0 auto;\n}\n")
			},
		},
		{
			name:      "multi-line group trimmed per selector",
			css:       ".one,\n.two\n{ color: red; }",
			selectors: []string{".one", ".two"},
		},
		{
			name:      "comments inside selector group dropped",
			css:       ".a, /* legacy */ .b { color: red; }",
			selectors: []string{".a", ".b"},
		},
		{
			name:      "empty stylesheet",
			css:       "",
			selectors: []string{},
		},
		{
			name:      "comments ignored",
			css:       "/* header */ .hero { color: red; }",
			selectors: []string{".hero"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseRules(tt.css)
			require.NoError(t, err)
			assert.Equal(t, tt.selectors, ruleSelectors(rules))
			if tt.check != nil {
				tt.check(t, rules)
			}
		})
	}
}

func TestParseRulesRejectsNesting(t *testing.T) {
	_, err := ParseRules(".a { .b { color: red; } }")
	assert.Error(t, err)
}

func TestSplitSelectorGroup(t *testing.T) {
	tests := []struct {
		group string
		want  []string
	}{
		{group: ".a:not(.b, .c), .d", want: []string{".a:not(.b, .c)", ".d"}},
		{group: `a[title="x, y"], b`, want: []string{`a[title="x, y"]`, "b"}},
		{group: `.a\,b, .c`, want: []string{`.a\,b`, ".c"}},
		{group: "  .a  >  .b  ", want: []string{".a  >  .b"}},
		{group: ".a, /* note */", want: []string{".a"}},
		{group: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSelectorGroup(tt.group))
		})
	}
}

func TestRuleStore(t *testing.T) {
	store := NewRuleStore()

	first, err := ParseRules(".btn { color: red; } .card { padding: 1rem; }")
	require.NoError(t, err)
	second, err := ParseRules(".btn { border: 0; } .btn { margin: 0; }")
	require.NoError(t, err)

	store.Add("a.css", first)
	store.Add("b.css", second)

	assert.Equal(t, []string{".btn", ".card"}, store.Selectors())
	assert.Equal(t, 2, store.Len())

	t.Run("rule text accumulates in file then source order", func(t *testing.T) {
		assert.Equal(t,
			".btn {\n  color: red;\n}\n.btn {\n  border: 0;\n}\n.btn {\n  margin: 0;\n}\n",
			store.Text(".btn"))
	})

	t.Run("files listed once in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"a.css", "b.css"}, store.Files(".btn"))
		assert.Equal(t, []string{"a.css"}, store.Files(".card"))
	})

	t.Run("unknown selector", func(t *testing.T) {
		assert.Empty(t, store.Text(".missing"))
		assert.Nil(t, store.Files(".missing"))
	})
}
