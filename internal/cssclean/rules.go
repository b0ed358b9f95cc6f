package cssclean

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule pairs one selector of a selector group with the text of the rule it came from
type Rule struct {
	Selector string // ".card-title"
	Text     string // ".card-title, .card-subtitle {\n  color: red;\n}\n"
}

// Conditional group rules whose children are ordinary selectors.
// Their prelude is kept around each nested rule so exported CSS stays valid.
var wrappingAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@layer":     true,
	"@container": true,
	"@document":  true,
	"@scope":     true,
}

// ruleParser keeps context while walking the CSS grammar
type ruleParser struct {
	src      string
	p        *css.Parser
	mark     int      // Source offset where the current grammar started
	wrappers []string // Preludes of the open wrapping at-rules, outermost first
	rules    []Rule
}

// ParseRules parses CSS content into one Rule per selector.
// `.a, .b { color: red }` yields two rules sharing the same text.
func ParseRules(content string) ([]Rule, error) {
	rp := &ruleParser{
		src: content,
		p:   css.NewParser(parse.NewInputString(content), false),
	}

	for {
		gt, _, data := rp.next()
		switch gt {
		case css.ErrorGrammar:
			if err := rp.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return rp.rules, nil

		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			if !wrappingAtRules[name] {
				// @keyframes, @font-face, @page: no selectors inside
				if err := rp.skipBlock(); err != nil {
					return nil, err
				}
				continue
			}
			prelude := name
			if cond := tokensText(rp.p.Values()); cond != "" {
				prelude += " " + cond
			}
			rp.wrappers = append(rp.wrappers, prelude)

		case css.EndAtRuleGrammar:
			if len(rp.wrappers) > 0 {
				rp.wrappers = rp.wrappers[:len(rp.wrappers)-1]
			}

		case css.BeginRulesetGrammar:
			selectors := splitSelectorGroup(rp.selectorText())
			if err := rp.handleRuleset(selectors); err != nil {
				return nil, err
			}
		}
	}
}

// next advances the parser, remembering where the grammar begins in the source
func (rp *ruleParser) next() (css.GrammarType, css.TokenType, []byte) {
	rp.mark = rp.p.Offset()
	return rp.p.Next()
}

// selectorText returns the selector group of the ruleset just opened, as written
// in the source. The parser's own tokens drop whitespace around combinators.
func (rp *ruleParser) selectorText() string {
	end := rp.p.Offset() - 1 // Opening brace
	if rp.mark < 0 || end < rp.mark || end > len(rp.src) || rp.src[end] != '{' {
		return tokensText(rp.p.Values())
	}
	return rp.src[rp.mark:end]
}

// handleRuleset reads declarations up to the closing brace and records one Rule per selector
func (rp *ruleParser) handleRuleset(selectors []string) error {
	decls, err := rp.extractDeclarations()
	if err != nil {
		return err
	}
	if len(selectors) == 0 {
		return nil
	}

	text := rp.renderRule(strings.Join(selectors, ", "), decls)
	for _, sel := range selectors {
		rp.rules = append(rp.rules, Rule{Selector: sel, Text: text})
	}
	return nil
}

// extractDeclarations reads "property: value" pairs until the ruleset ends
func (rp *ruleParser) extractDeclarations() ([]string, error) {
	var decls []string
	for {
		gt, _, data := rp.next()
		switch gt {
		case css.ErrorGrammar:
			if err := rp.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return decls, nil
		case css.EndRulesetGrammar:
			return decls, nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, string(data)+": "+strings.TrimSpace(tokensText(rp.p.Values())))
		case css.BeginAtRuleGrammar:
			// At-rules inside a ruleset are not tracked as selectors of their own
			if err := rp.skipBlock(); err != nil {
				return nil, err
			}
		}
	}
}

// skipBlock skips tokens until the matching end of the block just opened
func (rp *ruleParser) skipBlock() error {
	depth := 1
	for depth > 0 {
		gt, _, _ := rp.next()
		switch gt {
		case css.ErrorGrammar:
			if err := rp.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return nil
}

// renderRule formats a ruleset, wrapped in the currently open at-rules
func (rp *ruleParser) renderRule(selectorGroup string, decls []string) string {
	var sb strings.Builder
	for _, w := range rp.wrappers {
		sb.WriteString(w)
		sb.WriteString(" {\n")
	}
	sb.WriteString(selectorGroup)
	sb.WriteString(" {\n")
	for _, d := range decls {
		sb.WriteString("  ")
		sb.WriteString(d)
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
	for range rp.wrappers {
		sb.WriteString("}\n")
	}
	return sb.String()
}

// splitSelectorGroup splits a selector group on top-level commas and trims each part.
// Commas inside :is(...), :not(...), [attr] or quotes stay part of their selector.
func splitSelectorGroup(group string) []string {
	group = stripComments(group)

	var (
		selectors []string
		start     int
		depth     int
		quote     byte
	)
	flush := func(end int) {
		if s := strings.TrimSpace(group[start:end]); s != "" {
			selectors = append(selectors, s)
		}
	}

	for i := 0; i < len(group); i++ {
		c := group[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(group))

	return selectors
}

// stripComments removes /* */ comments outside quoted strings
func stripComments(s string) string {
	if !strings.Contains(s, "/*") {
		return s
	}
	var (
		sb    strings.Builder
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			sb.WriteByte(c)
			i++
			c = s[i]
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return sb.String()
			}
			i += end + 3
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// tokensText joins token data, collapsing whitespace runs to one space
func tokensText(tokens []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

// RuleStore groups parsed rules by exact selector text, preserving first-seen order
type RuleStore struct {
	order   []string
	entries map[string]*ruleEntry
}

type ruleEntry struct {
	text  strings.Builder
	files []string
}

// NewRuleStore creates an empty store
func NewRuleStore() *RuleStore {
	return &RuleStore{entries: make(map[string]*ruleEntry)}
}

// Add records the rules parsed from one CSS file.
// Repeated selectors accumulate their rule text; a file is listed once per selector.
func (s *RuleStore) Add(file string, rules []Rule) {
	for _, r := range rules {
		entry, exists := s.entries[r.Selector]
		if !exists {
			entry = &ruleEntry{}
			s.entries[r.Selector] = entry
			s.order = append(s.order, r.Selector)
		}
		entry.text.WriteString(r.Text)
		if !contains(entry.files, file) {
			entry.files = append(entry.files, file)
		}
	}
}

// Selectors returns every selector in first-seen order
func (s *RuleStore) Selectors() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct selectors
func (s *RuleStore) Len() int { return len(s.order) }

// Text returns the accumulated rule text of a selector
func (s *RuleStore) Text(selector string) string {
	if e, ok := s.entries[selector]; ok {
		return e.text.String()
	}
	return ""
}

// Files returns the CSS files a selector was found in
func (s *RuleStore) Files(selector string) []string {
	e, ok := s.entries[selector]
	if !ok {
		return nil
	}
	out := make([]string, len(e.files))
	copy(out, e.files)
	return out
}

// readTextFile reads a stylesheet as text
func readTextFile(path string) (string, error) {
	// #nosec G304 - path comes from the project's own stylesheet links
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(content), nil
}

// contains checks if a string slice contains a value
func contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}
