package cssclean

import (
	"context"
	"strings"
	"unicode"
)

// Classifier decides which selectors no element of the corpus would match.
// The returned set holds the unused selectors; anything absent is used.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, selectors []string, corpus *Corpus) (map[string]bool, error)
}

// HeuristicName identifies the built-in string heuristic
const HeuristicName = "heuristic"

// Tags that are never reported unused, whatever the markup holds
var structuralTags = map[string]bool{
	"html": true,
	"body": true,
	"*":    true,
}

// HeuristicClassifier judges each selector on its leading simple selector only.
//
//   - .card.featured   judged as .card
//   - .nav a:hover     judged as .nav
//   - div > p          judged as div
//
// It never fails; it is the fallback when a higher-fidelity classifier cannot run.
type HeuristicClassifier struct{}

// Name implements Classifier
func (HeuristicClassifier) Name() string { return HeuristicName }

// Classify implements Classifier
func (HeuristicClassifier) Classify(_ context.Context, selectors []string, corpus *Corpus) (map[string]bool, error) {
	unused := make(map[string]bool)
	for _, sel := range selectors {
		if IsUnused(sel, corpus.Usage) {
			unused[sel] = true
		}
	}
	return unused, nil
}

// IsUnused applies the leading-simple-selector heuristic to one selector
func IsUnused(selector string, usage UsageSets) bool {
	sel := strings.TrimSpace(selector)

	switch {
	case strings.HasPrefix(sel, "."):
		return !usage.HasClass(leadingName(sel[1:]))
	case strings.HasPrefix(sel, "#"):
		return !usage.HasID(leadingName(sel[1:]))
	default:
		tag := strings.ToLower(leadingName(sel))
		if structuralTags[tag] {
			return false
		}
		return !usage.HasTag(tag)
	}
}

// leadingName reads a name up to the first noise character.
// Escapes are decoded: ".sm\:flex" keeps the colon and ".\31 0" reads as "10".
func leadingName(s string) string {
	var sb strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			if isNoise(r) {
				break
			}
			sb.WriteRune(r)
			continue
		}
		if i+1 >= len(rs) {
			break
		}
		i++
		if !isHexDigit(rs[i]) {
			sb.WriteRune(rs[i])
			continue
		}

		// Up to six hex digits, then one optional whitespace
		var cp rune
		n := 0
		for ; n < 6 && i < len(rs) && isHexDigit(rs[i]); n++ {
			cp = cp*16 + hexValue(rs[i])
			i++
		}
		if i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		i--
		if cp == 0 || cp > unicode.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			cp = unicode.ReplacementChar
		}
		sb.WriteRune(cp)
	}
	return sb.String()
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

// isNoise reports characters that end the leading simple selector:
// pseudo markers, attribute brackets, combinators, whitespace and the
// start of another compound part.
func isNoise(r rune) bool {
	switch r {
	case ':', '[', ']', '>', '~', '+', '.', '#', '(', ')', ',':
		return true
	}
	return unicode.IsSpace(r)
}
