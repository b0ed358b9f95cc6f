// Package cssclean finds CSS selectors that no element of a project's HTML uses,
// and lets an operator toggle them before exporting a reduced stylesheet.
package cssclean

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Analyzer drives the one-time classification pipeline
type Analyzer struct {
	cfg Config
	log *zap.Logger
	now func() time.Time
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(cfg Config) *Analyzer {
	cfg.defaults()
	return &Analyzer{cfg: cfg, log: cfg.Logger, now: time.Now}
}

// Analyze discovers the project's HTML files and the stylesheets they link,
// then classifies every selector.
func (a *Analyzer) Analyze(ctx context.Context) (*Result, error) {
	root, err := filepath.Abs(a.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	a.cfg.Root = root
	a.log.Debug("Starting analysis", zap.String("root", root))

	// 1. Find HTML files
	htmlPaths, err := discoverHTML(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	a.log.Debug("Found HTML files", zap.Int("count", len(htmlPaths)), zap.Strings("files", htmlPaths))
	if len(htmlPaths) == 0 {
		return nil, ErrNoHTMLFiles
	}

	// 2. Read them and collect referenced stylesheets
	var (
		skipped  error
		htmlDocs []Document
		cssPaths []string
		seenCSS  = make(map[string]bool)
	)
	for _, rel := range htmlPaths {
		content, err := readHTMLFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			skipped = a.skip(skipped, rel, "read", err)
			continue
		}
		htmlDocs = append(htmlDocs, Document{Path: rel, Content: content})

		doc, err := ParseHTML(content)
		if err != nil {
			// analyzeSources reports the parse failure
			continue
		}
		for _, href := range StylesheetLinks(doc) {
			cssRel, ok := resolveStylesheet(root, rel, href)
			if !ok || seenCSS[cssRel] {
				continue
			}
			seenCSS[cssRel] = true
			cssPaths = append(cssPaths, cssRel)
		}
	}
	a.log.Debug("Found CSS files", zap.Int("count", len(cssPaths)), zap.Strings("files", cssPaths))
	if len(cssPaths) == 0 {
		return nil, ErrNoCSSFiles
	}

	// 3. Read stylesheets
	var cssDocs []Document
	for _, rel := range cssPaths {
		content, err := readTextFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			skipped = a.skip(skipped, rel, "read", err)
			continue
		}
		cssDocs = append(cssDocs, Document{Path: rel, Content: content})
	}

	return a.analyzeSources(ctx, root, htmlDocs, cssDocs, skipped)
}

// AnalyzeSources classifies in-memory documents; Path values identify files in the snapshot
func (a *Analyzer) AnalyzeSources(ctx context.Context, root string, htmlDocs, cssDocs []Document) (*Result, error) {
	return a.analyzeSources(ctx, root, htmlDocs, cssDocs, nil)
}

func (a *Analyzer) analyzeSources(ctx context.Context, root string, htmlDocs, cssDocs []Document, skipped error) (*Result, error) {
	if len(htmlDocs) == 0 {
		return nil, ErrNoHTMLFiles
	}
	if len(cssDocs) == 0 {
		return nil, ErrNoCSSFiles
	}

	// Usage sets from the DOM of every document
	usage := NewUsageSets()
	for _, d := range htmlDocs {
		doc, err := ParseHTML(d.Content)
		if err != nil {
			skipped = a.skip(skipped, d.Path, "parse", err)
			continue
		}
		usage.AddDocument(doc)
	}

	// Rule store from every stylesheet
	store := NewRuleStore()
	for _, d := range cssDocs {
		rules, err := ParseRules(d.Content)
		if err != nil {
			skipped = a.skip(skipped, d.Path, "parse", err)
			continue
		}
		store.Add(d.Path, rules)
	}
	a.log.Debug("Extracted selectors", zap.Int("count", store.Len()))

	selectors := store.Selectors()
	corpus := &Corpus{Documents: htmlDocs, Usage: usage}
	name, unused, note := a.classify(ctx, selectors, corpus)

	records := make([]SelectorRecord, 0, len(selectors))
	for _, sel := range selectors {
		isUnused := unused[sel]
		records = append(records, SelectorRecord{
			Selector:    sel,
			RuleText:    store.Text(sel),
			SourceFiles: store.Files(sel),
			Unused:      isUnused,
			Active:      !isUnused,
		})
	}

	files := Files{HTML: documentPaths(htmlDocs), CSS: documentPaths(cssDocs)}
	snap := NewSnapshot(root, files, records, a.now())
	a.log.Debug("Analysis complete",
		zap.String("classifier", name),
		zap.Int("total", snap.Stats.Total),
		zap.Int("unused", snap.Stats.Unused))

	return &Result{
		Snapshot:   snap,
		Classifier: name,
		Note:       note,
		Skipped:    skipped,
	}, nil
}

// classify tries the configured classifier and falls back to the heuristic when it fails to run
func (a *Analyzer) classify(ctx context.Context, selectors []string, corpus *Corpus) (string, map[string]bool, string) {
	var note string
	if c := a.cfg.Classifier; c != nil {
		unused, err := c.Classify(ctx, selectors, corpus)
		if err == nil {
			return c.Name(), unused, ""
		}
		note = fmt.Sprintf("%s classifier failed, using %s fallback: %v", c.Name(), HeuristicName, err)
		a.log.Info("Classifier unavailable, using fallback method",
			zap.String("classifier", c.Name()), zap.Error(err))
	}

	var h HeuristicClassifier
	unused, _ := h.Classify(ctx, selectors, corpus)
	return h.Name(), unused, note
}

// skip records a dropped file and logs it
func (a *Analyzer) skip(skipped error, rel, op string, err error) error {
	a.log.Warn("Skipping file", zap.String("file", rel), zap.String("op", op), zap.Error(err))
	return multierr.Append(skipped, &FileError{Path: rel, Op: op, Err: err})
}

func documentPaths(docs []Document) []string {
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	return paths
}
