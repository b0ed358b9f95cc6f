// Package cssclean finds CSS selectors that no element of a static site uses.
//
// An analysis discovers HTML files under a project root, follows their local
// stylesheet links, and classifies every selector as used or unused. The
// result is a snapshot that can be toggled selector by selector and exported
// as a reduced stylesheet.
//
// # Analysis
//
//	result, err := cssclean.Analyze(ctx, cssclean.Config{
//		Root:         "./site",
//		UseGitIgnore: true,
//	})
//
// # Session
//
// A session wraps a snapshot for concurrent use:
//
//	session := cssclean.NewSession(result.Snapshot, nil)
//	session.Toggle(".legacy-banner", false)
//	res, err := session.Save(cssclean.SaveOptions{Filename: "cleaned.css"})
//
// # CLI Tool
//
// cssclean also provides a CLI with a local review server. Install with:
//
//	go install github.com/yacobolo/cssclean/cmd/cssclean@latest
package cssclean

import (
	"context"

	"go.uber.org/zap"

	"github.com/yacobolo/cssclean/internal/cssclean"
)

type (
	Config         = cssclean.Config
	Result         = cssclean.Result
	Snapshot       = cssclean.Snapshot
	SelectorRecord = cssclean.SelectorRecord
	Stats          = cssclean.Stats
	Files          = cssclean.Files
	Document       = cssclean.Document
	Session        = cssclean.Session
	SaveOptions    = cssclean.SaveOptions
	SaveResult     = cssclean.SaveResult
	Classifier     = cssclean.Classifier
	FileError      = cssclean.FileError
	OverwriteError = cssclean.OverwriteError
	ErrorKind      = cssclean.ErrorKind
)

var (
	ErrNoHTMLFiles        = cssclean.ErrNoHTMLFiles
	ErrNoCSSFiles         = cssclean.ErrNoCSSFiles
	ErrSelectorNotFound   = cssclean.ErrSelectorNotFound
	ErrInvalidRestoreMode = cssclean.ErrInvalidRestoreMode
	ErrOutsideRoot        = cssclean.ErrOutsideRoot
)

// Analyze classifies every selector of the project under cfg.Root
func Analyze(ctx context.Context, cfg Config) (*Result, error) {
	return cssclean.NewAnalyzer(cfg).Analyze(ctx)
}

// AnalyzeSources classifies in-memory HTML and CSS documents
func AnalyzeSources(ctx context.Context, root string, html, css []Document) (*Result, error) {
	return cssclean.NewAnalyzer(Config{Root: root}).AnalyzeSources(ctx, root, html, css)
}

// LoadSession reads a saved session file
func LoadSession(path string) (*Snapshot, error) {
	return cssclean.LoadSessionFile(path)
}

// NewSession wraps a snapshot for concurrent toggling and saving
func NewSession(snap *Snapshot, logger *zap.Logger) *Session {
	return cssclean.NewSession(snap, logger)
}

// NewBrowserClassifier returns a classifier that evaluates selectors in headless Chrome.
// An empty remoteURL launches a local browser.
func NewBrowserClassifier(remoteURL string, logger *zap.Logger) Classifier {
	return cssclean.NewBrowserClassifier(remoteURL, logger)
}

// Kind classifies err into a structured failure category
func Kind(err error) ErrorKind {
	return cssclean.Kind(err)
}
