package cssclean

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserName identifies the headless Chrome classifier
const BrowserName = "browser"

// matchScript returns the selectors that match at least one element of the loaded document.
// Dynamic pseudo-classes and pseudo-elements are dropped first since a static DOM never
// matches :hover or ::before; selectors the engine rejects count as matched.
const matchScript = `(selectors) => selectors.filter((sel) => {
	const stripped = sel.replace(/::?[a-zA-Z-]+(\([^)]*\))?/g, '').trim() || '*';
	try {
		return document.querySelector(stripped) !== null;
	} catch (e) {
		return true;
	}
})`

// BrowserClassifier evaluates selectors against every HTML document with a real
// DOM engine (headless Chrome driven through Rod).
type BrowserClassifier struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local headless Chrome.
	RemoteURL string

	Logger *zap.Logger
}

// NewBrowserClassifier creates a BrowserClassifier
func NewBrowserClassifier(remoteURL string, logger *zap.Logger) *BrowserClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserClassifier{RemoteURL: remoteURL, Logger: logger}
}

// Name implements Classifier
func (b *BrowserClassifier) Name() string { return BrowserName }

// Classify implements Classifier. Any failure to start the browser or to evaluate
// a document is returned as an error so the caller can fall back.
func (b *BrowserClassifier) Classify(ctx context.Context, selectors []string, corpus *Corpus) (map[string]bool, error) {
	if len(corpus.Documents) == 0 {
		return nil, errors.New("browser: no documents to evaluate")
	}

	browser, cleanup, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	matched := make(map[string]bool, len(selectors))
	for _, doc := range corpus.Documents {
		pending := make([]string, 0, len(selectors))
		for _, sel := range selectors {
			if !matched[sel] {
				pending = append(pending, sel)
			}
		}
		if len(pending) == 0 {
			break
		}

		if err := page.SetDocumentContent(doc.Content); err != nil {
			return nil, fmt.Errorf("browser: load %s: %w", doc.Path, err)
		}
		res, err := page.Eval(matchScript, pending)
		if err != nil {
			return nil, fmt.Errorf("browser: evaluate %s: %w", doc.Path, err)
		}
		for _, v := range res.Value.Arr() {
			matched[v.Str()] = true
		}
		b.Logger.Debug("Evaluated document",
			zap.String("file", doc.Path),
			zap.Int("pending", len(pending)),
			zap.Int("matched", len(matched)))
	}

	unused := make(map[string]bool)
	for _, sel := range selectors {
		if !matched[sel] {
			unused[sel] = true
		}
	}
	return unused, nil
}

// connect launches or attaches to Chrome and returns a cleanup func
func (b *BrowserClassifier) connect(ctx context.Context) (*rod.Browser, func(), error) {
	controlURL := b.RemoteURL
	var lnch *launcher.Launcher

	if controlURL == "" {
		lnch = launcher.New().Headless(true).Context(ctx)
		u, err := lnch.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("browser: launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if lnch != nil {
			lnch.Kill()
		}
		return nil, nil, fmt.Errorf("browser: connect %s: %w", controlURL, err)
	}

	cleanup := func() {
		// A remote Chrome is shared; only a browser we launched is shut down
		if lnch == nil {
			return
		}
		if err := browser.Close(); err != nil {
			b.Logger.Debug("Closing browser", zap.Error(err))
		}
		lnch.Cleanup()
	}
	return browser, cleanup, nil
}
