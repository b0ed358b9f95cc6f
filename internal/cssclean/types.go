package cssclean

import (
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SelectorRecord is the state kept for one distinct selector string
type SelectorRecord struct {
	Selector    string   `json:"selector"` // ".card-title"
	RuleText    string   `json:"css"`      // Every rule written for this selector, in file-then-source order
	SourceFiles []string `json:"files"`    // CSS files the selector was found in, first-seen order
	Unused      bool     `json:"unused"`   // Classifier verdict, fixed at creation
	Active      bool     `json:"active"`   // Export-inclusion flag, toggled by the operator
}

// Stats holds counts derived from the selector records
type Stats struct {
	Total    int `json:"total"`
	Unused   int `json:"unused"`
	Used     int `json:"used"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
}

// Files lists the project files an analysis was built from, relative to the project root
type Files struct {
	HTML []string `json:"html"`
	CSS  []string `json:"css"`
}

// Document is one source file handed to the analyzer
type Document struct {
	Path    string // Stable identifier, e.g. "pages/index.html"
	Content string
}

// Config holds analyzer configuration
type Config struct {
	Root         string      // Project root directory
	Includes     []string    // HTML glob patterns relative to Root (default: **/*.html)
	Excludes     []string    // gitignore-style patterns excluded from HTML discovery
	UseGitIgnore bool        // Also skip files matched by Root/.gitignore
	BackupDir    string      // Overwrite backups, relative to Root; excluded from discovery
	Classifier   Classifier  // Optional higher-fidelity classifier tried before the heuristic
	Logger       *zap.Logger // Defaults to a no-op logger
}

// Result is the outcome of one classification run
type Result struct {
	Snapshot   *Snapshot
	Classifier string // Name of the classifier whose verdicts were used
	Note       string // Diagnostic when the higher-fidelity classifier was abandoned
	Skipped    error  // Per-file failures combined with multierr; nil when none
}

// SkippedFiles returns the individual per-file failures of the run
func (r *Result) SkippedFiles() []error {
	return multierr.Errors(r.Skipped)
}

// SaveOptions controls how an export is persisted
type SaveOptions struct {
	Filename    string    // Output file relative to the project root (default: cleaned.css)
	Overwrite   bool      // Overwrite the original CSS files instead of writing Filename
	BackupDir   string    // Backup directory relative to the project root (default: backup)
	SessionFile string    // Session file relative to the project root (default: session.json)
	Now         time.Time // Backup timestamp; zero means time.Now()
}

// SaveResult describes what a save wrote
type SaveResult struct {
	OutputPath  string   `json:"outputPath"`
	SessionPath string   `json:"sessionPath"`
	Overwritten bool     `json:"overwritten"`
	SavedFiles  []string `json:"savedFiles"`
	Backups     []string `json:"backups,omitempty"`
	Stats       Stats    `json:"stats"`
	Size        int      `json:"size"`
}

const (
	defaultInclude     = "**/*.html"
	defaultBackupDir   = "backup"
	defaultOutputFile  = "cleaned.css"
	defaultSessionFile = "session.json"
)

func (c *Config) defaults() {
	if len(c.Includes) == 0 {
		c.Includes = []string{defaultInclude}
	}
	if c.BackupDir == "" {
		c.BackupDir = defaultBackupDir
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

func (o *SaveOptions) defaults() {
	if o.Filename == "" {
		o.Filename = defaultOutputFile
	}
	if o.BackupDir == "" {
		o.BackupDir = defaultBackupDir
	}
	if o.SessionFile == "" {
		o.SessionFile = defaultSessionFile
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
}
