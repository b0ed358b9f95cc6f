package cssclean

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Directories never scanned for HTML
var defaultExcludes = []string{
	"node_modules/",
	"dist/",
	"build/",
}

// htmlFilter decides which discovered HTML files are skipped.
//
// Two layers:
// 1. Excludes: built-in directories, the backup directory and configured patterns
// 2. Gitignore: the project's own .gitignore, when enabled and present
type htmlFilter struct {
	excludes  *ignore.GitIgnore
	gitignore *ignore.GitIgnore
}

func newHTMLFilter(cfg Config) *htmlFilter {
	lines := append([]string{}, defaultExcludes...)
	lines = append(lines, strings.TrimSuffix(filepath.ToSlash(cfg.BackupDir), "/")+"/")
	lines = append(lines, cfg.Excludes...)

	f := &htmlFilter{excludes: ignore.CompileIgnoreLines(lines...)}
	if cfg.UseGitIgnore {
		// Gracefully degrade - no .gitignore is fine
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(cfg.Root, ".gitignore")); err == nil {
			f.gitignore = gi
		}
	}
	return f
}

func (f *htmlFilter) skip(rel string) bool {
	if f.excludes.MatchesPath(rel) {
		return true
	}
	return f.gitignore != nil && f.gitignore.MatchesPath(rel)
}

// discoverHTML expands the include globs under the root.
// Paths are returned relative to the root, slash-separated, deduplicated in match order.
func discoverHTML(cfg Config) ([]string, error) {
	fsys := os.DirFS(cfg.Root)
	filter := newHTMLFilter(cfg)

	var files []string
	seen := make(map[string]bool)
	for _, pattern := range cfg.Includes {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if seen[match] || filter.skip(match) {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}
	return files, nil
}

// resolveStylesheet maps an href found in htmlRel to a CSS path relative to the root.
// Remote, protocol-relative and data URLs are not local files and return false.
func resolveStylesheet(root, htmlRel, href string) (string, bool) {
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "http:") || strings.HasPrefix(lower, "https:") ||
		strings.HasPrefix(lower, "//") || strings.HasPrefix(lower, "data:") {
		return "", false
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "", false
	}

	var rel string
	if strings.HasPrefix(href, "/") {
		rel = path.Clean(strings.TrimPrefix(href, "/"))
	} else {
		rel = path.Join(path.Dir(htmlRel), href)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	full, err := ResolveInRoot(root, rel)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		return "", false
	}
	return rel, true
}
