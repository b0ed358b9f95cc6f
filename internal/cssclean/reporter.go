package cssclean

import (
	"fmt"
	"io"
	"os"
)

// maxListedUnused caps the unused candidates printed in a summary
const maxListedUnused = 20

// Reporter prints human-readable analysis and save summaries
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter. forceColors enables colors regardless of the terminal.
func NewReporter(w io.Writer, forceColors bool) *Reporter {
	return &Reporter{w: w, useColors: ShouldUseColors(forceColors)}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// PrintSummary outputs the counts of an analysis run
func (r *Reporter) PrintSummary(result *Result) {
	snap := result.Snapshot
	stats := snap.Stats

	fmt.Fprintln(r.w, r.paint(ToneHeading, "CSS Usage Summary"))
	fmt.Fprintln(r.w, "-----------------")
	fmt.Fprintf(r.w, "Project:          %s\n", snap.ProjectRoot)
	fmt.Fprintf(r.w, "HTML Files:       %d\n", len(snap.Files.HTML))
	fmt.Fprintf(r.w, "CSS Files:        %d\n", len(snap.Files.CSS))
	fmt.Fprintf(r.w, "Classifier:       %s\n", result.Classifier)
	fmt.Fprintf(r.w, "Total Selectors:  %d\n", stats.Total)
	fmt.Fprintf(r.w, "Used:             %s\n", r.paint(ToneUsed, fmt.Sprint(stats.Used)))
	fmt.Fprintf(r.w, "Unused:           %s", r.paint(ToneUnused, fmt.Sprint(stats.Unused)))
	if stats.Total > 0 {
		fmt.Fprintf(r.w, " (%.1f%%)", float64(stats.Unused)/float64(stats.Total)*100)
	}
	fmt.Fprintln(r.w)

	if result.Note != "" {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, r.paint(ToneUnused, "Note: "+result.Note))
	}

	r.printUnused(snap)
	r.printSkipped(result.SkippedFiles())
}

func (r *Reporter) printUnused(snap *Snapshot) {
	var unused []string
	for _, rec := range snap.Records() {
		if rec.Unused {
			unused = append(unused, rec.Selector)
		}
	}
	if len(unused) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, r.paint(ToneUnused, "Unused Candidates"))
	fmt.Fprintln(r.w, "-----------------")
	for i, sel := range unused {
		if i >= maxListedUnused {
			rest := len(unused) - maxListedUnused
			fmt.Fprintln(r.w, r.paint(ToneHint,
				fmt.Sprintf("... and %d more %s", rest, pluralize(rest, "selector", "selectors"))))
			break
		}
		fmt.Fprintf(r.w, "  %s\n", sel)
	}
}

func (r *Reporter) printSkipped(skipped []error) {
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, r.paint(ToneSkipped,
		fmt.Sprintf("Skipped %s:", pluralizeCount(len(skipped), "file", "files"))))
	for _, err := range skipped {
		fmt.Fprintf(r.w, "  %v\n", err)
	}
}

// PrintSave reports what a save wrote
func (r *Reporter) PrintSave(res *SaveResult) {
	fmt.Fprintln(r.w, "")
	if res.Overwritten {
		fmt.Fprintln(r.w, r.paint(ToneUsed,
			fmt.Sprintf("Overwrote %s", pluralizeCount(len(res.SavedFiles), "CSS file", "CSS files"))))
		for i, f := range res.SavedFiles {
			fmt.Fprintf(r.w, "  %s %s\n", f, r.paint(ToneHint, "(backup: "+res.Backups[i]+")"))
		}
	} else {
		fmt.Fprintln(r.w, r.paint(ToneUsed, "Saved "+res.OutputPath))
	}
	fmt.Fprintf(r.w, "Session:          %s\n", res.SessionPath)
	fmt.Fprintf(r.w, "Exported:         %s (%d bytes)\n",
		pluralizeCount(res.Stats.Active, "selector", "selectors"), res.Size)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, pluralize(count, singular, plural))
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
