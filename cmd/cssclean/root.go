package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cssclean [directory]",
	Short: "Find and remove unused CSS selectors in static sites",
	Long: `Analyzes the HTML files of a project and the stylesheets they link,
marks every selector that no element matches, and starts a local review
server where selectors can be toggled before exporting a reduced stylesheet.`,
	Args: cobra.MaximumNArgs(1),
	// Default behavior: serve when no subcommand is given.
	// loadConfig runs here because PreRunE of serveCmd is not
	// triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, args); err != nil {
			return err
		}
		return runServe(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	f := rootCmd.PersistentFlags()
	f.StringP("root", "r", "", "Project root directory (default: current directory)")
	f.IntP("port", "p", 0, "Review server port (default: 3456)")
	f.String("restore", "", "Load a saved session file instead of analyzing")
	f.String("log-level", "", "Log level: none|normal|debug (default: normal)")
	f.Bool("quiet", false, "Suppress the summary output")
	f.Bool("color", false, "Force color output")
	f.String("config", ".cssclean.yaml", "Config file path")

	// Analysis
	f.StringSlice("include", nil, "Glob patterns for HTML files (default: **/*.html)")
	f.StringSlice("exclude", nil, "gitignore-style patterns excluded from HTML discovery")
	f.Bool("use-gitignore", true, "Skip HTML files ignored by the project's .gitignore")
	f.Bool("browser", false, "Classify with headless Chrome, falling back to the heuristic")
	f.String("browser-url", "", "DevTools URL of a running Chrome (default: launch one)")

	// Export
	f.String("backup-dir", "", "Backup directory for overwritten CSS (default: backup)")
	f.String("session", "", "Session file written on every save (default: session.json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
