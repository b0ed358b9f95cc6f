package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssclean.yaml config file",
	Long:  `Create a .cssclean.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigFile)
		}

		if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created " + defaultConfigFile)
		return nil
	},
}

const defaultConfig = `# cssclean configuration
# Docs: https://github.com/yacobolo/cssclean

# Shared settings
root: .
port: 3456
log-level: normal          # none | normal | debug
color: false
quiet: false

# Analysis settings
analyze:
  include:
    - "**/*.html"
  exclude: []              # gitignore-style; node_modules, dist, build and the backup dir are always skipped
  use-gitignore: true
  browser: false           # classify in headless Chrome, falling back to the heuristic
  browser-url: ""          # DevTools URL of a running Chrome; empty launches one

# Export settings
export:
  output: cleaned.css
  overwrite: false
  backup-dir: backup
  session: session.json
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
