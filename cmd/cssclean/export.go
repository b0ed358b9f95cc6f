package main

import (
	"os"

	"github.com/spf13/cobra"

	internal "github.com/yacobolo/cssclean/internal/cssclean"
)

var exportCmd = &cobra.Command{
	Use:   "export [directory]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Write the reduced stylesheet without starting the server",
	Long: `Classify the project (or restore a session) and save the stylesheet
of every used selector, either to a new file or over the original CSS files
after backing them up.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd, args)
	},
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringP("output", "o", "", "Output file relative to the project root (default: cleaned.css)")
	f.Bool("overwrite", false, "Overwrite the original CSS files, keeping backups")
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger, err := loggerFromConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	session, _, err := openSession(cmd.Context(), logger)
	if err != nil {
		return err
	}

	res, err := session.Save(buildSaveOptions())
	if err != nil {
		return err
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		internal.NewReporter(os.Stdout, getBoolWithFallback("color", "color", false)).PrintSave(res)
	}
	return nil
}
