package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/cssclean"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [directory]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Classify selectors and print a summary without serving",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd, args)
	},
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the snapshot as session JSON")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	logger, err := loggerFromConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		result, err := loadResult(cmd.Context(), logger)
		if err != nil {
			return err
		}
		return cssclean.NewSession(result.Snapshot, logger).Encode(cmd.OutOrStdout())
	}

	_, _, err = openSession(cmd.Context(), logger)
	return err
}
