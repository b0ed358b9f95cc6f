package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/cssclean/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [directory]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Analyze the project and start the review server",
	Long: `Classify every selector of the project, then serve the review API
on localhost until interrupted. Saves write the reduced stylesheet and a
session file that --restore can load later.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd, args)
	},
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := loggerFromConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, _, err := openSession(ctx, logger)
	if err != nil {
		return err
	}

	port := getIntWithFallback("port", "port", defaultPort)
	addr := fmt.Sprintf("localhost:%d", port)
	srv := server.New(session, server.Config{
		Addr:   addr,
		Save:   buildSaveOptions(),
		Logger: logger,
	})

	if !getBoolWithFallback("quiet", "quiet", false) {
		fmt.Printf("\nReview server running at http://%s\n", addr)
		fmt.Println("Press Ctrl+C to stop")
	}
	logger.Debug("Starting server", zap.Int("port", port))

	return srv.ListenAndServe(ctx)
}
