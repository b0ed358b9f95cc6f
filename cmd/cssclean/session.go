package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yacobolo/cssclean"
	internal "github.com/yacobolo/cssclean/internal/cssclean"
)

// restoredClassifier labels a result loaded from a session file
const restoredClassifier = "restored session"

// openSession analyzes the project, or loads the session named by --restore,
// and prints the summary unless quiet.
func openSession(ctx context.Context, logger *zap.Logger) (*cssclean.Session, *cssclean.Result, error) {
	result, err := loadResult(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		reporter := internal.NewReporter(os.Stdout, getBoolWithFallback("color", "color", false))
		reporter.PrintSummary(result)
	}

	return cssclean.NewSession(result.Snapshot, logger), result, nil
}

func loadResult(ctx context.Context, logger *zap.Logger) (*cssclean.Result, error) {
	if restore := getStringWithFallback("restore", "restore", ""); restore != "" {
		snap, err := cssclean.LoadSession(restore)
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		logger.Info("Restored session",
			zap.String("file", restore),
			zap.Int("selectors", snap.Stats.Total))
		return &cssclean.Result{Snapshot: snap, Classifier: restoredClassifier}, nil
	}

	cfg := buildAnalyzeConfig(logger)
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory '%s' does not exist", cfg.Root)
	}
	logger.Info("Analyzing project", zap.String("root", cfg.Root))
	result, err := cssclean.Analyze(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}
