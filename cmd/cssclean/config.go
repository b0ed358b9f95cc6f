package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/yacobolo/cssclean/internal/cssclean"
)

var k = koanf.New(".")

const (
	defaultConfigFile = ".cssclean.yaml"
	defaultPort       = 3456
	defaultLogLevel   = "normal"
)

// loadConfig loads configuration with precedence: directory argument > flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command, args []string) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	fs := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	// 4. Positional project directory
	if len(args) > 0 && args[0] != "" {
		if err := k.Set("root", args[0]); err != nil {
			return fmt.Errorf("setting project directory: %w", err)
		}
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSCLEAN_* prefix)
	if err := k.Load(env.Provider("CSSCLEAN_", ".", func(s string) string {
		// CSSCLEAN_ANALYZE_BROWSER -> analyze.browser
		// CSSCLEAN_PORT -> port
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CSSCLEAN_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildAnalyzeConfig constructs the library's Config struct from koanf state.
func buildAnalyzeConfig(logger *zap.Logger) cssclean.Config {
	config := cssclean.Config{
		Root:         getStringWithFallback("root", "root", "."),
		Excludes:     getStringsWithFallback("exclude", "analyze.exclude"),
		UseGitIgnore: getBoolWithFallback("use-gitignore", "analyze.use-gitignore", true),
		BackupDir:    getStringWithFallback("backup-dir", "export.backup-dir", "backup"),
		Logger:       logger,
	}

	if includes := getStringsWithFallback("include", "analyze.include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = []string{"**/*.html"}
	}

	if getBoolWithFallback("browser", "analyze.browser", false) {
		config.Classifier = cssclean.NewBrowserClassifier(
			getStringWithFallback("browser-url", "analyze.browser-url", ""), logger)
	}

	return config
}

// buildSaveOptions constructs the save defaults from koanf state.
func buildSaveOptions() cssclean.SaveOptions {
	return cssclean.SaveOptions{
		Filename:    getStringWithFallback("output", "export.output", "cleaned.css"),
		Overwrite:   getBoolWithFallback("overwrite", "export.overwrite", false),
		BackupDir:   getStringWithFallback("backup-dir", "export.backup-dir", "backup"),
		SessionFile: getStringWithFallback("session", "export.session", "session.json"),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key.
func getStringsWithFallback(flagKey, configKey string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	return k.Strings(configKey)
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
