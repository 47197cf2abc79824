package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/remedy/internal/control"
	"github.com/vietddude/remedy/internal/core/config"
	"github.com/vietddude/remedy/internal/core/domain"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var (
	okMark   = color.New(color.FgGreen).Sprint("[OK]")
	warnMark = color.New(color.FgYellow).Sprint("[!]")
	failMark = color.New(color.FgRed).Sprint("[X]")
)

var rootCmd = &cobra.Command{
	Use:     "remedy",
	Short:   "Error classification and recovery engine",
	Long:    `Remedy classifies operational failures against a pattern catalog, picks a recovery strategy, and drives retries, fallbacks, and escalations. It learns which strategies actually work and prefers them on repeat failures.`,
	Version: domain.Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig reads the config file (falling back to defaults when it does
// not exist) and initializes logging. One-shot commands pass slog.LevelWarn
// so engine startup chatter does not pollute their output.
func loadConfig(baseLevel slog.Level) *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := baseLevel
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	return cfg
}

func newService(cfg *config.AppConfig) *control.Service {
	svc, err := control.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}
	return svc
}

// fail prints a red [X] message to stderr and exits non-zero.
func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", failMark, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("Failed to encode JSON: %v", err)
	}
	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
