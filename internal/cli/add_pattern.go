package cli

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/vietddude/remedy/internal/core/domain"
)

var (
	apRegex       string
	apContains    []string
	apTypes       []string
	apStrategy    string
	apSeverity    string
	apDescription string
	apHints       []string
)

var addPatternCmd = &cobra.Command{
	Use:   "add-pattern [id] [name]",
	Short: "Register a custom error pattern",
	Args:  cobra.ExactArgs(2),
	Run:   runAddPattern,
}

func init() {
	addPatternCmd.Flags().StringVar(&apRegex, "regex", "", "regular expression matched against error text")
	addPatternCmd.Flags().StringArrayVar(&apContains, "contains", nil, "substring matched against error text (repeatable)")
	addPatternCmd.Flags().StringArrayVar(&apTypes, "type", nil, "error type tag matched exactly (repeatable)")
	addPatternCmd.Flags().StringVar(&apStrategy, "strategy", "retry", "default recovery strategy")
	addPatternCmd.Flags().StringVar(&apSeverity, "severity", "medium", "pattern severity (low, medium, high, critical)")
	addPatternCmd.Flags().StringVar(&apDescription, "description", "", "human-readable description")
	addPatternCmd.Flags().StringArrayVar(&apHints, "hint", nil, "recovery hint (repeatable)")
	rootCmd.AddCommand(addPatternCmd)
}

func runAddPattern(cmd *cobra.Command, args []string) {
	strategyVal, err := domain.ParseStrategy(apStrategy)
	if err != nil {
		fail("%v", err)
	}
	severity, err := domain.ParseSeverity(apSeverity)
	if err != nil {
		fail("%v", err)
	}
	if apRegex != "" {
		if _, err := regexp.Compile("(?i)" + apRegex); err != nil {
			fail("Invalid regex: %v", err)
		}
	}

	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	p := &domain.ErrorPattern{
		ID:              args[0],
		Name:            args[1],
		Regex:           apRegex,
		MessageContains: apContains,
		ErrorTypes:      apTypes,
		Severity:        severity,
		DefaultStrategy: strategyVal,
		Description:     apDescription,
		RecoveryHints:   apHints,
	}

	if err := svc.AddPattern(context.Background(), p); err != nil {
		fail("Failed to add pattern: %v", err)
	}

	fmt.Printf("%s Added pattern: %s\n", okMark, p.ID)
}
