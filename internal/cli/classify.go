package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

var (
	classifyType string
	classifyJSON bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [error text]",
	Short: "Match error text against the pattern catalog and show the chosen strategy",
	Args:  cobra.MinimumNArgs(1),
	Run:   runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyType, "type", "", "error type tag (e.g. TimeoutError)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the raw decision as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	text := strings.Join(args, " ")
	decision := svc.Resolve(text, classifyType)

	if classifyJSON {
		printJSON(decision)
		return
	}

	if decision.Pattern == nil {
		fmt.Printf("%s No matching pattern found\n", warnMark)
		fmt.Printf("    Strategy:    %s (default)\n", decision.Strategy)
		fmt.Printf("    Fingerprint: %s\n", decision.Fingerprint)
		return
	}

	p := decision.Pattern
	strategyNote := ""
	if decision.Learned {
		strategyNote = " (learned)"
	}

	fmt.Printf("%s Identified: %s\n", okMark, p.Name)
	fmt.Printf("    Pattern ID:  %s\n", p.ID)
	fmt.Printf("    Severity:    %s\n", p.Severity)
	fmt.Printf("    Strategy:    %s%s\n", decision.Strategy, strategyNote)
	fmt.Printf("    Fingerprint: %s\n", decision.Fingerprint)
	if p.Description != "" {
		fmt.Printf("    Description: %s\n", p.Description)
	}
	if len(decision.Hints) > 0 {
		fmt.Println("    Recovery hints:")
		for _, h := range decision.Hints {
			fmt.Printf("      - %s\n", h)
		}
	}
}
