package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the plain-text recovery report",
	Run:   runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)

	report := svc.Report()
	if reportOutput == "" {
		fmt.Println(report)
		return
	}

	if err := os.WriteFile(reportOutput, []byte(report+"\n"), 0o644); err != nil {
		fail("Failed to write report: %v", err)
	}
	fmt.Printf("%s Report saved to: %s\n", okMark, reportOutput)
}
