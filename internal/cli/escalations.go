package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	escResolve string
	escClear   bool
	escJSON    bool
)

var escalationsCmd = &cobra.Command{
	Use:   "escalations",
	Short: "Inspect the escalation queue",
	Long:  `Escalations lists failures that exhausted automated recovery and are waiting for an operator. Requires a configured Redis queue.`,
	Run:   runEscalations,
}

func init() {
	escalationsCmd.Flags().StringVar(&escResolve, "resolve", "", "mark the given attempt ID as handled")
	escalationsCmd.Flags().BoolVar(&escClear, "clear", false, "drop the whole escalation queue")
	escalationsCmd.Flags().BoolVar(&escJSON, "json", false, "print escalations as JSON")
	rootCmd.AddCommand(escalationsCmd)
}

func runEscalations(cmd *cobra.Command, args []string) {
	cfg := loadConfig(slog.LevelWarn)
	svc := newService(cfg)
	ctx := context.Background()

	if escResolve != "" {
		if err := svc.ResolveEscalation(ctx, escResolve); err != nil {
			fail("Failed to resolve escalation: %v", err)
		}
		fmt.Printf("%s Resolved escalation: %s\n", okMark, escResolve)
		return
	}

	if escClear {
		if err := svc.ClearEscalations(ctx); err != nil {
			fail("Failed to clear escalations: %v", err)
		}
		fmt.Printf("%s Escalation queue cleared\n", okMark)
		return
	}

	escalations, err := svc.Escalations(ctx)
	if err != nil {
		fail("Failed to read escalations: %v", err)
	}

	if escJSON {
		printJSON(escalations)
		return
	}

	if len(escalations) == 0 {
		fmt.Println("No pending escalations")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ATTEMPT\tPATTERN\tTIMESTAMP\tERROR")

	for _, att := range escalations {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			att.ID, att.PatternID, att.Timestamp.Format(time.RFC3339), truncate(att.ErrorText, 40))
	}
	_ = w.Flush()
}
