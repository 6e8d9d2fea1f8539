package cmd

import (
	"fmt"

	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/config"
	"github.com/financiallyruined/trimtui/internal/store"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show locally recorded trimming jobs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum rows to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	hist, err := store.Open(config.HistoryPath(cfg))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = hist.Close() }()

	records, err := hist.Recent(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("  No jobs recorded yet.")
		return nil
	}

	table := cli.Table{Headers: []string{"Job", "Source", "Output", "Segments", "Outcome", "Finished", "Size"}}
	for _, r := range records {
		size := "-"
		if r.OutputSize > 0 {
			size = cli.FormatBytes(r.OutputSize)
		}
		table.Rows = append(table.Rows, []string{
			r.JobID,
			cli.TruncateName(r.SourcePath, 36),
			cli.TruncateName(r.OutputName, 36),
			fmt.Sprintf("%d", r.SegmentCount),
			cli.Outcome(r.Outcome),
			cli.FormatDate(r.FinishedAt),
			size,
		})
	}

	total, _ := hist.Count()
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Printf("\n  %s jobs recorded\n", cli.FormatNumber(int64(total)))
	return nil
}
