package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		records, err := e.session.History(ctx)
		if err != nil {
			e.logger.Fatal("listing analyses", zap.Error(err))
		}

		if asJSON, _ := cmd.Flags().GetBool("raw"); asJSON {
			if err := printJSON(cmd.OutOrStdout(), records); err != nil {
				e.logger.Fatal("printing analyses", zap.Error(err))
			}
			return
		}

		if len(records) == 0 {
			e.logger.Info("no analyses stored yet")
			return
		}

		out := cmd.OutOrStdout()
		for _, rec := range records {
			score := "-"
			if rec.Analysis != nil {
				score = fmt.Sprintf("%d%%", rec.Analysis.MatchScore)
			}
			fmt.Fprintf(out, "%s  %5s  %s\n", rec.Timestamp, score, rec.JobData.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("raw", false, "print the stored records as JSON")
}
