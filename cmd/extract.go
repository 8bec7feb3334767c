package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the job posting from a supported job board page",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		agent, _, err := newAgent(ctx, cmd, e)
		if err != nil {
			e.logger.Fatal("loading the page", zap.Error(err))
		}

		posting, err := agent.ExtractJob(ctx)
		if err != nil {
			e.logger.Fatal("extracting the job posting", zap.Error(err))
		}

		if err := printJSON(cmd.OutOrStdout(), posting); err != nil {
			e.logger.Fatal("printing the job posting", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addPageFlags(extractCmd)
}
