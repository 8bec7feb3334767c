package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/orchestrator"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest SKILL",
	Short: "Ask for a learning plan for a skill",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		modelFlag, _ := cmd.Flags().GetString("model")
		skill := strings.Join(args, " ")

		resp := orchestrator.NewDispatcher(e.session, nil, e.logger).
			Dispatch(ctx, orchestrator.GetSkillSuggestions{Skill: skill, Model: e.model(modelFlag)})
		if !resp.Success {
			e.logger.Fatal("getting skill suggestions", zap.String("skill", skill), zap.String("error", resp.Error))
		}

		printSuggestion(cmd.OutOrStdout(), skill, resp.Data.(*matching.SkillSuggestion))
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringP("model", "m", "", "chat model: gpt4, claude or gemini (default from ai.default-model)")
}
