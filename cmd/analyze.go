package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/orchestrator"
)

const PromptDone = "Done"

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a job posting with the uploaded resume",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addPageFlags(analyzeCmd)

	analyzeCmd.Flags().StringP("model", "m", "", "chat model: gpt4, claude or gemini (default from ai.default-model)")
	analyzeCmd.Flags().BoolP("interactive", "i", true, "offer learning suggestions for missing skills")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	modelFlag, _ := cmd.Flags().GetString("model")
	model := e.model(modelFlag)

	agent, _, err := newAgent(ctx, cmd, e)
	if err != nil {
		e.logger.Fatal("loading the page", zap.Error(err))
	}

	posting, err := agent.ExtractJob(ctx)
	if err != nil {
		e.logger.Fatal("extracting the job posting", zap.Error(err))
	}

	e.logger.Info("analysing job posting",
		zap.String("title", posting.Title),
		zap.String("company", posting.Company),
		zap.String("model", model),
	)

	dispatcher := orchestrator.NewDispatcher(e.session, agent, e.logger)
	resp := dispatcher.Dispatch(ctx, orchestrator.AnalyzeJob{Job: *posting, Model: model})
	if !resp.Success {
		e.logger.Fatal("analysing the job posting", zap.String("error", resp.Error))
	}

	analysis := resp.Data.(*matching.MatchAnalysis)
	out := cmd.OutOrStdout()
	printAnalysis(out, analysis)

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive || len(analysis.MissingSkills) == 0 {
		return
	}

	for {
		skillPrompt := promptui.Select{
			Label: "Get learning suggestions for a missing skill",
			Items: append(append([]string{}, analysis.MissingSkills...), PromptDone),
		}

		_, skill, err := skillPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			e.logger.Fatal("exiting", zap.Error(err))
		}
		if skill == PromptDone {
			return
		}

		resp := dispatcher.Dispatch(ctx, orchestrator.GetSkillSuggestions{Skill: skill, Model: model})
		if !resp.Success {
			e.logger.Error("getting skill suggestions", zap.String("skill", skill), zap.String("error", resp.Error))
			continue
		}
		printSuggestion(out, skill, resp.Data.(*matching.SkillSuggestion))
	}
}

func printAnalysis(w io.Writer, a *matching.MatchAnalysis) {
	fmt.Fprintf(w, "Match score: %d%%\n", a.MatchScore)
	printList(w, "Matching skills", a.MatchingSkills)
	printList(w, "Missing skills", a.MissingSkills)
	printList(w, "Recommendations", a.Recommendations)
}

func printSuggestion(w io.Writer, skill string, s *matching.SkillSuggestion) {
	fmt.Fprintf(w, "\n%s\n%s\n", skill, strings.Repeat("=", len(skill)))
	printList(w, "Short term", s.ShortTerm)
	printList(w, "Long term", s.LongTerm)
	printList(w, "Resources", s.Resources)
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
