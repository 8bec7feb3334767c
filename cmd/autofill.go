package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/orchestrator"
	"github.com/spigell/jobmatch/internal/profile"
)

var autofillCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Fill a supported application form with the saved profile",
	Run: func(cmd *cobra.Command, _ []string) {
		autofill(cmd)
	},
}

func init() {
	rootCmd.AddCommand(autofillCmd)
	addPageFlags(autofillCmd)

	autofillCmd.Flags().StringP("out", "o", "", "write the filled page to this file")
	autofillCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before filling")
}

func autofill(cmd *cobra.Command) {
	ctx := context.Background()
	e := setup(ctx)
	defer e.Close()

	agent, doc, err := newAgent(ctx, cmd, e)
	if err != nil {
		e.logger.Fatal("loading the page", zap.Error(err))
	}

	status := agent.CheckForm(ctx)
	if !status.HasForm {
		e.logger.Fatal("no supported application form on the page", zap.String("url", doc.CurrentURL()))
	}

	prof, err := profile.NewRepository(e.store).Load(ctx)
	if err != nil {
		e.logger.Fatal("loading the profile", zap.Error(err))
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if prof != nil && prof.Preferences.ConfirmBeforeSubmit && !autoApprove {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Fill the %s application form", status.Provider),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				e.logger.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			e.logger.Fatal("exiting", zap.Error(err))
		}
	}

	resp := orchestrator.NewDispatcher(e.session, agent, e.logger).Dispatch(ctx, orchestrator.AutofillForm{})
	for _, msg := range resp.Errors {
		e.logger.Warn("field not filled", zap.String("reason", msg))
	}
	if resp.Error != "" {
		e.logger.Fatal("filling the form", zap.String("error", resp.Error))
	}

	e.logger.Info("form processed", zap.String("provider", status.Provider), zap.Bool("filled", resp.Success))

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return
	}

	markup, err := doc.HTML()
	if err != nil {
		e.logger.Fatal("rendering the filled page", zap.Error(err))
	}
	if err := os.WriteFile(out, []byte(markup), 0o644); err != nil {
		e.logger.Fatal("writing the filled page", zap.Error(err), zap.String("filename", out))
	}
	e.logger.Info("filled page written", zap.String("filename", out))
}
