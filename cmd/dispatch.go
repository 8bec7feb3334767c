package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/content"
	"github.com/spigell/jobmatch/internal/orchestrator"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Read a request envelope from stdin and write the response envelope to stdout",
	Long: `Read a request envelope such as {"type": "GET_SKILL_SUGGESTIONS", "data": "Docker"}
from stdin and write the response envelope to stdout. Page requests
(EXTRACT_JOB_DATA, CHECK_FORM_COMPATIBILITY, AUTOFILL_FORM) need --url.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		var env orchestrator.Envelope
		if err := json.NewDecoder(cmd.InOrStdin()).Decode(&env); err != nil {
			e.logger.Fatal("decoding the request envelope", zap.Error(err))
		}

		var agent orchestrator.PageAgent
		if rawURL, _ := cmd.Flags().GetString("url"); rawURL != "" {
			a, _, err := newAgent(ctx, cmd, e)
			if err != nil {
				e.logger.Fatal("loading the page", zap.Error(err))
			}
			agent = a
		}

		resp := orchestrator.NewDispatcher(e.session, agent, e.logger).DispatchEnvelope(ctx, env)
		if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
			e.logger.Fatal("writing the response", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
	addPageFlags(dispatchCmd)
}

var _ orchestrator.PageAgent = (*content.Agent)(nil)
