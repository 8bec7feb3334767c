package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/store"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage AI provider API keys",
}

var keysSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store API keys given inline or read from files",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		providers := []struct {
			name string
			flag string
			key  string
		}{
			{name: "OpenAI API key", flag: "openai", key: store.KeyOpenAI},
			{name: "Anthropic API key", flag: "anthropic", key: store.KeyAnthropic},
			{name: "Gemini API key", flag: "gemini", key: store.KeyGemini},
		}

		saved := 0
		for _, p := range providers {
			value, _ := cmd.Flags().GetString(p.flag)
			file, _ := cmd.Flags().GetString(p.flag + "-file")
			if value == "" && file == "" {
				continue
			}

			secret, err := secrets.Load(secrets.Source{Name: p.name, Value: value, File: file})
			if err != nil {
				e.logger.Fatal("loading the key", zap.Error(err))
			}

			if err := e.store.Set(ctx, p.key, secret); err != nil {
				e.logger.Fatal("saving the key", zap.Error(err), zap.String("key", p.key))
			}
			saved++
			e.logger.Info("key saved", zap.String("provider", p.flag))
		}

		if saved == 0 {
			e.logger.Fatal("nothing to save", zap.String("hint", "pass --openai, --anthropic or --gemini (or their -file variants)"))
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd)

	for _, p := range []string{"openai", "anthropic", "gemini"} {
		keysSetCmd.Flags().String(p, "", p+" API key")
		keysSetCmd.Flags().String(p+"-file", "", "file containing the "+p+" API key")
	}
}
