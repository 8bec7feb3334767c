package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the application profile used for autofill",
}

var profileSetCmd = &cobra.Command{
	Use:     "set key=value...",
	Short:   "Update profile fields, e.g. firstName=Ada preferences.confirmBeforeSubmit=false",
	Args:    cobra.MinimumNArgs(1),
	Example: "  jobmatch profile set firstName=Ada lastName=Lovelace email=ada@example.com",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		updates, err := parseAssignments(args)
		if err != nil {
			e.logger.Fatal("parsing profile fields", zap.Error(err))
		}

		prof, err := profile.NewRepository(e.store).Update(ctx, updates)
		if err != nil {
			e.logger.Fatal("saving the profile", zap.Error(err))
		}

		e.logger.Info("profile saved", zap.String("last_updated", prof.LastUpdated))
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		prof, err := profile.NewRepository(e.store).Load(ctx)
		if err != nil {
			e.logger.Fatal("loading the profile", zap.Error(err))
		}
		if prof == nil {
			e.logger.Fatal("no profile saved", zap.String("hint", "run `jobmatch profile set key=value`"))
		}

		if err := printJSON(cmd.OutOrStdout(), prof); err != nil {
			e.logger.Fatal("printing the profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)
}

// parseAssignments turns ["a.b=c"] into {"a": {"b": "c"}}.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}

		path := strings.Split(key, ".")
		node := out
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				if _, exists := node[part]; exists {
					return nil, fmt.Errorf("%s is both a value and an object", part)
				}
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}

		leaf := path[len(path)-1]
		if _, isObject := node[leaf].(map[string]any); isObject {
			return nil, fmt.Errorf("%s is both a value and an object", leaf)
		}
		node[leaf] = value
	}

	return out, nil
}
