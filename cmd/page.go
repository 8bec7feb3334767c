package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/content"
	"github.com/spigell/jobmatch/internal/page"
)

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "job posting or application page URL")
	cmd.Flags().String("html", "", "read the page from a saved HTML file instead of fetching it (requires --url for site detection)")
	cmd.Flags().Bool("render", false, "render the page in headless Chrome before reading it")
}

// loadPage reads the page named by the page flags.
func loadPage(ctx context.Context, cmd *cobra.Command, e *env) (*page.Document, error) {
	rawURL, _ := cmd.Flags().GetString("url")
	htmlFile, _ := cmd.Flags().GetString("html")
	render, _ := cmd.Flags().GetBool("render")

	if rawURL == "" {
		return nil, errors.New("--url is required")
	}

	if htmlFile != "" {
		markup, err := os.ReadFile(htmlFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", htmlFile, err)
		}
		return page.FromHTML(rawURL, string(markup))
	}

	e.logger.Info("loading page", zap.String("url", rawURL), zap.Bool("render", render || e.config.Page.Render))

	return page.Load(ctx, rawURL, &page.Options{
		Timeout:   e.config.Page.Timeout,
		UserAgent: e.config.Page.UserAgent,
		Render:    render || e.config.Page.Render,
		Logger:    e.logger,
	})
}

func newAgent(ctx context.Context, cmd *cobra.Command, e *env) (*content.Agent, *page.Document, error) {
	doc, err := loadPage(ctx, cmd, e)
	if err != nil {
		return nil, nil, err
	}
	return content.NewAgent(doc, e.store, e.logger), doc, nil
}
