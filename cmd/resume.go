package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/document"
	"github.com/spigell/jobmatch/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage the stored resume",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Parse a PDF, DOCX or TXT resume and store its text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			e.logger.Fatal("reading the resume", zap.Error(err), zap.String("filename", path))
		}

		text, err := document.Parse(path, data)
		if err != nil {
			e.logger.Fatal("parsing the resume", zap.Error(err), zap.String("filename", path))
		}

		rec, err := resume.Save(ctx, e.store, filepath.Base(path), text, time.Now())
		if err != nil {
			e.logger.Fatal("saving the resume", zap.Error(err))
		}

		e.logger.Info("resume uploaded",
			zap.String("filename", rec.Filename),
			zap.Int("characters", len([]rune(rec.Content))),
		)
	},
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored resume",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		e := setup(ctx)
		defer e.Close()

		rec, err := resume.Load(ctx, e.store)
		if err != nil {
			e.logger.Fatal("loading the resume", zap.Error(err))
		}
		if rec == nil {
			e.logger.Fatal("no resume uploaded", zap.String("hint", "run `jobmatch resume upload FILE`"))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (uploaded %s)\n\n%s\n", rec.Filename, rec.UploadDate.Format(time.RFC1123), rec.Content)
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeUploadCmd, resumeShowCmd)
}
