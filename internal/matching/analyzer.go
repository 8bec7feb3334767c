package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/utils"
)

//go:embed analysis.md
var analysisTemplate string

// Analyzer scores a job description against the indexed resume.
type Analyzer struct {
	chat      ai.ChatModel
	logger    *zap.Logger
	maxLogLen int
	topK      int
}

func NewAnalyzer(chat ai.ChatModel, logger *zap.Logger, maxLogLength, topK int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{chat: chat, logger: logger, maxLogLen: maxLogLength, topK: topK}
}

func (a *Analyzer) Analyze(ctx context.Context, resume Searcher, jobDescription string) (*MatchAnalysis, error) {
	if a.chat == nil {
		return nil, errors.New("chat model is required")
	}
	if resume == nil {
		return nil, errors.New("resume index is required")
	}

	cleaned := utils.CollapseWhitespace(jobDescription)
	if cleaned == "" {
		return nil, ErrEmptyJobDescription
	}

	passages, err := resume.Search(ctx, cleaned, a.topK)
	if err != nil {
		return nil, fmt.Errorf("search resume: %w", err)
	}
	if len(passages) == 0 {
		return nil, ErrNoRelevantContent
	}

	prompt := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", cleaned,
		"{{RESUME}}", strings.Join(passages, "\n"),
	).Replace(analysisTemplate)

	raw, err := a.generate(ctx, "match analysis", prompt)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis results: %w", err)
	}

	return analysis, nil
}

func (a *Analyzer) generate(ctx context.Context, purpose, prompt string) (string, error) {
	a.logger.Debug(purpose+" request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.chat.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug(purpose+" response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)
	return raw, nil
}
