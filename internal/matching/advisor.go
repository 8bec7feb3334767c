package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
)

//go:embed suggestion.md
var suggestionTemplate string

// Advisor asks the model for a learning plan for a single skill.
type Advisor struct {
	analyzer *Analyzer
}

func NewAdvisor(chat ai.ChatModel, logger *zap.Logger, maxLogLength int) *Advisor {
	return &Advisor{analyzer: NewAnalyzer(chat, logger, maxLogLength, 0)}
}

func (a *Advisor) Suggest(ctx context.Context, skill string) (*SkillSuggestion, error) {
	if a.analyzer.chat == nil {
		return nil, errors.New("chat model is required")
	}

	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, ErrEmptySkill
	}

	prompt := strings.ReplaceAll(suggestionTemplate, "{{SKILL}}", skill)

	raw, err := a.analyzer.generate(ctx, "skill suggestion", prompt)
	if err != nil {
		return nil, err
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse skill suggestions: %w", err)
	}
	return suggestion, nil
}
