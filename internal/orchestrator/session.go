// Package orchestrator sequences extraction, indexing, analysis and
// suggestions behind a typed request dispatcher.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/job"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/store"
)

var (
	ErrNoResume  = errors.New("Please upload your resume first")
	ErrNoJobData = errors.New("Could not extract job data from the page. Please make sure you are on a job posting page.")
	ErrNoPage    = errors.New("no page is loaded")
)

// timestampLayout is RFC 3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// JobData is the normalised job description an analysis was run against.
type JobData struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// Text joins the title, description and requirements one per line.
func (j JobData) Text() string {
	parts := append([]string{j.Title, j.Description}, j.Requirements...)
	return strings.Join(parts, "\n")
}

func (j JobData) empty() bool {
	return j.Title == "" && j.Description == "" && len(j.Requirements) == 0
}

// AnalysisRecord is persisted under an analysis_ key after each analysis.
type AnalysisRecord struct {
	Key       string                  `json:"-"`
	JobData   JobData                 `json:"jobData"`
	Analysis  *matching.MatchAnalysis `json:"analysis"`
	Timestamp string                  `json:"timestamp"`
}

// KeyFiles point to files holding provider keys, used when the store has none.
type KeyFiles struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

type SessionConfig struct {
	CacheIndex   bool
	TopK         int
	MaxLogLength int
	KeyFiles     KeyFiles
}

// Session holds the state shared by requests: persistence, model
// construction, the optional index cache and the clock.
type Session struct {
	store   store.Store
	factory ai.Factory
	cache   *matching.IndexCache
	cfg     SessionConfig
	now     func() time.Time
	logger  *zap.Logger
}

func NewSession(s store.Store, factory ai.Factory, cfg SessionConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	session := &Session{
		store:   s,
		factory: factory,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger,
	}
	if cfg.CacheIndex {
		session.cache = matching.NewIndexCache()
	}
	return session
}

// Credentials reads provider keys from the store, falling back to key files
// and then to the provider's usual environment variable.
func (s *Session) Credentials(ctx context.Context) (ai.Credentials, error) {
	var creds ai.Credentials

	sources := []struct {
		key string
		src secrets.Source
		dst *string
	}{
		{key: store.KeyOpenAI, src: secrets.Source{Name: "OpenAI API key", File: s.cfg.KeyFiles.OpenAI, Env: "OPENAI_API_KEY"}, dst: &creds.OpenAI},
		{key: store.KeyAnthropic, src: secrets.Source{Name: "Anthropic API key", File: s.cfg.KeyFiles.Anthropic, Env: "ANTHROPIC_API_KEY"}, dst: &creds.Anthropic},
		{key: store.KeyGemini, src: secrets.Source{Name: "Gemini API key", File: s.cfg.KeyFiles.Gemini, Env: "GEMINI_API_KEY"}, dst: &creds.Gemini},
	}

	for _, source := range sources {
		value, err := store.GetString(ctx, s.store, source.key)
		if err != nil {
			return ai.Credentials{}, err
		}

		if strings.TrimSpace(value) == "" {
			value, err = secrets.LoadOptional(source.src)
			if err != nil {
				return ai.Credentials{}, err
			}
		}

		*source.dst = strings.TrimSpace(value)
	}

	return creds, nil
}

func (s *Session) models(ctx context.Context) (*ai.Models, error) {
	if s.factory == nil {
		return nil, fmt.Errorf("%w: no model factory configured", ai.ErrModelUnavailable)
	}

	creds, err := s.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	return s.factory(ctx, creds)
}

// AnalyzeJob indexes the stored resume, analyses posting against it and
// persists the result.
func (s *Session) AnalyzeJob(ctx context.Context, posting job.Posting, model string) (*matching.MatchAnalysis, error) {
	rec, err := resume.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if rec == nil || strings.TrimSpace(rec.Content) == "" {
		return nil, ErrNoResume
	}

	jobData := JobData{
		Title:        posting.Title,
		Description:  posting.Description,
		Requirements: posting.Requirements,
	}
	if jobData.Requirements == nil {
		jobData.Requirements = []string{}
	}
	if jobData.empty() {
		return nil, ErrNoJobData
	}

	models, err := s.models(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := models.Chat(model)
	if err != nil {
		return nil, err
	}
	embedder, err := models.Embedder()
	if err != nil {
		return nil, err
	}

	idx, err := matching.NewIndexer(embedder, s.cache, s.logger).Index(ctx, rec.Content)
	if err != nil {
		return nil, err
	}

	analysis, err := matching.NewAnalyzer(chat, s.logger, s.cfg.MaxLogLength, s.cfg.TopK).Analyze(ctx, idx, jobData.Text())
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := AnalysisRecord{
		JobData:   jobData,
		Analysis:  analysis,
		Timestamp: now.UTC().Format(timestampLayout),
	}
	if err := s.store.Set(ctx, store.AnalysisKey(now), record); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	s.logger.Info("job analysed",
		zap.String("title", jobData.Title),
		zap.Int("match_score", analysis.MatchScore),
		zap.String("model", chat.Model()),
	)
	return analysis, nil
}

func (s *Session) SkillSuggestions(ctx context.Context, skill, model string) (*matching.SkillSuggestion, error) {
	if strings.TrimSpace(skill) == "" {
		return nil, matching.ErrEmptySkill
	}

	models, err := s.models(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := models.Chat(model)
	if err != nil {
		return nil, err
	}

	return matching.NewAdvisor(chat, s.logger, s.cfg.MaxLogLength).Suggest(ctx, skill)
}

// History returns the stored analyses, newest first.
func (s *Session) History(ctx context.Context) ([]AnalysisRecord, error) {
	keys, err := s.store.Keys(ctx, store.AnalysisPrefix)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	records := make([]AnalysisRecord, 0, len(keys))
	for _, key := range keys {
		var rec AnalysisRecord
		found, err := s.store.Get(ctx, key, &rec)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !found {
			continue
		}
		rec.Key = key
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })
	return records, nil
}
