// Package content runs extraction and form filling against the page the user
// is looking at.
package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/form"
	"github.com/spigell/jobmatch/internal/job"
	"github.com/spigell/jobmatch/internal/page"
	"github.com/spigell/jobmatch/internal/profile"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/store"
)

// FormStatus reports whether the page carries a known application form.
type FormStatus struct {
	HasForm  bool   `json:"hasForm"`
	Provider string `json:"provider,omitempty"`
}

// Agent owns one page and the components acting on it.
type Agent struct {
	page      page.Writable
	extractor *job.Extractor
	detector  *form.Detector
	filler    *form.Filler
	store     store.Store
	logger    *zap.Logger
}

func NewAgent(p page.Writable, s store.Store, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		page:      p,
		extractor: job.NewExtractor(logger),
		detector:  form.NewDetector(form.DefaultPatterns, logger),
		filler:    form.NewFiller(logger),
		store:     s,
		logger:    logger,
	}
}

// Page returns the page the agent operates on.
func (a *Agent) Page() page.Writable { return a.page }

func (a *Agent) ExtractJob(ctx context.Context) (*job.Posting, error) {
	if a.page == nil {
		return nil, errors.New("no page loaded")
	}
	return a.extractor.Extract(ctx, a.page)
}

func (a *Agent) CheckForm(ctx context.Context) FormStatus {
	if a.page == nil {
		return FormStatus{}
	}

	desc := a.detector.Detect(ctx, a.page)
	if desc == nil {
		return FormStatus{}
	}
	return FormStatus{HasForm: true, Provider: desc.Provider}
}

// Autofill fills the detected form with the stored profile and resume.
func (a *Agent) Autofill(ctx context.Context) (*form.Result, error) {
	if a.page == nil {
		return nil, errors.New("no page loaded")
	}

	desc := a.detector.Detect(ctx, a.page)
	if desc == nil {
		return nil, form.ErrNoFormDetected
	}

	prof, err := profile.NewRepository(a.store).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	rec, err := resume.Load(ctx, a.store)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}

	return a.filler.Fill(ctx, a.page, desc, prof, rec)
}
