package form

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/page"
	"github.com/spigell/jobmatch/internal/profile"
	"github.com/spigell/jobmatch/internal/resume"
)

var (
	ErrNoFormDetected = errors.New("no form detected")
	ErrNoProfileData  = errors.New("no user data found")
	ErrNoResumeData   = errors.New("no resume found")
)

const (
	highlightStyle = "border: 2px solid #4CAF50"
	noteStyle      = "color: #4CAF50"
)

// FieldNotFoundError reports a form field whose element is missing from the page.
type FieldNotFoundError struct {
	Field string
	// Upload is set for file inputs.
	Upload bool
}

func (e *FieldNotFoundError) Error() string {
	if e.Upload {
		return fmt.Sprintf("Could not find %s upload field", e.Field)
	}
	return fmt.Sprintf("Could not find %s field", e.Field)
}

// Result is the outcome of a fill.
type Result struct {
	Filled bool     `json:"filled"`
	Errors []string `json:"errors,omitempty"`
}

type Filler struct {
	logger *zap.Logger
}

func NewFiller(logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{logger: logger}
}

// Fill writes profile values into the descriptor's fields. Missing elements
// are collected in Result.Errors and do not stop the remaining fields.
// File inputs cannot be set programmatically, so the resume input is marked
// for manual selection instead.
func (f *Filler) Fill(_ context.Context, p page.Writable, desc *Descriptor, prof *profile.Profile, rec *resume.Record) (*Result, error) {
	if desc == nil {
		return nil, ErrNoFormDetected
	}
	if prof == nil {
		return nil, ErrNoProfileData
	}
	if rec == nil {
		return nil, ErrNoResumeData
	}

	var errs []string

	for _, field := range desc.Fields {
		switch field.Name {
		case FieldForm, FieldResume, FieldCoverLetter:
			continue
		}

		value, _ := prof.Field(field.Name)
		if err := fillField(p, field, value); err != nil {
			f.logger.Debug("form field not filled", zap.String("field", field.Name), zap.Error(err))
			errs = append(errs, err.Error())
		}
	}

	if selector, ok := desc.Selector(FieldResume); ok && rec.Filename != "" {
		if err := markFileInput(p, selector, FieldResume); err != nil {
			errs = append(errs, err.Error())
		}
	}

	f.logger.Info("form filled",
		zap.String("provider", desc.Provider),
		zap.Int("errors", len(errs)),
	)

	return &Result{Filled: len(errs) == 0, Errors: errs}, nil
}

func fillField(p page.Writable, field Field, value string) error {
	if !p.Exists(field.Selector) {
		return &FieldNotFoundError{Field: field.Name}
	}

	if err := p.SetValue(field.Selector, value); err != nil {
		return fmt.Errorf("set %s: %w", field.Name, err)
	}

	// Page-side validation listens for user input.
	for _, event := range []string{"change", "input"} {
		if err := p.Dispatch(field.Selector, event); err != nil {
			return fmt.Errorf("dispatch %s on %s: %w", event, field.Name, err)
		}
	}

	return nil
}

func markFileInput(p page.Writable, selector, label string) error {
	if !p.Exists(selector) {
		return &FieldNotFoundError{Field: label, Upload: true}
	}

	if err := p.Highlight(selector, highlightStyle); err != nil {
		return err
	}
	return p.InsertNoteAfter(selector, fmt.Sprintf("Please select your %s file", label), noteStyle)
}
