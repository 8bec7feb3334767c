// Package resume persists the uploaded resume.
package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/jobmatch/internal/store"
)

// Record is the stored resume.
type Record struct {
	Content    string    `json:"content"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"uploadDate"`
}

// Save replaces the stored resume.
func Save(ctx context.Context, s store.Store, filename, content string, now time.Time) (*Record, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("resume text must not be empty")
	}

	rec := &Record{
		Content:    content,
		Filename:   filename,
		UploadDate: now.UTC(),
	}

	if err := s.Set(ctx, store.KeyResume, rec); err != nil {
		return nil, fmt.Errorf("save resume: %w", err)
	}
	return rec, nil
}

// Load returns the stored resume, or nil when none was uploaded.
func Load(ctx context.Context, s store.Store) (*Record, error) {
	var rec Record
	found, err := s.Get(ctx, store.KeyResume, &rec)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}
