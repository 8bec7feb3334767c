// Package store is the flat key-value store holding credentials, the
// resume, the user profile and past analyses. Values are JSON documents and
// the last write to a key wins.
package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Persisted keys.
const (
	KeyOpenAI    = "openaiKey"
	KeyAnthropic = "anthropicKey"
	KeyGemini    = "geminiKey"
	KeyResume    = "resume"
	KeyUserData  = "jobApplicationUserData"

	AnalysisPrefix = "analysis_"
)

// Store is implemented by every backend.
type Store interface {
	// Get decodes the value under key into out and reports whether the key exists.
	Get(ctx context.Context, key string, out any) (bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
	// Keys lists the keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// AnalysisKey is the key an analysis created at t is persisted under.
func AnalysisKey(t time.Time) string {
	return AnalysisPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// GetString reads a string value, returning "" when the key is absent.
func GetString(ctx context.Context, s Store, key string) (string, error) {
	var value string
	if _, err := s.Get(ctx, key, &value); err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}
