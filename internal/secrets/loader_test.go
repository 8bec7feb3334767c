package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  sk-file \n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	t.Setenv("JOBMATCH_TEST_KEY", " sk-env ")

	cases := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{name: "file wins", src: Source{Name: "OpenAI API key", File: keyFile, Env: "JOBMATCH_TEST_KEY", Value: "sk-inline"}, want: "sk-file"},
		{name: "env before value", src: Source{Env: "JOBMATCH_TEST_KEY", Value: "sk-inline"}, want: "sk-env"},
		{name: "inline value", src: Source{Env: "JOBMATCH_UNSET_KEY", Value: " sk-inline "}, want: "sk-inline"},
		{name: "empty file", src: Source{Name: "Gemini API key", File: emptyFile}, wantErr: "Gemini API key file"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, wantErr: "reading secret from file"},
		{name: "nothing configured", src: Source{Name: "Anthropic API key"}, wantErr: "Anthropic API key is not configured"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Load(tc.src)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "OpenAI API key"})
	if err != nil || got != "" {
		t.Fatalf("expected empty secret without error, got %q err=%v", got, err)
	}

	if _, err := LoadOptional(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
