package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps all keys in a single JSON object on disk. Every Set re-reads
// the file, so separate processes sharing it get last-write-wins per key.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &File{path: path}, nil
}

func (f *File) Get(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return false, err
	}

	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *File) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = raw

	return f.write(data)
}

func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return matchingKeys(data, prefix), nil
}

func (f *File) read() (map[string]json.RawMessage, error) {
	data := make(map[string]json.RawMessage)

	content, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	if len(content) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode storage file %q: %w", f.path, err)
	}
	return data, nil
}

func (f *File) write(data map[string]json.RawMessage) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
