package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type record struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	var missing record
	found, err := s.Get(ctx, KeyResume, &missing)
	if err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, KeyResume, record{Content: "Go", Filename: "cv.txt"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Last write wins.
	if err := s.Set(ctx, KeyResume, record{Content: "Go\nSQL", Filename: "cv.pdf"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got record
	found, err = s.Get(ctx, KeyResume, &got)
	if err != nil || !found {
		t.Fatalf("expected key, got found=%v err=%v", found, err)
	}
	if got != (record{Content: "Go\nSQL", Filename: "cv.pdf"}) {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := s.Set(ctx, KeyOpenAI, "sk-test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	key, err := GetString(ctx, s, KeyOpenAI)
	if err != nil || key != "sk-test" {
		t.Fatalf("unexpected key %q err=%v", key, err)
	}
	empty, err := GetString(ctx, s, KeyAnthropic)
	if err != nil || empty != "" {
		t.Fatalf("expected empty anthropic key, got %q err=%v", empty, err)
	}

	first := time.UnixMilli(1700000000000)
	second := first.Add(time.Second)
	for _, ts := range []time.Time{second, first} {
		if err := s.Set(ctx, AnalysisKey(ts), map[string]int{"matchScore": 1}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	keys, err := s.Keys(ctx, AnalysisPrefix)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	expected := []string{"analysis_1700000000000", "analysis_1700000001000"}
	if !reflect.DeepEqual(keys, expected) {
		t.Fatalf("expected %v, got %v", expected, keys)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exerciseStore(t, s)

	// A second handle on the same file sees the data written by the first.
	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, err := GetString(context.Background(), reopened, KeyOpenAI)
	if err != nil || key != "sk-test" {
		t.Fatalf("expected persisted key, got %q err=%v", key, err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out string
	if _, err := s.Get(context.Background(), KeyOpenAI, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRedisStoreIntegration(t *testing.T) {
	url := os.Getenv("JOBMATCH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("JOBMATCH_TEST_REDIS_URL is not set")
	}

	s, err := NewRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	shared := NewRedisWithClient(redis.NewClient(opts))
	defer shared.Close()

	var rec record
	if found, err := shared.Get(context.Background(), KeyResume, &rec); err != nil || !found {
		t.Fatalf("expected value written through NewRedis, found=%v err=%v", found, err)
	}
}

// unreachableRedis points at a port nothing listens on.
const unreachableRedis = "redis://127.0.0.1:1/0"

func TestNewRedisFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, unreachableRedis); err == nil {
		t.Fatal("expected ping error")
	}
	if _, err := NewRedis(ctx, "://not-a-url"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRedisStoreWithClientSurfacesErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisWithClient(client)
	defer s.Close()

	ctx := context.Background()
	var out string
	if found, err := s.Get(ctx, KeyOpenAI, &out); err == nil || found {
		t.Fatalf("expected get error, found=%v err=%v", found, err)
	}
	if err := s.Set(ctx, KeyOpenAI, "sk"); err == nil {
		t.Fatal("expected set error")
	}
	if _, err := s.Keys(ctx, AnalysisPrefix); err == nil {
		t.Fatal("expected scan error")
	}
}
