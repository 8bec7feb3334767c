package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
)

// Searcher returns the passages most similar to a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// Index holds resume passages and their embeddings in memory.
type Index struct {
	passages []string
	vectors  [][]float32
	embedder ai.Embedder
}

// Len reports the number of indexed passages.
func (i *Index) Len() int { return len(i.passages) }

// Search embeds query and returns up to k passages ordered by descending
// cosine similarity.
func (i *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 || len(i.passages) == 0 {
		return nil, nil
	}

	vectors, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query embedding, got %d", len(vectors))
	}
	q := vectors[0]

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(i.vectors))
	for pos, v := range i.vectors {
		ranked[pos] = scored{pos: pos, score: cosine(q, v)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, i.passages[r.pos])
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// IndexCache keeps built indexes keyed by a digest of the resume text.
type IndexCache struct {
	mu      sync.Mutex
	entries map[string]*Index
}

func NewIndexCache() *IndexCache {
	return &IndexCache{entries: make(map[string]*Index)}
}

func (c *IndexCache) get(key string) (*Index, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.entries[key]
	return idx, ok
}

func (c *IndexCache) put(key string, idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = idx
}

// Indexer turns resume text into a searchable Index.
type Indexer struct {
	embedder ai.Embedder
	cache    *IndexCache
	logger   *zap.Logger
}

// NewIndexer returns an indexer. cache may be nil, in which case every call
// re-embeds the resume.
func NewIndexer(embedder ai.Embedder, cache *IndexCache, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{embedder: embedder, cache: cache, logger: logger}
}

func (x *Indexer) Index(ctx context.Context, text string) (*Index, error) {
	if x.embedder == nil {
		return nil, errors.New("embedder is required")
	}

	var key string
	if x.cache != nil {
		sum := sha256.Sum256([]byte(text))
		key = hex.EncodeToString(sum[:])
		if idx, ok := x.cache.get(key); ok {
			x.logger.Debug("resume index cache hit", zap.Int("passages", idx.Len()))
			return idx, nil
		}
	}

	passages := Passages(text)
	idx := &Index{passages: passages, embedder: x.embedder}

	if len(passages) > 0 {
		vectors, err := x.embedder.Embed(ctx, passages)
		if err != nil {
			return nil, fmt.Errorf("embed resume: %w", err)
		}
		if len(vectors) != len(passages) {
			return nil, fmt.Errorf("expected %d resume embeddings, got %d", len(passages), len(vectors))
		}
		idx.vectors = vectors
	}

	x.logger.Debug("resume indexed", zap.Int("passages", len(passages)))

	if x.cache != nil {
		x.cache.put(key, idx)
	}
	return idx, nil
}

// Passages splits text into lines and drops the blank ones. Lines keep their
// original text and duplicates are preserved.
func Passages(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
