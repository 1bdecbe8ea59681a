package embcache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/db"
	"github.com/audiencelab/segmatch/internal/domain"
)

type mockStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type mockEmbedder struct {
	calls  int
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, -0.2, 0.3},
		TotalTokens: 7,
	}}
	s := newMockStore()
	c := New(inner, s, "segmatch:", time.Hour, nil, zap.NewNop())

	first, err := c.Embed(context.Background(), "household income")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", inner.calls)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss must report provider tokens, got %d", first.TotalTokens)
	}

	second, err := c.Embed(context.Background(), "household income")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected cached hit, provider called %d times", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", second.TotalTokens)
	}
	if !reflect.DeepEqual(second.Embedding, first.Embedding) {
		t.Errorf("cached vector differs: %v vs %v", second.Embedding, first.Embedding)
	}
}

func TestEmbed_KeyPrefix(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	s := newMockStore()
	c := New(inner, s, "segmatch:", time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "anything"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for key := range s.data {
		if !strings.HasPrefix(key, "segmatch:emb_cache:") {
			t.Errorf("cache key %q missing expected prefix", key)
		}
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	s := newMockStore()
	c := New(inner, s, "segmatch:", time.Hour, nil, zap.NewNop())

	s.data[c.cacheKey("query")] = []byte{1, 2, 3} // not a multiple of 4

	res, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt entry must fall through to provider, calls=%d", inner.calls)
	}
	if !reflect.DeepEqual(res.Embedding, []float32{0.5}) {
		t.Errorf("unexpected embedding %v", res.Embedding)
	}
}

func TestEmbed_StoreErrorsAreNonFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	s := newMockStore()
	s.getErr = errors.New("connection refused")
	s.setErr = errors.New("connection refused")
	c := New(inner, s, "segmatch:", time.Hour, nil, zap.NewNop())

	res, err := c.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("cache failures must not fail the embed: %v", err)
	}
	if len(res.Embedding) == 0 {
		t.Error("expected embedding from provider despite cache failure")
	}
}

func TestEmbed_ProviderErrorPropagates(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	c := New(inner, newMockStore(), "segmatch:", time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "query"); err == nil {
		t.Fatal("expected error from failing provider")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.25e-3}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("bytesToVector: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip mismatch: %v vs %v", out, in)
	}
}
