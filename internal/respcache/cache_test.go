package respcache

import (
	"context"
	"testing"
	"time"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

func TestKey_OrderInsensitiveToDomainOrder(t *testing.T) {
	history := ragmodel.History{{Role: ragmodel.RoleUser, Content: "hi"}}
	a := Key("query", []ragmodel.Domain{ragmodel.DomainFinanceTax, ragmodel.DomainHRLabor}, history)
	b := Key("query", []ragmodel.Domain{ragmodel.DomainHRLabor, ragmodel.DomainFinanceTax}, history)
	if a != b {
		t.Error("expected key to be independent of domain slice order")
	}
}

func TestKey_SensitiveToQueryAndHistory(t *testing.T) {
	base := Key("query a", nil, nil)
	other := Key("query b", nil, nil)
	if base == other {
		t.Error("expected different queries to produce different keys")
	}

	withHistory := Key("query a", nil, ragmodel.History{{Role: ragmodel.RoleUser, Content: "prior turn"}})
	if base == withHistory {
		t.Error("expected history to affect the cache key")
	}
}

func TestKey_OnlyLastThreeHistoryTurnsMatter(t *testing.T) {
	long := ragmodel.History{
		{Role: ragmodel.RoleUser, Content: "t1"},
		{Role: ragmodel.RoleAssistant, Content: "t2"},
		{Role: ragmodel.RoleUser, Content: "t3"},
		{Role: ragmodel.RoleAssistant, Content: "t4"},
	}
	trimmed := long[1:]
	if Key("q", nil, long) != Key("q", nil, trimmed) {
		t.Error("expected only the last 3 turns to affect the key")
	}
}

func TestMemoryCache_SetThenGet(t *testing.T) {
	c := NewMemoryCache(2, time.Hour)
	entry := &Entry{Generation: &ragmodel.Generation{Content: "answer"}}
	c.Set(context.Background(), "k1", entry)

	got, ok := c.Get(context.Background(), "k1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Generation.Content != "answer" {
		t.Errorf("got content %q", got.Generation.Content)
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, time.Hour)
	c.Set(context.Background(), "a", &Entry{})
	c.Set(context.Background(), "b", &Entry{})
	c.Get(context.Background(), "a") // a is now most-recently-used
	c.Set(context.Background(), "c", &Entry{})

	if _, ok := c.Get(context.Background(), "b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	if _, ok := c.Get(context.Background(), "a"); !ok {
		t.Error("expected a to survive eviction")
	}
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Set(context.Background(), "k", &Entry{})
	fakeNow = fakeNow.Add(2 * time.Minute)

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("expected entry to be expired")
	}
}

func TestNew_FallsBackToMemoryWhenRedisURLEmpty(t *testing.T) {
	cache := New("redis", 10, time.Hour, "", nil)
	if _, ok := cache.(*MemoryCache); !ok {
		t.Errorf("expected MemoryCache fallback, got %T", cache)
	}
}
