package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"nadlan_mcp/internal/app"
	"nadlan_mcp/internal/domain"
)

// ---- fakes ----

type fakeCache struct {
	store map[string]any
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, isOut := dst.(*app.CallOutput); isOut {
		*d = v.(app.CallOutput)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

// ---- tests ----

func TestServiceCallMissThenHit(t *testing.T) {
	cache := &fakeCache{}
	svc := app.NewService(app.NewEngine(fixture()), cache, 10*time.Minute)

	req := domain.SearchRequest{QueryText: "show me flats", Limit: 3}

	// miss populates the cache
	out, err := svc.Call(context.Background(), req)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Mode != "listings" || out.Text == "" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// poison the cached value to prove the second read comes from the cache
	for k := range cache.store {
		cache.store[k] = app.CallOutput{Mode: "listings", Text: "CACHED"}
	}
	out2, err := svc.Call(context.Background(), req)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out2.Text != "CACHED" {
		t.Fatalf("expected cached text, got fresh render")
	}
}

func TestServiceCallDistinctRequestsDistinctKeys(t *testing.T) {
	cache := &fakeCache{}
	svc := app.NewService(app.NewEngine(fixture()), cache, time.Minute)

	if _, err := svc.Call(context.Background(), domain.SearchRequest{MaxPrice: 1_000_000}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := svc.Call(context.Background(), domain.SearchRequest{MaxPrice: 2_000_000}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if cache.sets != 2 {
		t.Fatalf("cache sets = %d, want 2 distinct entries", cache.sets)
	}
}

func TestServiceCallNilCache(t *testing.T) {
	svc := app.NewService(app.NewEngine(fixture()), nil, time.Minute)
	out, err := svc.Call(context.Background(), domain.SearchRequest{QueryText: "analyze average prices"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Mode != "data" || !strings.Contains(out.Text, "total_found") {
		t.Fatalf("unexpected data output: %+v", out)
	}
}
