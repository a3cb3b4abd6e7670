package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubLookup struct {
	nodes map[string]Node
	err   error
	calls [][]string
}

func (s *stubLookup) NodesByID(ctx context.Context, ids []string) (map[string]Node, error) {
	s.calls = append(s.calls, ids)
	if s.err != nil {
		return nil, s.err
	}
	return s.nodes, nil
}

type stubCache struct {
	entries map[string]string
	getErr  error
	sets    map[string]string
}

func (s *stubCache) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := map[string]string{}
	for _, key := range keys {
		if val, ok := s.entries[key]; ok {
			out[key] = val
		}
	}
	return out, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.sets == nil {
		s.sets = map[string]string{}
	}
	s.sets[key] = value.(string)
	return nil
}

func (s *stubCache) CatalogKey(ref string) string {
	return "wl:catalog:" + ref
}

func TestHydrateDeduplicatesAndBatchesOnce(t *testing.T) {
	lookup := &stubLookup{nodes: map[string]Node{
		"gid://v/1": {ID: "gid://v/1", Title: "Shirt"},
		"gid://v/2": {ID: "gid://v/2", Title: "Hat"},
	}}
	h := NewHydrator(HydratorParams{Client: lookup})

	records := h.Hydrate(context.Background(), []string{"gid://v/1", "gid://v/2", "gid://v/1", ""})

	if len(lookup.calls) != 1 {
		t.Fatalf("expected exactly one batched lookup, got %d", len(lookup.calls))
	}
	if len(lookup.calls[0]) != 2 {
		t.Fatalf("expected deduped batch of 2, got %v", lookup.calls[0])
	}
	if records["gid://v/1"].Title != "Shirt" || records["gid://v/2"].Title != "Hat" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestHydrateDegradesToPlaceholdersOnTotalFailure(t *testing.T) {
	lookup := &stubLookup{err: errors.New("upstream down")}
	h := NewHydrator(HydratorParams{Client: lookup})

	records := h.Hydrate(context.Background(), []string{"gid://v/1", "gid://v/2"})

	if len(records) != 2 {
		t.Fatalf("expected a record per ref, got %d", len(records))
	}
	for ref, record := range records {
		if !record.Placeholder {
			t.Fatalf("expected placeholder for %s, got %+v", ref, record)
		}
		if record.Ref != ref {
			t.Fatalf("expected ref to round-trip, got %+v", record)
		}
	}
}

func TestHydrateRendersMissingRefsAsPlaceholders(t *testing.T) {
	lookup := &stubLookup{nodes: map[string]Node{
		"gid://v/1": {ID: "gid://v/1", Title: "Shirt"},
	}}
	h := NewHydrator(HydratorParams{Client: lookup})

	records := h.Hydrate(context.Background(), []string{"gid://v/1", "gid://v/deleted"})

	if records["gid://v/1"].Placeholder {
		t.Fatal("expected resolved ref not to be a placeholder")
	}
	missing := records["gid://v/deleted"]
	if !missing.Placeholder || missing.Ref != "gid://v/deleted" {
		t.Fatalf("expected placeholder for deleted ref, got %+v", missing)
	}
}

func TestHydrateServesCacheHitsWithoutLookup(t *testing.T) {
	cached, _ := json.Marshal(DisplayRecord{Ref: "gid://v/1", Title: "Cached Shirt"})
	cache := &stubCache{entries: map[string]string{"wl:catalog:gid://v/1": string(cached)}}
	lookup := &stubLookup{nodes: map[string]Node{}}
	h := NewHydrator(HydratorParams{Client: lookup, Cache: cache, CacheTTL: time.Minute})

	records := h.Hydrate(context.Background(), []string{"gid://v/1"})

	if len(lookup.calls) != 0 {
		t.Fatalf("expected no lookup for full cache hit, got %d", len(lookup.calls))
	}
	if records["gid://v/1"].Title != "Cached Shirt" {
		t.Fatalf("unexpected record %+v", records["gid://v/1"])
	}
}

func TestHydrateFillsCacheOnLookup(t *testing.T) {
	cache := &stubCache{entries: map[string]string{}}
	lookup := &stubLookup{nodes: map[string]Node{
		"gid://v/1": {ID: "gid://v/1", Title: "Shirt"},
	}}
	h := NewHydrator(HydratorParams{Client: lookup, Cache: cache, CacheTTL: time.Minute})

	h.Hydrate(context.Background(), []string{"gid://v/1"})

	if _, ok := cache.sets["wl:catalog:gid://v/1"]; !ok {
		t.Fatalf("expected resolved record to be cached, sets: %v", cache.sets)
	}
}

func TestHydrateTreatsCacheFailureAsMisses(t *testing.T) {
	cache := &stubCache{getErr: errors.New("redis down")}
	lookup := &stubLookup{nodes: map[string]Node{
		"gid://v/1": {ID: "gid://v/1", Title: "Shirt"},
	}}
	h := NewHydrator(HydratorParams{Client: lookup, Cache: cache, CacheTTL: time.Minute})

	records := h.Hydrate(context.Background(), []string{"gid://v/1"})

	if len(lookup.calls) != 1 {
		t.Fatalf("expected lookup despite cache failure, got %d calls", len(lookup.calls))
	}
	if records["gid://v/1"].Title != "Shirt" {
		t.Fatalf("unexpected record %+v", records["gid://v/1"])
	}
}
