package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/multierr"

	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
	"github.com/wishlisted-app/wishlisted-backend/pkg/metrics"
)

// DisplayRecord is the read-time join of a stored reference with live
// catalog data. Placeholder records carry only the reference; the UI
// renders them with fallback copy instead of dropping the item.
type DisplayRecord struct {
	Ref          string `json:"ref"`
	Title        string `json:"title,omitempty"`
	VariantTitle string `json:"variant_title,omitempty"`
	Handle       string `json:"handle,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Price        *Money `json:"price,omitempty"`
	Placeholder  bool   `json:"placeholder"`
}

type lookupClient interface {
	NodesByID(ctx context.Context, ids []string) (map[string]Node, error)
}

type displayCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(ref string) string
}

// Hydrator batches catalog references into one external lookup per call,
// fronted by a short-TTL display cache. It performs no writes to the
// collection store and never fails the surrounding read: upstream
// failures degrade to placeholder records.
type Hydrator struct {
	client  lookupClient
	cache   displayCache
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

// HydratorParams groups dependencies for the hydrator.
type HydratorParams struct {
	Client   lookupClient
	Cache    displayCache
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.CatalogMetrics
}

func NewHydrator(params HydratorParams) *Hydrator {
	return &Hydrator{
		client:  params.Client,
		cache:   params.Cache,
		ttl:     params.CacheTTL,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
}

// Hydrate resolves the distinct reference set into display records. Every
// requested ref is present in the result; refs the catalog no longer
// knows come back as placeholders.
func (h *Hydrator) Hydrate(ctx context.Context, refs []string) map[string]DisplayRecord {
	distinct := dedup(refs)
	records := make(map[string]DisplayRecord, len(distinct))
	if len(distinct) == 0 {
		return records
	}

	var errs error

	misses := distinct
	if h.cache != nil {
		cached, missed, err := h.fromCache(ctx, distinct)
		errs = multierr.Append(errs, err)
		for ref, record := range cached {
			records[ref] = record
		}
		misses = missed
	}

	if len(misses) > 0 {
		errs = multierr.Append(errs, h.lookup(ctx, misses, records))
	}

	if errs != nil && h.logg != nil {
		h.logg.Warn(h.logg.WithField(ctx, "error", errs.Error()), "catalog hydration degraded")
	}
	return records
}

func (h *Hydrator) fromCache(ctx context.Context, refs []string) (map[string]DisplayRecord, []string, error) {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = h.cache.CatalogKey(ref)
	}

	cached, err := h.cache.GetMany(ctx, keys)
	if err != nil {
		// Cache unavailability is not fatal; everything becomes a miss.
		return nil, refs, err
	}

	hits := make(map[string]DisplayRecord)
	misses := make([]string, 0, len(refs))
	for i, ref := range refs {
		raw, ok := cached[keys[i]]
		if !ok {
			misses = append(misses, ref)
			continue
		}
		var record DisplayRecord
		if unmarshalErr := json.Unmarshal([]byte(raw), &record); unmarshalErr != nil {
			misses = append(misses, ref)
			continue
		}
		hits[ref] = record
	}
	return hits, misses, nil
}

// lookup issues the single batched catalog query and merges the results.
// On total failure every miss degrades to a placeholder.
func (h *Hydrator) lookup(ctx context.Context, refs []string, records map[string]DisplayRecord) error {
	nodes, err := h.client.NodesByID(ctx, refs)
	if err != nil {
		h.metrics.IncLookup("failure")
		for _, ref := range refs {
			records[ref] = DisplayRecord{Ref: ref, Placeholder: true}
		}
		return err
	}
	h.metrics.IncLookup("success")

	var cacheErrs error
	for _, ref := range refs {
		node, ok := nodes[ref]
		if !ok {
			records[ref] = DisplayRecord{Ref: ref, Placeholder: true}
			continue
		}
		record := DisplayRecord{
			Ref:          ref,
			Title:        node.Title,
			VariantTitle: node.VariantTitle,
			Handle:       node.Handle,
			ImageURL:     node.ImageURL,
			Price:        node.Price,
		}
		records[ref] = record
		cacheErrs = multierr.Append(cacheErrs, h.store(ctx, ref, record))
	}
	return cacheErrs
}

func (h *Hydrator) store(ctx context.Context, ref string, record DisplayRecord) error {
	if h.cache == nil || h.ttl <= 0 {
		return nil
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return h.cache.Set(ctx, h.cache.CatalogKey(ref), string(encoded), h.ttl)
}

func dedup(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
