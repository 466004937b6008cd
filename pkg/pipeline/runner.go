package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/viewgraph/viewgraph/pkg/cache"
	"github.com/viewgraph/viewgraph/pkg/graph"
	"github.com/viewgraph/viewgraph/pkg/observability"
	"github.com/viewgraph/viewgraph/pkg/render/dot"
	"github.com/viewgraph/viewgraph/pkg/viewgraph"
	"github.com/viewgraph/viewgraph/pkg/viewgraph/order"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// cachedResult is the serialized form of an ordering stage result.
type cachedResult struct {
	Sequence []string            `json:"sequence"`
	Outliers []graph.OutlierEdge `json:"outliers"`
}

// Execute runs the complete order → classify → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g *viewgraph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Graph:     g,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.ViewCount = g.ViewCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.GraphHash = GraphHash(g)

	// Stage 1+2: Order and classify
	orderStart := time.Now()
	observability.Ordering().OnOrderStart(ctx, g.ViewCount(), g.EdgeCount())
	ord, outliers, orderHit, err := r.OrderWithCacheInfo(ctx, g, opts)
	result.Stats.OrderTime = time.Since(orderStart)
	observability.Ordering().OnOrderComplete(ctx, g.ViewCount(), result.Stats.OrderTime, err)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	result.Ordering = ord
	result.Outliers = outliers
	result.CacheInfo.OrderHit = orderHit
	result.Stats.OutlierCount = len(outliers)
	result.Stats.OutlierTotal = outliers.Total()
	observability.Ordering().OnClassifyComplete(ctx, len(outliers), outliers.Total(), nil)

	opts.Logger.Info("ordered views",
		"views", g.ViewCount(),
		"edges", g.EdgeCount(),
		"outliers", len(outliers),
		"cached", orderHit,
		"duration", result.Stats.OrderTime)

	// Stage 3: Render (optional)
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, ord, outliers, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.CacheInfo.RenderHit = renderHit

		opts.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"cached", renderHit,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// OrderWithCacheInfo runs the ordering and classification stages with
// caching and returns cache hit info.
//
// When a trace callback is set the cache is bypassed: the point of tracing
// is to observe the selection loop, and a cached result has no rounds to
// replay.
func (r *Runner) OrderWithCacheInfo(ctx context.Context, g *viewgraph.Graph, opts Options) (viewgraph.Ordering, viewgraph.OutlierWeights, bool, error) {
	cacheKey := r.Keyer.OrderingKey(GraphHash(g))
	useCache := !opts.Refresh && opts.Trace == nil

	if useCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if ord, outliers, err := decodeResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "ordering")
				return ord, outliers, true, nil
			}
			// Corrupt entry, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "ordering")
	}

	ord, outliers, err := r.run(g, opts)
	if err != nil {
		return nil, nil, false, err
	}

	if useCache {
		if data, err := encodeResult(ord, outliers); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "ordering", len(data))
			}
		}
	}

	return ord, outliers, false, nil
}

// Order is a convenience wrapper that calls OrderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Order(ctx context.Context, g *viewgraph.Graph, opts Options) (viewgraph.Ordering, viewgraph.OutlierWeights, error) {
	ord, outliers, _, err := r.OrderWithCacheInfo(ctx, g, opts)
	return ord, outliers, err
}

// run executes the heuristic on a sign-normalized copy of the measurements.
func (r *Runner) run(g *viewgraph.Graph, opts Options) (viewgraph.Ordering, viewgraph.OutlierWeights, error) {
	edges, weights := g.Measurements()
	if err := order.FlipNegativeEdges(edges, weights); err != nil {
		return nil, nil, err
	}

	orderer := order.Orderer{Trace: opts.Trace}
	ord, err := orderer.Order(edges, weights, g.Views())
	if err != nil {
		return nil, nil, err
	}

	outliers, err := order.OutlierWeights(edges, weights, ord)
	if err != nil {
		return nil, nil, err
	}
	return ord, outliers, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *viewgraph.Graph, ord viewgraph.Ordering, outliers viewgraph.OutlierWeights, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphHash := GraphHash(g)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	dotOpts := dot.Options{
		HighlightOutliers: opts.HighlightOutliers,
		Detailed:          opts.Detailed,
	}
	dotStr := dot.ToDOT(g, ord, outliers, dotOpts)
	for _, format := range opts.Formats {
		observability.Ordering().OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderFormat(dotStr, format)
		observability.Ordering().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	if !opts.Refresh {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, r.TTL)
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash computes the content hash of a graph's canonical JSON
// serialization. Identical view and measurement sequences hash identically.
func GraphHash(g *viewgraph.Graph) string {
	data, _ := json.Marshal(graph.ToDocument(g))
	return cache.Hash(data)
}

func renderFormat(dotStr, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dotStr), nil
	case FormatSVG:
		return dot.RenderSVG(dotStr)
	case FormatPNG:
		return dot.RenderPNG(dotStr)
	default:
		return nil, ValidateFormat(format)
	}
}

func encodeResult(ord viewgraph.Ordering, outliers viewgraph.OutlierWeights) ([]byte, error) {
	doc, err := graph.NewOrderingDocument(ord)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cachedResult{
		Sequence: doc.Sequence,
		Outliers: graph.NewOutlierReport(outliers).Outliers,
	})
}

func decodeResult(data []byte) (viewgraph.Ordering, viewgraph.OutlierWeights, error) {
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil, err
	}

	doc := graph.OrderingDocument{Sequence: cached.Sequence}
	ord, err := doc.Ordering()
	if err != nil {
		return nil, nil, err
	}

	outliers := make(viewgraph.OutlierWeights, len(cached.Outliers))
	for _, o := range cached.Outliers {
		e := viewgraph.Edge{From: viewgraph.ViewID(o.From), To: viewgraph.ViewID(o.To)}
		outliers[e] = o.Weight
	}
	return ord, outliers, nil
}
