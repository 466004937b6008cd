// Package pipeline provides the core ordering pipeline for viewgraph.
//
// This package implements the complete order → classify → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Order: sign-normalize measurements and run the greedy ratio heuristic
//  2. Classify: accumulate outlier weight on measurements that disagree
//  3. Render: generate diagrams in various formats (DOT, SVG, PNG)
//
// Ordering and classification always run together; a result is only useful
// with its outlier report. Rendering is optional and runs per requested
// format.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/viewgraph/viewgraph/pkg/cache"
	"github.com/viewgraph/viewgraph/pkg/viewgraph"
	"github.com/viewgraph/viewgraph/pkg/viewgraph/order"
)

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// Options contains all configuration for the ordering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats           []string `json:"formats,omitempty"`
	HighlightOutliers bool     `json:"highlight_outliers,omitempty"`
	Detailed          bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger            `json:"-"`
	Trace  func(order.TraceEvent) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the input view-graph.
	Graph *viewgraph.Graph

	// GraphHash is the content hash of the canonical graph serialization.
	GraphHash string

	// Ordering assigns each view its computed position.
	Ordering viewgraph.Ordering

	// Outliers accumulates inconsistent weight per flagged measurement.
	Outliers viewgraph.OutlierWeights

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ViewCount    int
	EdgeCount    int
	OutlierCount int
	OutlierTotal float64
	OrderTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	OrderHit  bool // Whether the ordering and outlier report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:            format,
		HighlightOutliers: o.HighlightOutliers,
		Detailed:          o.Detailed,
	}
}
