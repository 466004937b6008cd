// Package pkg provides the core libraries for viewgraph ordering.
//
// # Overview
//
// Viewgraph places camera views on a line from pairwise relative measurements
// and flags the measurements that disagree with the computed ordering. The
// pkg directory is organized into these areas:
//
//  1. [viewgraph] - Domain types (graphs, orderings) and the greedy heuristic
//  2. [graph] - JSON serialization for graphs, orderings, and outlier reports
//  3. [pipeline] - Orchestration (order → classify → render)
//  4. [cache], [store], [config] - Infrastructure (caching, run storage, config)
//  5. [render] - Diagram generation (DOT, SVG, PNG)
//
// # Architecture
//
// The pipeline package ties the areas together: it hashes the input graph,
// consults the cache, runs the ordering and classification from
// [viewgraph/order], and renders diagrams through [render/dot]. The CLI and
// the HTTP API are thin layers over the same Runner.
package pkg
