// Package graph provides JSON import and export for view-graphs and
// ordering results.
//
// # Overview
//
// This package enables serialization of view-graphs to and from a simple
// JSON format. The format is designed for:
//
//   - Exchanging relative measurements with external reconstruction tools
//   - Caching of parsed measurement data for faster re-runs
//   - Round-trip preservation: import, order, export, and re-import identically
//
// # JSON Format
//
// A graph document has an optional "views" array and a required
// "measurements" array:
//
//	{
//	  "views": ["cam0", "cam1", "cam2"],
//	  "measurements": [
//	    {"from": "cam0", "to": "cam1", "weight": 1.0},
//	    {"from": "cam1", "to": "cam2", "weight": 0.5}
//	  ]
//	}
//
// When "views" is present it fixes the view iteration order, which the
// ordering heuristic uses for deterministic tie-breaking. When omitted,
// views are registered in order of first appearance in "measurements".
//
// # Import
//
// Use [ImportFile] to read a graph from a file path, or [Read] to read
// from any io.Reader:
//
//	g, err := graph.ImportFile("measurements.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate view identifiers and reject edges that reference
// views missing from an explicit "views" array. Errors are wrapped with
// context about which view or measurement caused the problem.
//
// # Export
//
// [ExportFile] and [Write] mirror the import functions for graphs.
// [WriteOrdering] and [WriteOutliers] serialize computed results; their
// documents are self-contained and sorted deterministically so identical
// inputs produce byte-identical output.
package graph
