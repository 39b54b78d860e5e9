// Package mcp implements the Model Context Protocol (MCP) server for chord
// identification.
//
// The server exposes six tools to MCP clients:
//   - identify_chord: Name the chord spelled by a set of note names
//   - identify_progression: Name every chord of a '|'-separated progression
//   - list_chords: List catalog chord shapes, optionally on one root
//   - list_examples: Sample inputs for new users
//   - chord_history: Recent identifications, one by id, or one progression (requires history)
//   - get_status: Cache statistics, history counts and database health
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Logs go to stderr; stdout carries only protocol messages.
//
// # Tool: identify_chord
//
//	Request:
//	{
//	  "notes": "D F# A C",
//	  "format": "text"
//	}
//
//	Response:
//	1. D7  — dominant 7th (notes: C, D, F#, A)  — likely D/C
//
// Inputs that cannot be named are not errors: fewer than three distinct notes
// and unmatched interval sets return guidance text. With "format": "json" the
// response carries the ranked candidates, scores and pitch classes.
//
// # Tool: identify_progression
//
//	Request:
//	{"progression": "C E G | A C E | F A C | G B D F"}
//
//	Response:
//	{
//	  "summary": "C | Am | F | G7",
//	  "matched": 4,
//	  "total": 4,
//	  "chords": [{"position": 1, "input": "C E G", "symbol": "C", ...}, ...]
//	}
//
// # Error Codes
//
//   - -32602: Invalid parameters (bad format, limit, root or outcome)
//   - -32603: Internal error (storage failure)
//   - -32004: Empty notes or progression
//   - -32005: Progression has more chords than max_progression
//   - -32006: History requested while history is disabled
//   - -32007: Identification id not found
package mcp
