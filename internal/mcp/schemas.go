package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// identifyChordTool returns the tool definition for identify_chord
func identifyChordTool() mcp.Tool {
	return mcp.Tool{
		Name:        "identify_chord",
		Description: "Name the chord spelled by a set of note names (e.g. 'C E G' or 'Db, F, Ab, C')",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Note names A-G with optional #, b, ♯ or ♭, separated by spaces or commas. Octaves and order are ignored.",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Response format: text (ranked lines) or json (structured candidates)",
					"enum":        []string{formatText, formatJSONName},
					"default":     formatText,
				},
			},
			Required: []string{"notes"},
		},
	}
}

// identifyProgressionTool returns the tool definition for identify_progression
func identifyProgressionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "identify_progression",
		Description: "Name every chord of a progression; chords are separated by '|', ';' or newlines",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"progression": map[string]interface{}{
					"type":        "string",
					"description": "Chord groups, e.g. 'C E G | A C E | F A C | G B D F'",
				},
			},
			Required: []string{"progression"},
		},
	}
}

// listChordsTool returns the tool definition for list_chords
func listChordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_chords",
		Description: "List every chord shape the identifier knows, optionally on a single root",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"root": map[string]interface{}{
					"type":        "string",
					"description": "Optional root note (e.g. 'C', 'F#', 'Bb'); flat roots are spelled with flats",
				},
			},
		},
	}
}

// listExamplesTool returns the tool definition for list_examples
func listExamplesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_examples",
		Description: "List sample note inputs that identify_chord can name",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// chordHistoryTool returns the tool definition for chord_history
func chordHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chord_history",
		Description: "Show recent chord identifications (newest first), one identification by id, or the chords of one progression",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries to return (1-100)",
					"default":     defaultHistoryLimit,
					"minimum":     1,
					"maximum":     maxHistoryLimit,
				},
				"outcome": map[string]interface{}{
					"type":        "string",
					"description": "Only return identifications with this outcome",
					"enum":        []string{"matched", "unmatched", "insufficient_notes", "no_notes"},
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Return only the identification with this id",
				},
				"progression_id": map[string]interface{}{
					"type":        "string",
					"description": "Return the chords of this progression in order (see identify_progression)",
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report cache statistics, history counts and database health",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
