package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/chordid-mcp/internal/catalog"
	"github.com/dshills/chordid-mcp/internal/identifier"
	"github.com/dshills/chordid-mcp/internal/parser"
	"github.com/dshills/chordid-mcp/internal/progression"
	"github.com/dshills/chordid-mcp/internal/storage"
	"github.com/dshills/chordid-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams       = -32602 // Invalid method parameters
	ErrorCodeInternalError       = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery          = -32004 // Notes or progression parameter is empty
	ErrorCodeProgressionTooLong  = -32005 // Progression has more chords than allowed
	ErrorCodeHistoryNotAvailable = -32006 // History is disabled in the configuration
	ErrorCodeNotFound            = -32007 // Requested identification does not exist
)

const (
	formatText     = "text"
	formatJSONName = "json"

	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// handleIdentifyChord handles the identify_chord tool invocation
func (s *Server) handleIdentifyChord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}

	notes, ok := args["notes"].(string)
	if !ok || strings.TrimSpace(notes) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "notes parameter is required and cannot be empty", map[string]interface{}{
			"param":  "notes",
			"reason": "missing or empty",
		})
	}

	format := getStringDefault(args, "format", formatText)
	if format != formatText && format != formatJSONName {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"value":   format,
			"allowed": []string{formatText, formatJSONName},
		})
	}

	result, err := s.identifier.Identify(ctx, notes)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "identification failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if format == formatText {
		return mcp.NewToolResultText(result.Text), nil
	}
	return mcp.NewToolResultText(formatJSON(identificationJSON(result))), nil
}

// handleIdentifyProgression handles the identify_progression tool invocation
func (s *Server) handleIdentifyProgression(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}

	text, _ := args["progression"].(string)

	res, err := s.progression.Analyze(ctx, text)
	switch {
	case errors.Is(err, progression.ErrEmptyProgression):
		return nil, newMCPError(ErrorCodeEmptyQuery, "progression parameter is required and cannot be empty", map[string]interface{}{
			"param":  "progression",
			"reason": "missing or empty",
		})
	case errors.Is(err, progression.ErrProgressionTooLong):
		return nil, newMCPError(ErrorCodeProgressionTooLong, "progression has too many chords", map[string]interface{}{
			"param":  "progression",
			"chords": len(progression.Split(text)),
			"reason": err.Error(),
		})
	case err != nil:
		return nil, newMCPError(ErrorCodeInternalError, "progression identification failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chords := make([]map[string]interface{}, len(res.Chords))
	for i, c := range res.Chords {
		chord := map[string]interface{}{
			"position": c.Position + 1,
			"input":    c.Input,
			"outcome":  string(c.Identification.Outcome),
			"symbol":   c.Symbol(),
			"text":     c.Identification.Text,
		}
		if top, ok := c.Identification.Top(); ok {
			chord["quality"] = top.Quality
		}
		if c.Identification.SlashChord != "" {
			chord["slash_chord"] = c.Identification.SlashChord
		}
		chords[i] = chord
	}

	response := map[string]interface{}{
		"summary":     res.Summary,
		"chords":      chords,
		"matched":     res.Matched,
		"total":       len(res.Chords),
		"duration_ms": res.Duration.Milliseconds(),
	}
	if res.ID != "" {
		response["progression_id"] = res.ID
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListChords handles the list_chords tool invocation
func (s *Server) handleListChords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}

	voicings := catalog.Voicings()
	preferFlats := false

	if root := strings.TrimSpace(getStringDefault(args, "root", "")); root != "" {
		pc, ok := parser.Lookup(root)
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid root", map[string]interface{}{
				"param":  "root",
				"value":  root,
				"reason": "expected a note name such as C, F# or Bb",
			})
		}
		voicings = catalog.VoicingsForRoot(pc)
		normalized := parser.NormalizeToken(root)
		preferFlats = len(normalized) > 1 && normalized[1] == 'b'
	}

	chords := make([]map[string]interface{}, len(voicings))
	for i, v := range voicings {
		t := v.Shape.Template()
		notes := make([]string, len(v.PitchClasses))
		for j, pc := range v.PitchClasses {
			notes[j] = pc.Name(preferFlats)
		}
		chords[i] = map[string]interface{}{
			"name":    v.Root.Name(preferFlats) + t.Suffix,
			"quality": t.Quality,
			"notes":   strings.Join(notes, " "),
		}
	}

	response := map[string]interface{}{
		"count":  len(chords),
		"chords": chords,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListExamples handles the list_examples tool invocation
func (s *Server) handleListExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"examples": identifier.Examples(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChordHistory handles the chord_history tool invocation
func (s *Server) handleChordHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		return nil, newMCPError(ErrorCodeHistoryNotAvailable, "history is disabled", map[string]interface{}{
			"reason": "set history_enabled = true in the configuration",
		})
	}

	id := strings.TrimSpace(getStringDefault(args, "id", ""))
	progressionID := strings.TrimSpace(getStringDefault(args, "progression_id", ""))
	if id != "" && progressionID != "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id and progression_id are mutually exclusive", map[string]interface{}{
			"param": "id",
		})
	}

	var recs []*storage.Identification
	switch {
	case id != "":
		rec, err := s.storage.GetIdentification(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "identification not found", map[string]interface{}{
				"param": "id",
				"value": id,
			})
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get identification", map[string]interface{}{
				"error": err.Error(),
			})
		}
		recs = []*storage.Identification{rec}

	case progressionID != "":
		recs, err = s.storage.ListByProgression(ctx, progressionID)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to list progression", map[string]interface{}{
				"error": err.Error(),
			})
		}

	default:
		recs, err = s.listRecentHistory(ctx, args)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]map[string]interface{}, len(recs))
	for i, rec := range recs {
		entries[i] = historyEntry(rec)
	}

	response := map[string]interface{}{
		"count":           len(entries),
		"identifications": entries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// listRecentHistory applies the limit and outcome arguments of chord_history
func (s *Server) listRecentHistory(ctx context.Context, args map[string]interface{}) ([]*storage.Identification, error) {
	// Parse optional parameters
	limit := getIntDefault(args, "limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	outcome := getStringDefault(args, "outcome", "")
	if outcome != "" {
		if err := types.Outcome(outcome).Validate(); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid outcome", map[string]interface{}{
				"param":   "outcome",
				"value":   outcome,
				"allowed": []string{"matched", "unmatched", "insufficient_notes", "no_notes"},
			})
		}
	}

	recs, err := s.storage.ListIdentifications(ctx, storage.ListFilter{Limit: limit, Outcome: outcome})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list history", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return recs, nil
}

// historyEntry is the JSON form of one history record
func historyEntry(rec *storage.Identification) map[string]interface{} {
	entry := map[string]interface{}{
		"id":         rec.ID,
		"input":      rec.Input,
		"outcome":    rec.Outcome,
		"candidates": rec.CandidateCount,
		"created_at": rec.CreatedAt.Format(time.RFC3339),
		"age":        humanize.Time(rec.CreatedAt),
	}
	if rec.Symbol != "" {
		entry["symbol"] = rec.Symbol
		entry["quality"] = rec.Quality
	}
	if rec.SlashChord != "" {
		entry["slash_chord"] = rec.SlashChord
	}
	if rec.ProgressionID != nil {
		entry["progression_id"] = *rec.ProgressionID
		entry["position"] = rec.Position + 1
	}
	return entry
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.identifier.Stats()

	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":       ServerName,
			"version":    ServerVersion,
			"build_mode": storage.BuildMode,
			"driver":     storage.DriverName,
			"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		},
		"cache": map[string]interface{}{
			"hits":     stats.CacheHits,
			"misses":   stats.CacheMisses,
			"size":     stats.CacheSize,
			"capacity": stats.CacheCap,
			"hit_rate": fmt.Sprintf("%.2f", stats.HitRate()),
		},
	}

	if s.storage == nil {
		response["history"] = map[string]interface{}{"enabled": false}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	history := map[string]interface{}{
		"enabled":               true,
		"total_identifications": status.TotalIdentifications,
		"distinct_inputs":       status.DistinctInputs,
		"progressions":          status.Progressions,
		"by_outcome":            status.ByOutcome,
		"db_size":               humanize.Bytes(uint64(status.DBSizeBytes)),
		"schema_version":        status.SchemaVersion,
	}
	if !status.LastAt.IsZero() {
		history["first_at"] = status.FirstAt.Format(time.RFC3339)
		history["last_at"] = status.LastAt.Format(time.RFC3339)
		history["last_activity"] = humanize.Time(status.LastAt)
	}
	response["history"] = history
	response["health"] = map[string]interface{}{
		"database_accessible": status.Health.DatabaseAccessible,
		"schema_current":      status.Health.SchemaCurrent,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// identificationJSON is the structured form of an identify_chord answer
func identificationJSON(id *types.Identification) map[string]interface{} {
	candidates := make([]map[string]interface{}, len(id.Candidates))
	for i, c := range id.Candidates {
		candidates[i] = map[string]interface{}{
			"rank":    c.Rank,
			"symbol":  c.Symbol(id.PreferFlats),
			"root":    c.Root.Name(id.PreferFlats),
			"quality": c.Quality,
			"suffix":  c.Suffix,
			"extras":  c.Extras,
			"score":   c.Score,
		}
	}

	response := map[string]interface{}{
		"input":            id.Input,
		"outcome":          string(id.Outcome),
		"notes":            id.PitchClasses.Spell(id.PreferFlats),
		"pitch_classes":    id.PitchClasses,
		"prefer_flats":     id.PreferFlats,
		"candidates":       candidates,
		"total_candidates": id.TotalCandidates,
		"text":             id.Text,
		"cache_hit":        id.CacheHit,
	}
	if len(id.Intervals) > 0 {
		response["intervals"] = id.Intervals.String()
	}
	if id.SlashChord != "" {
		response["slash_chord"] = id.SlashChord
	}
	if id.ID != "" {
		response["id"] = id.ID
	}
	return response
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// argsOf returns the request arguments; tools without required parameters
// may be called with none
func argsOf(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
