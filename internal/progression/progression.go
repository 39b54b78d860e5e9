package progression

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/chordid-mcp/internal/identifier"
	"github.com/dshills/chordid-mcp/internal/logging"
	"github.com/dshills/chordid-mcp/internal/storage"
	"github.com/dshills/chordid-mcp/pkg/types"
)

// DefaultMaxChords bounds a progression when Config.MaxChords is not set
const DefaultMaxChords = 64

var (
	// ErrProgressionTooLong is returned when the text holds more chord groups than allowed
	ErrProgressionTooLong = errors.New("progression too long")
	// ErrEmptyProgression is returned when the text holds no chord groups
	ErrEmptyProgression = errors.New("progression is empty")
)

// Config contains configuration for the analyzer
type Config struct {
	Workers   int // Number of concurrent workers (default: runtime.NumCPU())
	MaxChords int // Maximum chord groups per progression (default: DefaultMaxChords)
}

// Chord is one identified group of a progression
type Chord struct {
	Position       int
	Input          string
	Identification *types.Identification
}

// Symbol returns the chord symbol, or "?" when the group did not match
func (c Chord) Symbol() string {
	if s := c.Identification.Symbol(); s != "" {
		return s
	}
	return "?"
}

// Result contains the identified chords in input order
type Result struct {
	ID       string // Shared history progression ID; empty when not recorded
	Chords   []Chord
	Summary  string
	Matched  int
	Duration time.Duration
}

// Analyzer identifies chord progressions: split -> identify -> record
type Analyzer struct {
	identifier *identifier.Identifier
	history    storage.Storage
	logger     logging.Logger

	// Worker pool configuration
	workers   int
	maxChords int
}

// New creates a new Analyzer. history may be nil.
func New(id *identifier.Identifier, history storage.Storage, config *Config, logger logging.Logger) *Analyzer {
	if config == nil {
		config = &Config{}
	}

	a := &Analyzer{
		identifier: id,
		history:    history,
		logger:     logging.OrNoOp(logger),
		workers:    config.Workers,
		maxChords:  config.MaxChords,
	}
	if a.workers <= 0 {
		a.workers = runtime.NumCPU()
	}
	if a.maxChords <= 0 {
		a.maxChords = DefaultMaxChords
	}
	return a
}

// Split breaks text into chord groups on '|', ';' and newlines. Blank groups
// are dropped and surrounding whitespace trimmed.
func Split(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '|' || r == ';' || r == '\n' || r == '\r'
	})

	groups := make([]string, 0, len(fields))
	for _, f := range fields {
		if g := strings.TrimSpace(f); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// Analyze identifies every chord group of text concurrently
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	startTime := time.Now()

	groups := Split(text)
	if len(groups) == 0 {
		return nil, ErrEmptyProgression
	}
	if len(groups) > a.maxChords {
		return nil, fmt.Errorf("%w: %d chords (max %d)", ErrProgressionTooLong, len(groups), a.maxChords)
	}

	chords := make([]Chord, len(groups))

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, group := range groups {
		g.Go(func() error {
			result, err := a.identifier.Identify(gctx, group, identifier.WithoutHistory())
			if err != nil {
				return fmt.Errorf("chord %d (%q): %w", i+1, group, err)
			}
			// Each goroutine owns exactly one slot
			chords[i] = Chord{Position: i, Input: group, Identification: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Chords:  chords,
		Summary: Summarize(chords),
	}
	for _, c := range chords {
		if c.Identification.Outcome == types.OutcomeMatched {
			res.Matched++
		}
	}

	if a.history != nil {
		res.ID = a.record(ctx, chords)
	}

	res.Duration = time.Since(startTime)
	a.logger.Debug("progression identified", logging.Fields{
		"chords":  len(chords),
		"matched": res.Matched,
		"summary": res.Summary,
	})
	return res, nil
}

// record writes every chord in one transaction and returns the progression
// ID, or "" when recording failed. Failures are logged only.
func (a *Analyzer) record(ctx context.Context, chords []Chord) string {
	progressionID := uuid.NewString()

	err := func() error {
		tx, err := a.history.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, c := range chords {
			rec := storage.FromTypesIdentification(c.Identification, identifier.HashInput(c.Input))
			rec.ProgressionID = &progressionID
			rec.Position = c.Position
			if err := tx.RecordIdentification(ctx, rec); err != nil {
				return fmt.Errorf("chord %d: %w", c.Position+1, err)
			}
			c.Identification.ID = rec.ID
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}()
	if err != nil {
		a.logger.Error(err, "failed to record progression", logging.Fields{"chords": len(chords)})
		for _, c := range chords {
			c.Identification.ID = ""
		}
		return ""
	}
	return progressionID
}

// Summarize renders the chord symbols on one line, e.g. "C | Am | F | G7"
func Summarize(chords []Chord) string {
	symbols := make([]string, len(chords))
	for i, c := range chords {
		symbols[i] = c.Symbol()
	}
	return strings.Join(symbols, " | ")
}

// Text renders the summary followed by one block per chord
func (r *Result) Text() string {
	var b strings.Builder
	b.WriteString(r.Summary)
	for _, c := range r.Chords {
		fmt.Fprintf(&b, "\n\n[%d] %s\n%s", c.Position+1, c.Input, c.Identification.Text)
	}
	return b.String()
}
