package storage

import (
	"context"
	"time"

	"github.com/dshills/chordid-mcp/pkg/types"
)

// Storage defines the interface for persisting and querying identification history
type Storage interface {
	// Identification operations
	RecordIdentification(ctx context.Context, rec *Identification) error
	GetIdentification(ctx context.Context, id string) (*Identification, error)
	ListIdentifications(ctx context.Context, filter ListFilter) ([]*Identification, error)
	ListByProgression(ctx context.Context, progressionID string) ([]*Identification, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (deletedCount int, err error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Identification is one recorded identification request
type Identification struct {
	ID             string  // UUID, assigned on record when empty
	ProgressionID  *string // Nullable - set for chords recorded as part of a progression
	Position       int     // Index within the progression
	Input          string
	InputHash      [32]byte
	Outcome        string
	Symbol         string // Top chord symbol, empty unless matched
	Quality        string
	SlashChord     string
	CandidateCount int
	PitchClasses   string // Comma-separated pitch classes in input order
	PreferFlats    bool
	CreatedAt      time.Time
}

// ListFilter narrows ListIdentifications
type ListFilter struct {
	Limit   int    // Maximum rows; <= 0 means DefaultListLimit
	Outcome string // Optional outcome filter
}

// DefaultListLimit is used when ListFilter.Limit is not positive
const DefaultListLimit = 20

// Status contains statistics about the history database
type Status struct {
	TotalIdentifications int
	DistinctInputs       int
	Progressions         int
	ByOutcome            map[string]int
	FirstAt              time.Time
	LastAt               time.Time
	DBSizeBytes          int64
	SchemaVersion        string
	Health               HealthStatus
}

// HealthStatus represents the health of the history database
type HealthStatus struct {
	DatabaseAccessible bool
	SchemaCurrent      bool
}

// FromTypesIdentification converts an identification into a history record
func FromTypesIdentification(id *types.Identification, inputHash [32]byte) *Identification {
	rec := &Identification{
		ID:             id.ID,
		Input:          id.Input,
		InputHash:      inputHash,
		Outcome:        string(id.Outcome),
		SlashChord:     id.SlashChord,
		CandidateCount: id.TotalCandidates,
		PitchClasses:   id.PitchClasses.String(),
		PreferFlats:    id.PreferFlats,
	}
	if top, ok := id.Top(); ok {
		rec.Symbol = top.Symbol(id.PreferFlats)
		rec.Quality = top.Quality
	}
	return rec
}
