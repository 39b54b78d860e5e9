package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

const identificationColumns = `id, progression_id, position, input_text, input_hash, outcome,
	symbol, quality, slash_chord, candidate_count, pitch_classes, prefer_flats, created_at`

// Identification operations

// recordIdentificationWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) recordIdentificationWithQuerier(ctx context.Context, q querier, rec *Identification) error {
	if rec.Outcome == "" {
		return fmt.Errorf("identification outcome is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := q.ExecContext(ctx, `
		INSERT INTO identifications (`+identificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ProgressionID, rec.Position, rec.Input, rec.InputHash[:], rec.Outcome,
		rec.Symbol, rec.Quality, rec.SlashChord, rec.CandidateCount, rec.PitchClasses,
		rec.PreferFlats, rec.CreatedAt.UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("identification %s: %w", rec.ID, ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// RecordIdentification stores a history record, assigning an ID and timestamp when unset
func (s *SQLiteStorage) RecordIdentification(ctx context.Context, rec *Identification) error {
	return s.recordIdentificationWithQuerier(ctx, s.querier(), rec)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIdentification(row rowScanner) (*Identification, error) {
	rec := &Identification{}
	var progressionID, symbol, quality, slash, pitchClasses sql.NullString
	var hash []byte
	var createdAt int64
	err := row.Scan(&rec.ID, &progressionID, &rec.Position, &rec.Input, &hash, &rec.Outcome,
		&symbol, &quality, &slash, &rec.CandidateCount, &pitchClasses, &rec.PreferFlats, &createdAt)
	if err != nil {
		return nil, err
	}

	if progressionID.Valid {
		rec.ProgressionID = &progressionID.String
	}
	copy(rec.InputHash[:], hash)
	rec.Symbol = symbol.String
	rec.Quality = quality.String
	rec.SlashChord = slash.String
	rec.PitchClasses = pitchClasses.String
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, nil
}

// getIdentificationWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getIdentificationWithQuerier(ctx context.Context, q querier, id string) (*Identification, error) {
	row := q.QueryRowContext(ctx, `SELECT `+identificationColumns+` FROM identifications WHERE id = ?`, id)
	rec, err := scanIdentification(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetIdentification retrieves a history record by ID
func (s *SQLiteStorage) GetIdentification(ctx context.Context, id string) (*Identification, error) {
	return s.getIdentificationWithQuerier(ctx, s.querier(), id)
}

func collectIdentifications(rows *sql.Rows) ([]*Identification, error) {
	defer func() { _ = rows.Close() }()

	var recs []*Identification
	for rows.Next() {
		rec, err := scanIdentification(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// listIdentificationsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listIdentificationsWithQuerier(ctx context.Context, q querier, filter ListFilter) ([]*Identification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + identificationColumns + ` FROM identifications`
	args := []interface{}{}
	if filter.Outcome != "" {
		query += ` WHERE outcome = ?`
		args = append(args, filter.Outcome)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectIdentifications(rows)
}

// ListIdentifications returns the most recent history records, newest first
func (s *SQLiteStorage) ListIdentifications(ctx context.Context, filter ListFilter) ([]*Identification, error) {
	return s.listIdentificationsWithQuerier(ctx, s.querier(), filter)
}

// listByProgressionWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listByProgressionWithQuerier(ctx context.Context, q querier, progressionID string) ([]*Identification, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+identificationColumns+` FROM identifications
		WHERE progression_id = ?
		ORDER BY position ASC
	`, progressionID)
	if err != nil {
		return nil, err
	}
	return collectIdentifications(rows)
}

// ListByProgression returns the chords of one progression in position order
func (s *SQLiteStorage) ListByProgression(ctx context.Context, progressionID string) ([]*Identification, error) {
	return s.listByProgressionWithQuerier(ctx, s.querier(), progressionID)
}

// deleteBeforeWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteBeforeWithQuerier(ctx context.Context, q querier, cutoff time.Time) (int, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM identifications WHERE created_at < ?", cutoff.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteBefore removes history records created before cutoff
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.deleteBeforeWithQuerier(ctx, s.querier(), cutoff)
}

// Status operations

// getStatusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*Status, error) {
	status := &Status{ByOutcome: make(map[string]int)}

	err := q.QueryRowContext(ctx, "SELECT COUNT(*), COUNT(DISTINCT input_hash) FROM identifications").
		Scan(&status.TotalIdentifications, &status.DistinctInputs)
	if err != nil {
		return nil, err
	}

	err = q.QueryRowContext(ctx, "SELECT COUNT(DISTINCT progression_id) FROM identifications WHERE progression_id IS NOT NULL").
		Scan(&status.Progressions)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM identifications GROUP BY outcome")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			_ = rows.Close()
			return nil, err
		}
		status.ByOutcome[outcome] = n
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	if status.TotalIdentifications > 0 {
		var first, last int64
		if err := q.QueryRowContext(ctx, "SELECT created_at FROM identifications ORDER BY created_at ASC LIMIT 1").Scan(&first); err != nil {
			return nil, err
		}
		if err := q.QueryRowContext(ctx, "SELECT created_at FROM identifications ORDER BY created_at DESC LIMIT 1").Scan(&last); err != nil {
			return nil, err
		}
		status.FirstAt = time.Unix(0, first).UTC()
		status.LastAt = time.Unix(0, last).UTC()
	}

	// Calculate database size
	var pageCount, pageSize int64
	err = q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		err = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		if err == nil {
			status.DBSizeBytes = pageCount * pageSize
		}
	}

	version, err := SchemaVersion(ctx, q)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version
	status.Health = HealthStatus{
		DatabaseAccessible: true,
		SchemaCurrent:      version == CurrentSchemaVersion,
	}

	return status, nil
}

// GetStatus returns statistics about the history database
func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	return s.getStatusWithQuerier(ctx, s.querier())
}

// Transaction forwarding methods

func (t *sqliteTx) RecordIdentification(ctx context.Context, rec *Identification) error {
	return t.storage.recordIdentificationWithQuerier(ctx, t.querier(), rec)
}

func (t *sqliteTx) GetIdentification(ctx context.Context, id string) (*Identification, error) {
	return t.storage.getIdentificationWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) ListIdentifications(ctx context.Context, filter ListFilter) ([]*Identification, error) {
	return t.storage.listIdentificationsWithQuerier(ctx, t.querier(), filter)
}

func (t *sqliteTx) ListByProgression(ctx context.Context, progressionID string) ([]*Identification, error) {
	return t.storage.listByProgressionWithQuerier(ctx, t.querier(), progressionID)
}

func (t *sqliteTx) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return t.storage.deleteBeforeWithQuerier(ctx, t.querier(), cutoff)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*Status, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions not supported")
}
