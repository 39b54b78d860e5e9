// Package storage provides SQLite-based persistence for identification history.
//
// Every chord identification (and every chord of an identified progression)
// can be recorded as a row in the identifications table. The history feeds
// the chord_history and get_status tools; identification itself never reads
// from it.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migration versions (semver)
//   - identifications: One row per identification request
//
// Chords identified as part of a progression share a progression_id and carry
// their position within it.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.chordid/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	rec := storage.FromTypesIdentification(id, sha256.Sum256([]byte(input)))
//	if err := db.RecordIdentification(ctx, rec); err != nil {
//	    return err
//	}
//
//	recent, err := db.ListIdentifications(ctx, storage.ListFilter{Limit: 10})
//
// # Transactions
//
// Progressions are recorded atomically:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = tx.Rollback() }()
//
//	for _, rec := range recs {
//	    if err := tx.RecordIdentification(ctx, rec); err != nil {
//	        return err
//	    }
//	}
//	return tx.Commit()
//
// # Build Tags
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
package storage
