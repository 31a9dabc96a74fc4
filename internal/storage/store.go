// Package storage keeps a queryable history of batch runs in SQLite:
// one row per run plus the per-profile results, so past coverage
// computations can be inspected and rendered without re-running the
// model. The file exports remain the pipeline's primary artifacts;
// this store is the secondary, structured record.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mstgis/radio-coverage/internal/batch"
)

// Store handles run-history database operations. Writes go through a
// WAL connection opened on first use; reads use a separate read-only
// connection so a renderer can work against a database another
// process is appending to.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store backed by the SQLite database at dbPath. The
// schema is initialized on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateRun records a new batch run and returns its identifier.
func (s *Store) CreateRun(ctx context.Context, run *Run) (runID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, err
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := db.ExecContext(ctx, insertRunSQL,
		createdAt, run.InputFile, run.Model, run.Processed, run.Skipped,
		nullFloat(run.FrequencyGHz), nullInt(run.TimePercentage), nullInt(run.Polarization))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	if runID, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting run ID: %w", err)
	}
	return runID, nil
}

// StoreResults saves the results of a run in a single transaction.
func (s *Store) StoreResults(ctx context.Context, runID int64, results []batch.Result) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertResultSQL)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i := range results {
		r := &results[i]
		if _, err = stmt.ExecContext(ctx, runID,
			r.Index, r.TxID, r.Azimuth, nullFloat(r.DistanceRing),
			r.DistanceKm, r.NumDistancePoints,
			r.TxLat, r.TxLon, r.RxLat, r.RxLon,
			r.Lb, r.Ep, r.ElapsedS); err != nil {
			return fmt.Errorf("inserting result %d: %w", r.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	return nil
}

// Run retrieves a single run by its ID.
func (s *Store) Run(ctx context.Context, id int64) (*Run, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	run, err := scanRun(db.QueryRowContext(ctx, selectRunSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}
	return run, nil
}

// Runs returns all recorded runs, ordered by creation time.
func (s *Store) Runs(ctx context.Context) (runs []*Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Results returns an iterator over the results of a run, ordered by
// profile index. The caller must Close the iterator.
func (s *Store) Results(ctx context.Context, runID int64) (*ResultIterator, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectResultsSQL, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %d: %w", runID, err)
	}
	return &ResultIterator{rows: rows}, nil
}

// Close releases all database connections. It is safe to call Close
// multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			s.closeErr = s.writeDB.Close()
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// ResultIterator walks the stored results of a single run.
type ResultIterator struct {
	rows    *sql.Rows
	current batch.Result
	err     error
}

// Next advances the iterator; it returns false when no results remain
// or an error occurred.
func (it *ResultIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}

	var ring sql.NullFloat64
	if it.err = it.rows.Scan(
		&it.current.Index, &it.current.TxID, &it.current.Azimuth, &ring,
		&it.current.DistanceKm, &it.current.NumDistancePoints,
		&it.current.TxLat, &it.current.TxLon, &it.current.RxLat, &it.current.RxLon,
		&it.current.Lb, &it.current.Ep, &it.current.ElapsedS); it.err != nil {
		return false
	}

	it.current.DistanceRing = nil
	if ring.Valid {
		v := ring.Float64
		it.current.DistanceRing = &v
	}
	return true
}

// Current returns the result the iterator is positioned on.
func (it *ResultIterator) Current() batch.Result {
	return it.current
}

// Err returns the first error encountered during iteration.
func (it *ResultIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

// Close releases the underlying rows.
func (it *ResultIterator) Close() error {
	return it.rows.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var freq sql.NullFloat64
	var pct, pol sql.NullInt64

	if err := row.Scan(&run.ID, &run.CreatedAt, &run.InputFile, &run.Model,
		&run.Processed, &run.Skipped, &freq, &pct, &pol); err != nil {
		return nil, err
	}

	if freq.Valid {
		v := freq.Float64
		run.FrequencyGHz = &v
	}
	if pct.Valid {
		v := int(pct.Int64)
		run.TimePercentage = &v
	}
	if pol.Valid {
		v := int(pol.Int64)
		run.Polarization = &v
	}
	return &run, nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
