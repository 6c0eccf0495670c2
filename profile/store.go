// Package profile records how chunks and constant pools grow. Runs are kept
// in a SQLite database; each run's capacity trace is stored as canonical CBOR.
package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/caby/pkg/bytecode"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound indicates the requested run doesn't exist
var ErrRunNotFound = errors.New("run not found")

// Run is one measured fill of a container.
type Run struct {
	ID         string
	Container  string
	Source     string
	Growth     bytecode.Growth
	Stats      bytecode.Stats
	Trace      Trace
	RecordedAt time.Time
}

// Store handles SQLite storage for runs
type Store struct {
	db   *sql.DB
	path string
	log  commonlog.Logger
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("profile: opening database: %w", err)
	}

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		container TEXT NOT NULL,
		source TEXT NOT NULL,
		len INTEGER NOT NULL,
		cap INTEGER NOT NULL,
		reallocations INTEGER NOT NULL,
		copied INTEGER NOT NULL,
		trace BLOB NOT NULL,
		recorded_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: creating table: %w", err)
	}

	return &Store{db: db, path: path, log: commonlog.GetLogger("caby.profile")}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run under a new ID and returns it.
func (s *Store) Record(run Run) (string, error) {
	trace, err := MarshalTrace(run.Growth, run.Trace)
	if err != nil {
		return "", fmt.Errorf("profile: encoding trace: %w", err)
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now()
	}

	id := uuid.New().String()
	_, err = s.db.Exec(`INSERT INTO runs
		(id, container, source, len, cap, reallocations, copied, trace, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.Container, run.Source,
		run.Stats.Len, run.Stats.Cap, run.Stats.Reallocations, run.Stats.ElementsCopied,
		trace, run.RecordedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("profile: inserting run: %w", err)
	}

	s.log.Infof("recorded %s run %s for %s: %s", run.Container, id, run.Source, run.Stats)
	return id, nil
}

// Get loads the run with the given ID.
func (s *Store) Get(id string) (Run, error) {
	row := s.db.QueryRow(`SELECT id, container, source, len, cap, reallocations, copied, trace, recorded_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, container, source, len, cap, reallocations, copied, trace, recorded_at
		FROM runs ORDER BY recorded_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("profile: querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: reading runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run      Run
		trace    []byte
		recorded int64
	)
	err := sc.Scan(&run.ID, &run.Container, &run.Source,
		&run.Stats.Len, &run.Stats.Cap, &run.Stats.Reallocations, &run.Stats.ElementsCopied,
		&trace, &recorded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("profile: scanning run: %w", err)
	}

	run.Growth, run.Trace, err = UnmarshalTrace(trace)
	if err != nil {
		return Run{}, err
	}
	run.RecordedAt = time.Unix(0, recorded)
	return run, nil
}
