package hashcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// ErrLocked reports that another pilesort process holds the fingerprint cache.
var ErrLocked = errors.New("fingerprint cache is locked by another process")

// Store persists fingerprints in SQLite so unchanged files skip the decode and
// hash work on subsequent runs. Entries are validated against file size and
// modification time; a changed file is treated as a miss.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
    path      TEXT PRIMARY KEY,
    size      INTEGER NOT NULL,
    mtime_ns  INTEGER NOT NULL,
    algorithm TEXT NOT NULL,
    hash      INTEGER NOT NULL,
    taken_at  TEXT NOT NULL
);
`

// Open initializes or connects to the fingerprint database inside dir and
// takes an advisory lock so concurrent runs do not interleave writes.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "fingerprints.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(dir, "fingerprints.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath, lock: lock}, nil
}

// Close releases the database connection and the advisory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); dbErr == nil {
			dbErr = unlockErr
		}
	}
	return dbErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Entry is one cached fingerprint.
type Entry struct {
	Path      string
	Size      int64
	MTimeNS   int64
	Algorithm string
	Hash      uint64
	TakenAt   time.Time
}

// Lookup returns the cached fingerprint for path if the stored size, mtime,
// and algorithm still match. A mismatch or absence is reported as !ok.
func (s *Store) Lookup(ctx context.Context, path string, size, mtimeNS int64, algorithm string) (Entry, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT size, mtime_ns, hash, taken_at FROM fingerprints
         WHERE path = ? AND algorithm = ?`,
		path, algorithm,
	)

	var (
		storedSize  int64
		storedMTime int64
		storedHash  int64
		takenAt     string
	)
	if err := row.Scan(&storedSize, &storedMTime, &storedHash, &takenAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("lookup fingerprint: %w", err)
	}

	if storedSize != size || storedMTime != mtimeNS {
		return Entry{}, false, nil
	}

	taken, err := time.Parse(time.RFC3339Nano, takenAt)
	if err != nil {
		// Unparseable row: treat as a miss so the caller rehashes and repairs it.
		return Entry{}, false, nil
	}

	return Entry{
		Path:      path,
		Size:      size,
		MTimeNS:   mtimeNS,
		Algorithm: algorithm,
		Hash:      uint64(storedHash),
		TakenAt:   taken,
	}, true, nil
}

// Save upserts a fingerprint entry.
func (s *Store) Save(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO fingerprints (path, size, mtime_ns, algorithm, hash, taken_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             size = excluded.size,
             mtime_ns = excluded.mtime_ns,
             algorithm = excluded.algorithm,
             hash = excluded.hash,
             taken_at = excluded.taken_at`,
		entry.Path,
		entry.Size,
		entry.MTimeNS,
		entry.Algorithm,
		int64(entry.Hash),
		entry.TakenAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save fingerprint %s: %w", entry.Path, err)
	}
	return nil
}

// Prune removes entries whose paths no longer exist on disk and returns the
// number of rows deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM fingerprints`)
	if err != nil {
		return 0, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, fmt.Errorf("scan fingerprint row: %w", err)
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate fingerprints: %w", err)
	}

	var removed int64
	for _, path := range stale {
		res, err := s.db.ExecContext(ctx, `DELETE FROM fingerprints WHERE path = ?`, path)
		if err != nil {
			return removed, fmt.Errorf("delete fingerprint %s: %w", path, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += n
		}
	}
	return removed, nil
}
