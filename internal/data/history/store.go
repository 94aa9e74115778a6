// Package history records scan snapshots in a local sqlite database so runs
// can be compared over time.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts when watch mode saves often.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot stores snapshot and its per-rule counts atomically. Saving the
// same run ID twice replaces the earlier row.
func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(snapshot.RunID) == "" {
		return fmt.Errorf("snapshot run id must not be empty")
	}
	snapshot.ProjectKey = normalizeProjectKey(snapshot.ProjectKey)
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	return s.withRetry("save snapshot", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range []string{`DELETE FROM rule_counts WHERE run_id = ?`, `DELETE FROM scans WHERE run_id = ?`} {
			if _, err := tx.Exec(stmt, snapshot.RunID); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		if _, err := tx.Exec(`
INSERT INTO scans (run_id, project_key, schema_version, ts_utc, src, file_count, violation_count, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshot.RunID,
			snapshot.ProjectKey,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.Src,
			snapshot.FileCount,
			snapshot.ViolationCount,
			snapshot.Duration.Milliseconds(),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for rule, count := range snapshot.RuleCounts {
			if _, err := tx.Exec(`INSERT INTO rule_counts (run_id, rule, count) VALUES (?, ?, ?)`, snapshot.RunID, rule, count); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
}

// LoadSnapshots returns the project's snapshots taken at or after since,
// oldest first. A zero since loads everything.
func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = normalizeProjectKey(projectKey)
	query := `
SELECT run_id, project_key, schema_version, ts_utc, src, file_count, violation_count, duration_ms
FROM scans
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	snapshots, err := s.loadScans(query, args)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return snapshots, nil
	}

	counts, err := s.loadRuleCounts(projectKey)
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		snapshots[i].RuleCounts = counts[snapshots[i].RunID]
		if snapshots[i].RuleCounts == nil {
			snapshots[i].RuleCounts = map[string]int{}
		}
	}
	return snapshots, nil
}

// Latest returns the most recent snapshot of the project.
func (s *Store) Latest(projectKey string) (Snapshot, bool, error) {
	snapshots, err := s.LoadSnapshots(projectKey, time.Time{})
	if err != nil || len(snapshots) == 0 {
		return Snapshot{}, false, err
	}
	return snapshots[len(snapshots)-1], true, nil
}

func (s *Store) loadScans(query string, args []any) ([]Snapshot, error) {
	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			snapshot   Snapshot
		)
		if err := rows.Scan(
			&snapshot.RunID,
			&snapshot.ProjectKey,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.Src,
			&snapshot.FileCount,
			&snapshot.ViolationCount,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshot.Duration = time.Duration(durationMS) * time.Millisecond
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

// loadRuleCounts runs after the scans cursor is closed: the pool holds a
// single connection.
func (s *Store) loadRuleCounts(projectKey string) (map[string]map[string]int, error) {
	var rows *sql.Rows
	err := s.withRetry("load rule counts", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT rc.run_id, rc.rule, rc.count
FROM rule_counts rc
JOIN scans s ON s.run_id = rc.run_id
WHERE s.project_key = ?`, projectKey)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[string]int)
	for rows.Next() {
		var (
			runID string
			rule  string
			count int
		)
		if err := rows.Scan(&runID, &rule, &count); err != nil {
			return nil, fmt.Errorf("scan rule count row: %w", err)
		}
		if out[runID] == nil {
			out[runID] = make(map[string]int)
		}
		out[runID][rule] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule count rows: %w", err)
	}
	return out, nil
}

func normalizeProjectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "default"
	}
	return key
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// IsCorruptError reports whether err looks like a damaged database file.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
