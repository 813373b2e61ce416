package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	distinct_id TEXT NOT NULL,
	properties TEXT,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);`

// Retention is how long visits and events are kept.
const Retention = 365 * 24 * time.Hour

// Visit is one tracked page view. The client address is stored only as a
// salted hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalVisitors    int64   `json:"total_visitors"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	TotalEvents      int64   `json:"total_events"`
	TopPaths         []Count `json:"top_paths"`
	TopEvents        []Count `json:"top_events"`
	RecentVisitors   []Visit `json:"recent_visitors"`
}

// Store persists events and visits to sqlite. Writes from Track and
// RecordVisit happen on background goroutines; Wait blocks until they finish.
type Store struct {
	db     *sql.DB
	salt   string
	logger logrus.FieldLogger
	now    func() time.Time

	// mu guards closed and orders wg.Add before Close's wg.Wait.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Open opens (creating if needed) the sqlite database at path.
func Open(path string, logger logrus.FieldLogger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create analytics tables: %w", err)
	}

	salt, err := randomHex(32)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Privacy: visitor tracking enabled with hashed IP addresses")
	return &Store{
		db:     db,
		salt:   salt,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP hashes ip with the per-process salt, truncated for storage.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// begin registers a background write. It reports false once the store is
// closed, in which case the write is dropped.
func (s *Store) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

// Track records event in the background. Events arriving after Close are
// dropped.
func (s *Store) Track(ctx context.Context, event Event) {
	if !s.begin() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer s.wg.Done()
		if err := s.insertEvent(ctx, event); err != nil {
			s.logger.WithError(err).WithField("event", event.Name).Error("Event tracking failed")
		}
	}()
}

func (s *Store) insertEvent(ctx context.Context, event Event) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, distinct_id, properties, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.Name, event.DistinctID, string(props), event.Timestamp)
	return err
}

// RecordVisit stores a page view in the background.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) {
	ctx = context.WithoutCancel(ctx)
	if !s.begin() {
		return
	}
	hashed := s.HashIP(ip)
	at := s.now()
	go func() {
		defer s.wg.Done()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
			VALUES (?, ?, ?, ?)
		`, hashed, userAgent, path, at)
		if err != nil {
			s.logger.WithError(err).Error("Error recording visitor")
		}
	}()
}

// Cleanup deletes visits and events older than Retention.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-Retention)

	var removed int64
	for _, table := range []string{"visitors", "events"} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", cutoff)
		if err != nil {
			return removed, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	if removed > 0 {
		s.logger.Infof("Privacy cleanup: removed %d records older than 12 months", removed)
	}
	return removed, nil
}

// Stats aggregates the recorded data.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	scalars := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM visitors", nil, &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil, &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{startOfDay}, &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{now.Add(-7 * 24 * time.Hour)}, &stats.VisitorsThisWeek},
		{"SELECT COUNT(*) FROM events", nil, &stats.TotalEvents},
	}
	for _, q := range scalars {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	stats.TopPaths, err = s.counts(ctx, `
		SELECT path, COUNT(*) AS n FROM visitors
		GROUP BY path ORDER BY n DESC, path LIMIT 10`)
	if err != nil {
		return nil, err
	}
	stats.TopEvents, err = s.counts(ctx, `
		SELECT name, COUNT(*) AS n FROM events
		GROUP BY name ORDER BY n DESC, name LIMIT 10`)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return stats, rows.Err()
}

func (s *Store) counts(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Wait blocks until background writes have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close stops accepting writes, waits for pending ones and closes the
// database.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	return s.db.Close()
}
