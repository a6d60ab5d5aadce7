package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"jobyab-engine/internal/daterank"
	"jobyab-engine/internal/scraper"
)

// SQLiteStore is the sqlite-backed record store. It exclusively owns job
// and session persistence; callers only ever hold a session identifier.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and runs migrations.
// Pass ":memory:" for an ephemeral store in tests.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// each pooled connection would otherwise get its own empty in-memory DB
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL mode for better concurrent read performance.
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err = s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			company        TEXT NOT NULL DEFAULT '',
			city           TEXT NOT NULL DEFAULT '',
			link           TEXT NOT NULL UNIQUE,
			source         TEXT NOT NULL DEFAULT '',
			search_keyword TEXT NOT NULL DEFAULT '',
			date_posted    TEXT NOT NULL DEFAULT '',
			session_id     TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL,
			is_active      INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_session_id ON jobs(session_id);

		CREATE TABLE IF NOT EXISTS sessions (
			session_id    TEXT PRIMARY KEY,
			created_at    DATETIME NOT NULL,
			last_accessed DATETIME NOT NULL,
			search_count  INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_last_accessed ON sessions(last_accessed);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAll persists a scrape batch for sessionID. Each record is its own
// statement so one bad record cannot roll back the rest. A record whose
// link already exists anywhere is overwritten in place and relocated to
// sessionID; everything else is inserted fresh.
func (s *SQLiteStore) SaveAll(ctx context.Context, sessionID string, records []scraper.JobRecord, keyword string) SaveResult {
	var res SaveResult
	now := time.Now().UTC()

	for _, rec := range records {
		if rec.Link == "" {
			continue
		}

		var existingID int64
		err := s.db.QueryRowContext(ctx, `SELECT id FROM jobs WHERE link = ?`, rec.Link).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			_, err = s.db.ExecContext(ctx, `
				INSERT INTO jobs (title, company, city, link, source, search_keyword, date_posted, session_id, created_at, is_active)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
				rec.Title, rec.Company, rec.City, rec.Link, rec.Source, keyword, rec.DatePostedText, sessionID, now)
			if err != nil {
				log.Printf("⚠️ Error saving job %s: %v", rec.Link, err)
				continue
			}
			res.Saved++
		case err != nil:
			log.Printf("⚠️ Error looking up job %s: %v", rec.Link, err)
			continue
		default:
			// created_at deliberately untouched: it marks first sighting
			_, err = s.db.ExecContext(ctx, `
				UPDATE jobs
				SET title = ?, company = ?, city = ?, source = ?, search_keyword = ?, date_posted = ?, session_id = ?, is_active = 1
				WHERE id = ?`,
				rec.Title, rec.Company, rec.City, rec.Source, keyword, rec.DatePostedText, sessionID, existingID)
			if err != nil {
				log.Printf("⚠️ Error updating job %s: %v", rec.Link, err)
				continue
			}
			res.Updated++
		}
	}

	return res
}

// ClearSession hard deletes all jobs owned by sessionID and returns how
// many were removed.
func (s *SQLiteStore) ClearSession(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear session %s: %w", sessionID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Query returns sessionID's active jobs, filtered and sorted. The date
// sorts order by DateRank over the posted text; everything else falls back
// to newest-inserted-first.
func (s *SQLiteStore) Query(ctx context.Context, sessionID string, f Filters, sortBy string) ([]StoredJob, error) {
	query := `
		SELECT id, title, company, city, link, source, search_keyword, date_posted, session_id, created_at, is_active
		FROM jobs
		WHERE session_id = ? AND is_active = 1`
	args := []any{sessionID}

	if f.Source != "" {
		query += ` AND source = ?`
		args = append(args, f.Source)
	}
	if f.CityContains != "" {
		query += ` AND instr(city, ?) > 0`
		args = append(args, f.CityContains)
	}
	if f.CompanyContains != "" {
		query += ` AND instr(company, ?) > 0`
		args = append(args, f.CompanyContains)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []StoredJob
	for rows.Next() {
		var j StoredJob
		var active int
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.City, &j.Link, &j.Source,
			&j.SearchKeyword, &j.DatePostedText, &j.SessionID, &j.CreatedAt, &active); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.IsActive = active != 0
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	switch sortBy {
	case SortNewest:
		sort.SliceStable(jobs, func(i, k int) bool {
			return daterank.Rank(jobs[i].DatePostedText) < daterank.Rank(jobs[k].DatePostedText)
		})
	case SortOldest:
		sort.SliceStable(jobs, func(i, k int) bool {
			return daterank.Rank(jobs[i].DatePostedText) > daterank.Rank(jobs[k].DatePostedText)
		})
	}

	return jobs, nil
}

// DistinctFilterValues returns the filter dropdown contents for a session:
// distinct non-empty cities and companies, sentinel excluded, sorted.
func (s *SQLiteStore) DistinctFilterValues(ctx context.Context, sessionID string) (cities, companies []string, err error) {
	cities, err = s.distinctColumn(ctx, "city", sessionID)
	if err != nil {
		return nil, nil, err
	}
	companies, err = s.distinctColumn(ctx, "company", sessionID)
	if err != nil {
		return nil, nil, err
	}
	return cities, companies, nil
}

func (s *SQLiteStore) distinctColumn(ctx context.Context, column, sessionID string) ([]string, error) {
	// column is one of two compile-time constants, never caller input
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM jobs
		WHERE session_id = ? AND is_active = 1 AND %s != '' AND %s != ?`,
		column, column, column)

	rows, err := s.db.QueryContext(ctx, query, sessionID, scraper.Unspecified)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}

	sort.Strings(values)
	return values, nil
}

// GetOrCreateSession upserts a session record, bumping last_accessed when
// it already exists.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, created_at, last_accessed, search_count)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (session_id) DO UPDATE SET last_accessed = excluded.last_accessed`,
		sessionID, now, now)
	if err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	rec := &SessionRecord{SessionID: sessionID}
	err = s.db.QueryRowContext(ctx, `
		SELECT created_at, last_accessed, search_count FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&rec.CreatedAt, &rec.LastAccessed, &rec.SearchCount)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return rec, nil
}

// IncrementSearchCount bumps a session's scrape counter.
func (s *SQLiteStore) IncrementSearchCount(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET search_count = search_count + 1 WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("increment search count: %w", err)
	}
	return nil
}

// SessionInfo returns the caller-facing summary for sessionID.
func (s *SQLiteStore) SessionInfo(ctx context.Context, sessionID string) (*SessionInfo, error) {
	info := &SessionInfo{SessionID: sessionID}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM sessions WHERE session_id = ?`, sessionID).Scan(&info.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session info: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE session_id = ? AND is_active = 1`, sessionID).Scan(&info.JobCount)
	if err != nil {
		return nil, fmt.Errorf("session job count: %w", err)
	}
	return info, nil
}

// SweepExpiredSessions deletes sessions idle past retentionDays, together
// with their jobs, and returns how many sessions were removed.
func (s *SQLiteStore) SweepExpiredSessions(ctx context.Context, retentionDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM sessions WHERE last_accessed < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("query expired sessions: %w", err)
	}
	defer rows.Close()

	var expired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan session id: %w", err)
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate expired sessions: %w", err)
	}

	for _, id := range expired {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE session_id = ?`, id); err != nil {
			return 0, fmt.Errorf("delete jobs for session %s: %w", id, err)
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id); err != nil {
			return 0, fmt.Errorf("delete session %s: %w", id, err)
		}
	}

	if len(expired) > 0 {
		log.Printf("🧹 Swept %d expired sessions", len(expired))
	}
	return len(expired), nil
}
