// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package history persists completed verification results to SQLite so
// past verdicts can be queried by verdict, severity, and recency.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

const dbFile = "history.db"

// Store manages the verification history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			claim_text TEXT NOT NULL,
			language TEXT,
			category TEXT,
			verdict TEXT NOT NULL,
			confidence REAL NOT NULL,
			severity TEXT NOT NULL,
			explanation TEXT,
			correction TEXT,
			sources_checked INTEGER,
			overall_reliability REAL,
			diversity REAL,
			evidence TEXT,
			checked_at TEXT NOT NULL,
			elapsed_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_checks_verdict ON checks(verdict)`,
		`CREATE INDEX IF NOT EXISTS idx_checks_severity ON checks(severity)`,
		`CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one completed verification to the history.
func (s *Store) Record(ctx context.Context, result types.VerificationResult) error {
	evidence, err := json.Marshal(result.Evidence)
	if err != nil {
		return fmt.Errorf("encoding evidence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checks (claim_text, language, category, verdict, confidence, severity,
			explanation, correction, sources_checked, overall_reliability, diversity,
			evidence, checked_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Claim.Text, result.Claim.Language, result.Claim.Category,
		string(result.Verdict), result.Confidence, string(result.Severity),
		result.Explanation, result.Correction, result.SourcesChecked,
		result.OverallReliability, result.Diversity, string(evidence),
		result.CheckedAt.UTC().Format(time.RFC3339), result.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("inserting check: %w", err)
	}
	return nil
}

// Filter narrows a history query. Zero values mean no constraint.
type Filter struct {
	Verdict  types.Verdict
	Severity types.Severity
	Since    time.Time
	Limit    int
}

// Query returns past verifications matching the filter, most recent
// first. The limit defaults to the store's configured maximum.
func (s *Store) Query(ctx context.Context, f Filter) ([]types.VerificationResult, error) {
	query := `SELECT claim_text, language, category, verdict, confidence, severity,
		explanation, correction, sources_checked, overall_reliability, diversity,
		evidence, checked_at, elapsed_ms FROM checks WHERE 1=1`
	var args []any

	if f.Verdict != "" {
		query += " AND verdict = ?"
		args = append(args, string(f.Verdict))
	}
	if f.Severity != "" {
		query += " AND severity = ?"
		args = append(args, string(f.Severity))
	}
	if !f.Since.IsZero() {
		query += " AND checked_at >= ?"
		args = append(args, f.Since.UTC().Format(time.RFC3339))
	}

	limit := f.Limit
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}
	query += " ORDER BY checked_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []types.VerificationResult
	for rows.Next() {
		var (
			r         types.VerificationResult
			verdict   string
			severity  string
			evidence  string
			checkedAt string
			elapsedMS int64
		)
		if err := rows.Scan(&r.Claim.Text, &r.Claim.Language, &r.Claim.Category,
			&verdict, &r.Confidence, &severity, &r.Explanation, &r.Correction,
			&r.SourcesChecked, &r.OverallReliability, &r.Diversity,
			&evidence, &checkedAt, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scanning check: %w", err)
		}

		r.Verdict = types.Verdict(verdict)
		r.Severity = types.Severity(severity)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t, parseErr := time.Parse(time.RFC3339, checkedAt); parseErr == nil {
			r.CheckedAt = t
		}
		if evidence != "" {
			if err := json.Unmarshal([]byte(evidence), &r.Evidence); err != nil {
				return nil, fmt.Errorf("decoding evidence: %w", err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Counts reports how many stored verifications carry each verdict.
func (s *Store) Counts(ctx context.Context) (map[types.Verdict]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT verdict, COUNT(*) FROM checks GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("counting checks: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.Verdict]int)
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[types.Verdict(verdict)] = n
	}
	return counts, rows.Err()
}
