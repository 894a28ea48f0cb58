package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps posted entries in a database table. Useful when
// several scheduler runners share one history instead of a checked-in
// JSON file.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresStore(connectionString string, ttlHours int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		ttl: time.Duration(ttlHours) * time.Hour,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posted_news (
		id SERIAL PRIMARY KEY,
		hash VARCHAR(64) UNIQUE NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		source VARCHAR(100),
		posted_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_posted_news_hash ON posted_news(hash);
	CREATE INDEX IF NOT EXISTS idx_posted_news_posted_at ON posted_news(posted_at);
	`

	if _, err := ps.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Contains(hash string) bool {
	cutoff := time.Now().Add(-ps.ttl)

	var count int
	query := `SELECT COUNT(*) FROM posted_news WHERE hash = $1 AND posted_at > $2`
	if err := ps.db.QueryRow(query, hash, cutoff).Scan(&count); err != nil {
		slog.Warn("history lookup failed", "error", err)
		return false
	}
	return count > 0
}

func (ps *PostgresStore) MarkPosted(hash, title, link, source string) error {
	query := `
		INSERT INTO posted_news (hash, title, link, source, posted_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (hash) DO UPDATE SET posted_at = NOW()
	`

	if _, err := ps.db.Exec(query, hash, title, link, source); err != nil {
		return fmt.Errorf("failed to mark as posted: %w", err)
	}
	return nil
}

// Flush prunes entries that fell out of the retention window.
func (ps *PostgresStore) Flush() error {
	cutoff := time.Now().Add(-ps.ttl)

	result, err := ps.db.Exec(`DELETE FROM posted_news WHERE posted_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		slog.Info("pruned stale history entries", "count", rows)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
