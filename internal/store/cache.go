// Package store persists the latest analysis result so the dashboard can be
// reopened without re-uploading.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spendpilot/spendpilot/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ResultKey is the fixed key the latest analysis is stored under.
const ResultKey = "spendpilot_analysis_result"

var (
	// ErrNotFound indicates no result is stored.
	ErrNotFound = errors.New("store: no analysis result stored")
	// ErrCorrupt indicates the stored payload could not be decoded or was
	// written under a different contract version.
	ErrCorrupt = errors.New("store: stored analysis result is corrupt")
)

// Info describes the stored result without decoding it.
type Info struct {
	SourceName      string    `json:"source_name"`
	SavedAt         time.Time `json:"saved_at"`
	ContractVersion int       `json:"contract_version"`
	Backend         string    `json:"backend"` // "sqlite" or "memory"
}

// Cache is the SQLite-backed result table.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the result database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string { return c.path }

// Save replaces the stored result.
func (c *Cache) Save(r *model.AnalysisResult, sourceName string) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = c.db.Exec(`INSERT OR REPLACE INTO results
		(key, contract_version, source_name, payload, saved_at)
		VALUES (?, ?, ?, ?, ?)`,
		ResultKey, model.ContractVersion, sourceName, string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// Load returns the stored result, ErrNotFound when absent, or ErrCorrupt.
func (c *Cache) Load() (*model.AnalysisResult, error) {
	var (
		version int
		payload string
	)
	err := c.db.QueryRow("SELECT contract_version, payload FROM results WHERE key = ?", ResultKey).
		Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}
	if version != model.ContractVersion {
		return nil, fmt.Errorf("%w: contract version %d, want %d", ErrCorrupt, version, model.ContractVersion)
	}

	var r model.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &r, nil
}

// Info returns metadata for the stored result, or ErrNotFound.
func (c *Cache) Info() (Info, error) {
	var (
		info    Info
		name    sql.NullString
		savedAt string
	)
	err := c.db.QueryRow("SELECT contract_version, source_name, saved_at FROM results WHERE key = ?", ResultKey).
		Scan(&info.ContractVersion, &name, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, fmt.Errorf("reading result info: %w", err)
	}
	info.SourceName = name.String
	info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
	info.Backend = "sqlite"
	return info, nil
}

// Clear removes the stored result. Clearing an empty store is not an error.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM results WHERE key = ?", ResultKey); err != nil {
		return fmt.Errorf("clearing result: %w", err)
	}
	return nil
}
