package store

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
)

// memEntry is a result held in memory after a failed SQLite write.
type memEntry struct {
	result *model.AnalysisResult
	info   Info
}

// Bridge is the persistence boundary used by the upload flow and the
// dashboard. Results go to SQLite; if that write fails the result is kept in
// memory for the life of the process. A nil db means memory-only.
type Bridge struct {
	db  *Cache
	mem *cache.Cache
}

// OpenBridge opens the SQLite store at path. If it cannot be opened the
// bridge runs memory-only and the failure is logged.
func OpenBridge(path string) *Bridge {
	b := &Bridge{mem: cache.New(cache.NoExpiration, 0)}
	db, err := Open(path)
	if err != nil {
		logger.L.Warn("result store unavailable, keeping results in memory", "path", path, "error", err)
		return b
	}
	b.db = db
	return b
}

// NewMemoryBridge returns a bridge with no SQLite backing.
func NewMemoryBridge() *Bridge {
	return &Bridge{mem: cache.New(cache.NoExpiration, 0)}
}

// Persistent reports whether results survive the process.
func (b *Bridge) Persistent() bool { return b.db != nil }

// Save stores r as the latest analysis. It only fails when r is nil.
func (b *Bridge) Save(r *model.AnalysisResult, sourceName string) error {
	if r == nil {
		return errors.New("store: nil result")
	}
	if b.db != nil {
		err := b.db.Save(r, sourceName)
		if err == nil {
			b.mem.Delete(ResultKey)
			return nil
		}
		logger.L.Warn("saving result to sqlite failed, keeping it in memory", "error", err)
	}
	b.mem.Set(ResultKey, memEntry{
		result: r,
		info: Info{
			SourceName:      sourceName,
			SavedAt:         time.Now().UTC(),
			ContractVersion: model.ContractVersion,
			Backend:         "memory",
		},
	}, cache.NoExpiration)
	return nil
}

// Load returns the latest analysis or ErrNotFound. A corrupt stored payload
// is logged, cleared and reported as ErrNotFound.
func (b *Bridge) Load() (*model.AnalysisResult, error) {
	if e, ok := b.memEntry(); ok {
		return e.result, nil
	}
	if b.db == nil {
		return nil, ErrNotFound
	}

	r, err := b.db.Load()
	if errors.Is(err, ErrCorrupt) {
		logger.L.Warn("discarding unreadable stored result", "error", err)
		if cerr := b.db.Clear(); cerr != nil {
			logger.L.Warn("clearing unreadable result failed", "error", cerr)
		}
		return nil, ErrNotFound
	}
	return r, err
}

// Info describes the latest stored result, or returns ErrNotFound.
func (b *Bridge) Info() (Info, error) {
	if e, ok := b.memEntry(); ok {
		return e.info, nil
	}
	if b.db == nil {
		return Info{}, ErrNotFound
	}
	return b.db.Info()
}

// Clear removes the latest result from every tier.
func (b *Bridge) Clear() error {
	b.mem.Delete(ResultKey)
	if b.db == nil {
		return nil
	}
	return b.db.Clear()
}

// Close releases the SQLite handle.
func (b *Bridge) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Bridge) memEntry() (memEntry, bool) {
	v, ok := b.mem.Get(ResultKey)
	if !ok {
		return memEntry{}, false
	}
	e, ok := v.(memEntry)
	return e, ok
}
