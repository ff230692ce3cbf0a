package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/feb027/melon-ai-sub001/internal/storage"
)

// MemoryStorage is an in-memory implementation of storage.Storage,
// used when no DATABASE_URL is configured and in tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]storage.AnalysisRecord
}

// New creates an empty MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		analyses: make(map[uuid.UUID]storage.AnalysisRecord),
	}
}

// InsertAnalysis stores a record (used by tests and local seeding).
func (m *MemoryStorage) InsertAnalysis(ctx context.Context, rec storage.AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	m.analyses[rec.ID] = rec
	return nil
}

func (m *MemoryStorage) ListAnalyses(ctx context.Context, filter storage.AnalysisFilter) ([]storage.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.AnalysisRecord
	for _, rec := range m.analyses {
		if !matches(rec, filter) {
			continue
		}
		results = append(results, rec)
	}

	// created_at DESC, matching the Postgres ordering
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func matches(rec storage.AnalysisRecord, f storage.AnalysisFilter) bool {
	created := rec.CreatedAt.UTC()
	if created.Before(f.From.UTC()) || created.After(f.To.UTC()) {
		return false
	}

	if f.Location != "" {
		if rec.Location == nil || *rec.Location != f.Location {
			return false
		}
	}

	// Compound "<type>:<variety>" string matching, same semantics as the
	// LIKE patterns in the Postgres store.
	if f.FruitType != "" {
		if rec.WatermelonType == nil || !strings.HasPrefix(*rec.WatermelonType, f.FruitType+":") {
			return false
		}
	}
	if f.FruitVariety != "" {
		if rec.WatermelonType == nil || !strings.HasSuffix(*rec.WatermelonType, ":"+f.FruitVariety) {
			return false
		}
	}

	return true
}
