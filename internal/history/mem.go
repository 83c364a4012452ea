package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-agent/backend/internal/storage/models"
)

// MemStore keeps everything in process memory. Used in tests and as the
// store of last resort when no database is configured.
type MemStore struct {
	mu        sync.Mutex
	sessions  map[string]models.Session
	records   map[string][]models.IterationRecord
	highScore float64
}

func NewMemStore(highScore float64) *MemStore {
	return &MemStore{
		sessions:  make(map[string]models.Session),
		records:   make(map[string][]models.IterationRecord),
		highScore: highScore,
	}
}

func (m *MemStore) CreateSession(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemStore) Append(rec models.IterationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.SessionID] = append(m.records[rec.SessionID], rec)
	return nil
}

func (m *MemStore) Query(sessionID string) ([]models.IterationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown session %q", sessionID)
	}
	out := make([]models.IterationRecord, len(records))
	copy(out, records)
	return out, nil
}

func (m *MemStore) CloseSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("unknown session %q", id)
	}
	now := time.Now()
	s.Status = models.SessionComplete
	s.ClosedAt = &now
	m.sessions[id] = s
	return nil
}

func (m *MemStore) Flush(ctx context.Context) error {
	return nil
}

func (m *MemStore) BestMaterial(specType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int)
	for _, records := range m.records {
		for _, rec := range records {
			if rec.SpecAfter.Type != specType || rec.ScoreAfter <= m.highScore {
				continue
			}
			if material := rec.SpecAfter.PrimaryMaterial(); material != "" {
				counts[material]++
			}
		}
	}

	best := ""
	bestCount := 0
	for material, count := range counts {
		if count >= 3 && count > bestCount {
			bestCount = count
			best = material
		}
	}
	return best, nil
}
