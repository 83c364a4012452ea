package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/internal/storage/models"
)

func testRecord(sessionID string, iteration int) models.IterationRecord {
	return models.IterationRecord{
		ID:        fmt.Sprintf("rec-%d", iteration),
		SessionID: sessionID,
		Iteration: iteration,
		Prompt:    "An office building",
		SpecAfter: spec.Specification{
			Type:      "office",
			Materials: []spec.MaterialEntry{{Type: "steel"}},
		},
		ScoreAfter: 81.0,
		Reward:     0.2,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := store.Append(testRecord("session-a", i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	records, err := store.Query("session-a")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Query() returned %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Iteration != i+1 {
			t.Errorf("record %d has iteration %d, want %d", i, rec.Iteration, i+1)
		}
		if rec.SpecAfter.Type != "office" {
			t.Errorf("record %d lost spec content: %+v", i, rec.SpecAfter)
		}
	}
}

func TestFileStoreSessionsIsolated(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	store.Append(testRecord("session-a", 1))
	store.Append(testRecord("session-b", 1))
	store.Append(testRecord("session-b", 2))

	a, err := store.Query("session-a")
	if err != nil {
		t.Fatalf("Query(a) error = %v", err)
	}
	b, err := store.Query("session-b")
	if err != nil {
		t.Fatalf("Query(b) error = %v", err)
	}

	if len(a) != 1 || len(b) != 2 {
		t.Errorf("got %d/%d records, want 1/2", len(a), len(b))
	}
}

func TestFileStoreUnknownSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	records, err := store.Query("never-created")
	if err != nil {
		t.Errorf("Query() on unknown session error = %v, want nil", err)
	}
	if records != nil {
		t.Errorf("Query() = %v, want nil", records)
	}
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	const writers = 8
	const perWriter = 10

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rec := testRecord("shared", w*perWriter+i)
				if err := store.Append(rec); err != nil {
					t.Errorf("Append() error = %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	records, err := store.Query("shared")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != writers*perWriter {
		t.Errorf("Query() returned %d records, want %d", len(records), writers*perWriter)
	}
}

func TestMemStoreBestMaterial(t *testing.T) {
	store := NewMemStore(80)

	// Three high-scoring steel offices, one low-scoring wood office.
	for i := 1; i <= 3; i++ {
		rec := testRecord(fmt.Sprintf("s-%d", i), 1)
		rec.ScoreAfter = 95
		store.Append(rec)
	}
	low := testRecord("s-low", 1)
	low.ScoreAfter = 40
	low.SpecAfter.Materials = []spec.MaterialEntry{{Type: "wood"}}
	store.Append(low)

	material, err := store.BestMaterial("office")
	if err != nil {
		t.Fatalf("BestMaterial() error = %v", err)
	}
	if material != "steel" {
		t.Errorf("BestMaterial() = %q, want steel", material)
	}
}

func TestMemStoreBestMaterialNeedsSamples(t *testing.T) {
	store := NewMemStore(80)

	rec := testRecord("s-1", 1)
	rec.ScoreAfter = 95
	store.Append(rec)

	material, err := store.BestMaterial("office")
	if err != nil {
		t.Fatalf("BestMaterial() error = %v", err)
	}
	if material != "" {
		t.Errorf("BestMaterial() = %q, want empty with fewer than 3 samples", material)
	}
}
