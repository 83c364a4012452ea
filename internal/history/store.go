package history

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/metrics"
	"github.com/spec-agent/backend/internal/storage/models"
	"github.com/spec-agent/backend/internal/storage/sqlite"
	"github.com/spec-agent/backend/pkg/circuitbreaker"
	"github.com/spec-agent/backend/pkg/logger"
	"github.com/spec-agent/backend/pkg/retry"
)

// Store is the append-only iteration history contract the training loop
// depends on. Append must never lose a record silently: implementations
// buffer on failure and surface unresolved losses from Flush.
type Store interface {
	CreateSession(s models.Session) error
	Append(rec models.IterationRecord) error
	Query(sessionID string) ([]models.IterationRecord, error)
	CloseSession(id string) error
	// Flush durably writes anything still buffered; a session is not
	// complete until Flush returns.
	Flush(ctx context.Context) error
	// BestMaterial aggregates past high-scoring iterations for a spec type.
	BestMaterial(specType string) (string, error)
}

// SQLStore writes to SQLite behind a circuit breaker and degrades to the
// JSONL file store plus an in-memory buffer when the database is down.
// Buffered records are retried at Flush.
type SQLStore struct {
	db        *sqlite.Client
	fallback  *FileStore
	breaker   *circuitbreaker.CircuitBreaker
	highScore float64

	mu      sync.Mutex
	pending []models.IterationRecord
}

func NewSQLStore(db *sqlite.Client, fallback *FileStore, highScore float64) *SQLStore {
	return &SQLStore{
		db:       db,
		fallback: fallback,
		breaker: circuitbreaker.New("history-sqlite", circuitbreaker.Config{
			FailureThreshold: 3,
			Logger:           logger.Log,
		}),
		highScore: highScore,
	}
}

func (s *SQLStore) CreateSession(sess models.Session) error {
	err := s.breaker.Execute(func() error {
		return s.db.InsertSession(sess)
	})
	if err != nil {
		logger.Warn("Failed to persist session, continuing with fallback only",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		metrics.PersistenceFailures.Inc()
	}
	return nil
}

// Append never fails the caller: on database failure the record goes to the
// file fallback and the retry buffer.
func (s *SQLStore) Append(rec models.IterationRecord) error {
	err := s.breaker.Execute(func() error {
		return s.db.InsertIteration(rec)
	})
	if err == nil {
		return nil
	}

	metrics.PersistenceFailures.Inc()
	logger.Warn("History append failed, buffering record",
		zap.String("session_id", rec.SessionID),
		zap.Int("iteration", rec.Iteration),
		zap.Error(err),
	)

	if fileErr := s.fallback.Append(rec); fileErr != nil {
		logger.Error("File fallback append failed", zap.Error(fileErr))
	}

	s.mu.Lock()
	s.pending = append(s.pending, rec)
	s.mu.Unlock()

	return nil
}

func (s *SQLStore) Query(sessionID string) ([]models.IterationRecord, error) {
	records, err := s.db.GetIterations(sessionID)
	if err == nil && len(records) > 0 {
		return records, nil
	}

	fileRecords, fileErr := s.fallback.Query(sessionID)
	if fileErr == nil && len(fileRecords) > 0 {
		return fileRecords, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return records, nil
}

func (s *SQLStore) CloseSession(id string) error {
	err := s.breaker.Execute(func() error {
		return s.db.CloseSession(id)
	})
	if err != nil {
		metrics.PersistenceFailures.Inc()
		logger.Warn("Failed to close session row", zap.String("session_id", id), zap.Error(err))
	}
	return nil
}

// Flush retries buffered records against SQLite. Records remaining after the
// retry budget stay durable in the file fallback; the returned error reports
// how many never reached the database.
func (s *SQLStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	var failed []models.IterationRecord
	for _, rec := range pending {
		rec := rec
		err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Logger: logger.Log}, func() error {
			return s.db.InsertIteration(rec)
		})
		if err != nil {
			failed = append(failed, rec)
		}
	}

	if len(failed) > 0 {
		s.mu.Lock()
		s.pending = append(failed, s.pending...)
		s.mu.Unlock()
		return fmt.Errorf("%d history records not persisted to database (file fallback retained)", len(failed))
	}

	logger.Info("Buffered history records flushed", zap.Int("count", len(pending)))
	return nil
}

func (s *SQLStore) BestMaterial(specType string) (string, error) {
	return s.db.BestMaterial(specType, s.highScore)
}
