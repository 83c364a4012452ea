package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/internal/storage/models"
	"github.com/spec-agent/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		closed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

	CREATE TABLE IF NOT EXISTS iterations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		iteration INTEGER NOT NULL,
		prompt TEXT NOT NULL,
		spec_type TEXT,
		primary_material TEXT,
		spec_before TEXT,
		spec_after TEXT NOT NULL,
		evaluation TEXT NOT NULL,
		severity TEXT NOT NULL,
		issues TEXT NOT NULL,
		reward REAL NOT NULL,
		score_before REAL NOT NULL,
		score_after REAL NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_iterations_session ON iterations(session_id);
	CREATE INDEX IF NOT EXISTS idx_iterations_pattern ON iterations(spec_type, score_after);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertSession(s models.Session) error {
	_, err := c.db.Exec(
		`INSERT INTO sessions (id, prompt, status, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Prompt, s.Status, s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (c *Client) CloseSession(id string) error {
	_, err := c.db.Exec(
		`UPDATE sessions SET status = ?, closed_at = ? WHERE id = ?`,
		models.SessionComplete, time.Now().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (c *Client) GetSession(id string) (*models.Session, error) {
	var s models.Session
	var createdAt string
	var closedAt sql.NullString

	err := c.db.QueryRow(
		`SELECT id, prompt, status, created_at, closed_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Prompt, &s.Status, &createdAt, &closedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if closedAt.Valid {
		t, err := time.Parse(time.RFC3339, closedAt.String)
		if err == nil {
			s.ClosedAt = &t
		}
	}

	return &s, nil
}

// InsertIteration writes one record as a single atomic statement; partially
// written records are never visible to readers.
func (c *Client) InsertIteration(rec models.IterationRecord) error {
	specBefore := ""
	if rec.SpecBefore != nil {
		data, err := json.Marshal(rec.SpecBefore)
		if err != nil {
			return fmt.Errorf("failed to marshal spec_before: %w", err)
		}
		specBefore = string(data)
	}

	specAfter, err := json.Marshal(rec.SpecAfter)
	if err != nil {
		return fmt.Errorf("failed to marshal spec_after: %w", err)
	}
	evalJSON, err := json.Marshal(rec.Evaluation)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}
	issuesJSON, _ := json.Marshal(rec.Issues)

	_, err = c.db.Exec(`
		INSERT INTO iterations
		(id, session_id, iteration, prompt, spec_type, primary_material,
		 spec_before, spec_after, evaluation, severity, issues,
		 reward, score_before, score_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.Iteration,
		rec.Prompt,
		rec.SpecAfter.Type,
		rec.SpecAfter.PrimaryMaterial(),
		specBefore,
		string(specAfter),
		string(evalJSON),
		rec.Severity,
		string(issuesJSON),
		rec.Reward,
		rec.ScoreBefore,
		rec.ScoreAfter,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert iteration: %w", err)
	}

	logger.Debug("Iteration recorded",
		zap.String("session_id", rec.SessionID),
		zap.Int("iteration", rec.Iteration),
		zap.Float64("reward", rec.Reward),
	)

	return nil
}

func (c *Client) GetIterations(sessionID string) ([]models.IterationRecord, error) {
	rows, err := c.db.Query(`
		SELECT id, session_id, iteration, prompt, spec_before, spec_after,
		       evaluation, severity, issues, reward, score_before, score_after, created_at
		FROM iterations
		WHERE session_id = ?
		ORDER BY iteration ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query iterations: %w", err)
	}
	defer rows.Close()

	var records []models.IterationRecord
	for rows.Next() {
		var rec models.IterationRecord
		var specBefore, specAfter, evalJSON, issuesJSON, createdAt string

		err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Iteration, &rec.Prompt,
			&specBefore, &specAfter, &evalJSON, &rec.Severity, &issuesJSON,
			&rec.Reward, &rec.ScoreBefore, &rec.ScoreAfter, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if specBefore != "" {
			rec.SpecBefore = new(spec.Specification)
			json.Unmarshal([]byte(specBefore), rec.SpecBefore)
		}
		json.Unmarshal([]byte(specAfter), &rec.SpecAfter)
		json.Unmarshal([]byte(evalJSON), &rec.Evaluation)
		json.Unmarshal([]byte(issuesJSON), &rec.Issues)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return records, nil
}

// BestMaterial returns the decay-weighted most successful material among
// past high-scoring iterations for a spec type. Recent sessions count more;
// fewer than 3 samples returns "".
func (c *Client) BestMaterial(specType string, minScore float64) (string, error) {
	rows, err := c.db.Query(`
		SELECT primary_material, score_after, created_at
		FROM iterations
		WHERE spec_type = ? AND score_after > ? AND primary_material != ''`,
		specType, minScore,
	)
	if err != nil {
		return "", fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	type accum struct {
		weight float64
		count  int
	}

	now := time.Now()
	const halfLifeHours = 7 * 24
	byMaterial := make(map[string]*accum)

	for rows.Next() {
		var material, createdAtStr string
		var score float64
		if err := rows.Scan(&material, &score, &createdAtStr); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}

		age := now.Sub(createdAt).Hours()
		a, ok := byMaterial[material]
		if !ok {
			a = &accum{}
			byMaterial[material] = a
		}
		a.weight += math.Exp(-age / halfLifeHours)
		a.count++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to read rows: %w", err)
	}

	best := ""
	bestWeight := 0.0
	for material, a := range byMaterial {
		if a.count < 3 {
			continue
		}
		if a.weight > bestWeight {
			bestWeight = a.weight
			best = material
		}
	}

	return best, nil
}
