package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"briefly-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type RunRepo struct {
	pool *pgxpool.Pool
}

func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

func (r *RunRepo) Create(ctx context.Context, run *models.Run) error {
	run.ID = uuid.New()
	cards := run.Flashcards
	if cards == nil {
		cards = []models.Flashcard{}
	}
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to encode flashcards: %w", err)
	}

	query := `INSERT INTO runs (id, session_id, source, input_text, topic, format, detail_level, summary, flashcards)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		run.ID, run.SessionID, run.Source, run.InputText, run.Topic, run.Format, run.DetailLevel, run.Summary, cardsJSON,
	).Scan(&run.CreatedAt)
}

// GetByID scopes the lookup to the session so one caller cannot read another's runs.
func (r *RunRepo) GetByID(ctx context.Context, sessionID string, id uuid.UUID) (*models.Run, error) {
	query := `SELECT id, session_id, source, input_text, topic, format, detail_level, summary, flashcards, created_at
		FROM runs WHERE id = $1 AND session_id = $2`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

func (r *RunRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*models.Run, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM runs WHERE session_id = $1", sessionID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, session_id, source, input_text, topic, format, detail_level, summary, flashcards, created_at
		FROM runs WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func scanRun(row pgx.Row) (*models.Run, error) {
	run := &models.Run{}
	var cardsJSON []byte
	err := row.Scan(
		&run.ID, &run.SessionID, &run.Source, &run.InputText, &run.Topic, &run.Format,
		&run.DetailLevel, &run.Summary, &cardsJSON, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(cardsJSON) > 0 {
		if err := json.Unmarshal(cardsJSON, &run.Flashcards); err != nil {
			return nil, fmt.Errorf("failed to decode flashcards: %w", err)
		}
	}
	return run, nil
}
