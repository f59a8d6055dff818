package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signbridge/internal/models"
)

const gestureColumns = `id, user_id, name, description, gesture_data, created_at, updated_at`

type GestureStore struct {
	pool *pgxpool.Pool
}

func NewGestureStore(pool *pgxpool.Pool) *GestureStore {
	return &GestureStore{pool: pool}
}

func scanGesture(row pgx.Row) (*models.CustomGesture, error) {
	var g models.CustomGesture
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Description,
		&g.GestureData,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GestureStore) GetByID(ctx context.Context, id int64) (*models.CustomGesture, error) {
	query := `SELECT ` + gestureColumns + ` FROM custom_gestures WHERE id = $1`

	g, err := scanGesture(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gesture: %w", err)
	}
	return g, nil
}

func (s *GestureStore) ListByOwner(ctx context.Context, userID int64) ([]models.CustomGesture, error) {
	query := `SELECT ` + gestureColumns + ` FROM custom_gestures WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list gestures: %w", err)
	}
	defer rows.Close()

	gestures := make([]models.CustomGesture, 0)
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gesture: %w", err)
		}
		gestures = append(gestures, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gestures: %w", err)
	}

	return gestures, nil
}

func (s *GestureStore) Create(ctx context.Context, userID int64, name string, description *string, gestureData models.JSONMap) (*models.CustomGesture, error) {
	query := `
		INSERT INTO custom_gestures (user_id, name, description, gesture_data)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + gestureColumns

	g, err := scanGesture(s.pool.QueryRow(ctx, query, userID, name, description, gestureData))
	if err != nil {
		return nil, wrapConstraint("insert gesture", err)
	}
	return g, nil
}

func (s *GestureStore) Update(ctx context.Context, id int64, patch models.CustomGesturePatch) (*models.CustomGesture, error) {
	query := `
		UPDATE custom_gestures
		SET name         = COALESCE($2, name),
		    description  = COALESCE($3, description),
		    gesture_data = COALESCE($4, gesture_data),
		    updated_at   = now()
		WHERE id = $1
		RETURNING ` + gestureColumns

	g, err := scanGesture(s.pool.QueryRow(ctx, query, id, patch.Name, patch.Description, patch.GestureData))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update gesture: %w", err)
	}
	return g, nil
}

func (s *GestureStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM custom_gestures WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete gesture: %w", err)
	}
	return nil
}
