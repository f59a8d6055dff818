package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signbridge/internal/models"
)

const userColumns = `id, external_subject_id, username, email, first_name, last_name, profile_photo_url, preferences, created_at, updated_at`

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.ExternalSubjectID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfilePhotoURL,
		&u.Preferences,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_subject_id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, subject))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by subject: %w", err)
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, user models.NewUser) (*models.User, error) {
	query := `
		INSERT INTO users (external_subject_id, username, email, first_name, last_name, profile_photo_url, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query,
		user.ExternalSubjectID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfilePhotoURL,
		user.Preferences,
	))
	if err != nil {
		return nil, wrapConstraint("insert user", err)
	}
	return u, nil
}

// Update merges the patch over the row. Nil patch fields leave the column
// untouched; updated_at always moves.
func (s *UserStore) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name        = COALESCE($2, first_name),
		    last_name         = COALESCE($3, last_name),
		    profile_photo_url = COALESCE($4, profile_photo_url),
		    preferences       = COALESCE($5, preferences),
		    updated_at        = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query,
		id,
		patch.FirstName,
		patch.LastName,
		patch.ProfilePhotoURL,
		patch.Preferences,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
