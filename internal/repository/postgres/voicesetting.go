package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signbridge/internal/models"
)

const voiceSettingColumns = `id, user_id, name, voice_type, language, rate, pitch, style, created_at, updated_at`

type VoiceSettingStore struct {
	pool *pgxpool.Pool
}

func NewVoiceSettingStore(pool *pgxpool.Pool) *VoiceSettingStore {
	return &VoiceSettingStore{pool: pool}
}

func scanVoiceSetting(row pgx.Row) (*models.VoiceSetting, error) {
	var vs models.VoiceSetting
	err := row.Scan(
		&vs.ID,
		&vs.UserID,
		&vs.Name,
		&vs.VoiceType,
		&vs.Language,
		&vs.Rate,
		&vs.Pitch,
		&vs.Style,
		&vs.CreatedAt,
		&vs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &vs, nil
}

func (s *VoiceSettingStore) GetByID(ctx context.Context, id int64) (*models.VoiceSetting, error) {
	query := `SELECT ` + voiceSettingColumns + ` FROM voice_settings WHERE id = $1`

	vs, err := scanVoiceSetting(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voice setting: %w", err)
	}
	return vs, nil
}

func (s *VoiceSettingStore) ListByOwner(ctx context.Context, userID int64) ([]models.VoiceSetting, error) {
	query := `SELECT ` + voiceSettingColumns + ` FROM voice_settings WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list voice settings: %w", err)
	}
	defer rows.Close()

	settings := make([]models.VoiceSetting, 0)
	for rows.Next() {
		vs, err := scanVoiceSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voice setting: %w", err)
		}
		settings = append(settings, *vs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voice settings: %w", err)
	}

	return settings, nil
}

func (s *VoiceSettingStore) Create(ctx context.Context, userID int64, setting models.NewVoiceSetting) (*models.VoiceSetting, error) {
	query := `
		INSERT INTO voice_settings (user_id, name, voice_type, language, rate, pitch, style)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + voiceSettingColumns

	vs, err := scanVoiceSetting(s.pool.QueryRow(ctx, query,
		userID,
		setting.Name,
		setting.VoiceType,
		setting.Language,
		setting.Rate,
		setting.Pitch,
		setting.Style,
	))
	if err != nil {
		return nil, wrapConstraint("insert voice setting", err)
	}
	return vs, nil
}

func (s *VoiceSettingStore) Update(ctx context.Context, id int64, patch models.VoiceSettingPatch) (*models.VoiceSetting, error) {
	query := `
		UPDATE voice_settings
		SET name       = COALESCE($2, name),
		    voice_type = COALESCE($3, voice_type),
		    language   = COALESCE($4, language),
		    rate       = COALESCE($5, rate),
		    pitch      = COALESCE($6, pitch),
		    style      = COALESCE($7, style),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + voiceSettingColumns

	vs, err := scanVoiceSetting(s.pool.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.VoiceType,
		patch.Language,
		patch.Rate,
		patch.Pitch,
		patch.Style,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update voice setting: %w", err)
	}
	return vs, nil
}

func (s *VoiceSettingStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM voice_settings WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete voice setting: %w", err)
	}
	return nil
}
