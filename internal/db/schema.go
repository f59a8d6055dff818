package db

// The store is intentionally dumb: it enforces referential integrity,
// cascade deletes, and uniqueness. Enum values and required fields are
// enforced at the API validation boundary, not here.
//
// updated_at is NOT auto-touched by triggers; the repository layer sets it
// explicitly on every mutating write.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  BIGSERIAL PRIMARY KEY,
		external_subject_id TEXT NOT NULL UNIQUE,
		username            TEXT NOT NULL UNIQUE,
		email               TEXT NOT NULL,
		first_name          TEXT,
		last_name           TEXT,
		profile_photo_url   TEXT,
		preferences         JSONB,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		type       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id              BIGSERIAL PRIMARY KEY,
		conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		content         TEXT NOT NULL,
		sender          TEXT NOT NULL,
		"timestamp"     TIMESTAMPTZ NOT NULL DEFAULT now(),
		metadata        JSONB
	)`,

	`CREATE TABLE IF NOT EXISTS custom_gestures (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		description  TEXT,
		gesture_data JSONB NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS voice_settings (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		voice_type TEXT NOT NULL,
		language   TEXT NOT NULL,
		rate       TEXT NOT NULL,
		pitch      TEXT NOT NULL,
		style      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_custom_gestures_user ON custom_gestures (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_voice_settings_user ON voice_settings (user_id)`,
}
