package repository

import (
	"context"

	"signbridge/internal/models"
)

// Contracts shared by every repository:
//
//   - GetByID returns nil, nil when the row does not exist. Absence is not
//     an error; callers translate it to 404 (or skip it) themselves.
//   - List methods return an empty slice, never nil, when nothing matches,
//     so responses serialize to [] rather than null. Conversations list
//     most-recently-active first; everything else lists in creation order.
//   - Create returns the fully populated row (generated id, default
//     timestamps) via RETURNING. Constraint violations surface as
//     ErrDuplicate / ErrForeignKey, never get swallowed.
//   - Update merges the supplied patch over the row and always sets
//     updated_at to the current time. Callers are expected to have verified
//     existence first; if the row vanished anyway, Update returns nil, nil.
//   - Delete is idempotent: deleting an absent row is not an error.
//     Dependent rows go with the FK cascade, not application code.

// UserRepository handles the users table.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetBySubject looks a user up by the external identity provider's
	// subject id. This is the auth gate's hot path.
	GetBySubject(ctx context.Context, subject string) (*models.User, error)

	Create(ctx context.Context, user models.NewUser) (*models.User, error)

	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
}

// ConversationRepository handles conversations.
type ConversationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Conversation, error)

	ListByOwner(ctx context.Context, userID int64) ([]models.Conversation, error)

	Create(ctx context.Context, userID int64, title, convType string) (*models.Conversation, error)

	Update(ctx context.Context, id int64, patch models.ConversationPatch) (*models.Conversation, error)

	// TouchUpdatedAt bumps updated_at without changing any other field.
	// Called after a child message is inserted.
	TouchUpdatedAt(ctx context.Context, id int64) error

	Delete(ctx context.Context, id int64) error
}

// MessageRepository handles messages. Messages are immutable once written;
// there is no update operation.
type MessageRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	ListByConversation(ctx context.Context, conversationID int64) ([]models.Message, error)

	Create(ctx context.Context, conversationID int64, content, sender string, metadata models.JSONMap) (*models.Message, error)

	// Delete removes a single message. Internal-only: no route is wired to
	// this, since no authorization path for direct message deletion exists.
	// Bulk removal happens via the conversation cascade.
	Delete(ctx context.Context, id int64) error
}

// GestureRepository handles custom_gestures.
type GestureRepository interface {
	GetByID(ctx context.Context, id int64) (*models.CustomGesture, error)

	ListByOwner(ctx context.Context, userID int64) ([]models.CustomGesture, error)

	Create(ctx context.Context, userID int64, name string, description *string, gestureData models.JSONMap) (*models.CustomGesture, error)

	Update(ctx context.Context, id int64, patch models.CustomGesturePatch) (*models.CustomGesture, error)

	Delete(ctx context.Context, id int64) error
}

// VoiceSettingRepository handles voice_settings.
type VoiceSettingRepository interface {
	GetByID(ctx context.Context, id int64) (*models.VoiceSetting, error)

	ListByOwner(ctx context.Context, userID int64) ([]models.VoiceSetting, error)

	Create(ctx context.Context, userID int64, setting models.NewVoiceSetting) (*models.VoiceSetting, error)

	Update(ctx context.Context, id int64, patch models.VoiceSettingPatch) (*models.VoiceSetting, error)

	Delete(ctx context.Context, id int64) error
}
