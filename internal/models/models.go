package models

import (
	"time"
)

// Conversation type discriminators. Stored as plain text; the API layer
// validates against this set, the store does not.
const (
	ConversationSpeechToText = "speech-to-text"
	ConversationTextToSpeech = "text-to-speech"
	ConversationSignLanguage = "sign-language"
)

// Message sender discriminators.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// JSONMap is an opaque structured payload (jsonb column). It is stored and
// returned verbatim; nothing in this service interprets its contents.
type JSONMap map[string]any

// User is the identity anchor. ExternalSubjectID is the stable identifier
// issued by the external identity provider; ID is our internal surrogate key.
// Both are immutable after creation.
type User struct {
	ID                int64     `json:"id"`
	ExternalSubjectID string    `json:"externalSubjectId"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         *string   `json:"firstName"`
	LastName          *string   `json:"lastName"`
	ProfilePhotoURL   *string   `json:"profilePhotoUrl"`
	Preferences       JSONMap   `json:"preferences"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Conversation is a named session owned by exactly one user.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is an utterance inside one conversation. Messages carry no owner
// column of their own; ownership is inherited through the conversation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
	Metadata       JSONMap   `json:"metadata"`
}

// CustomGesture maps a user-defined gesture to a meaning. GestureData is
// recognizer-specific and opaque to this service.
type CustomGesture struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	GestureData JSONMap   `json:"gestureData"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VoiceSetting is a named preset of speech-synthesis parameters.
// Rate and Pitch are string-encoded by contract, never parsed here.
type VoiceSetting struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	VoiceType string    `json:"voiceType"`
	Language  string    `json:"language"`
	Rate      string    `json:"rate"`
	Pitch     string    `json:"pitch"`
	Style     *string   `json:"style"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser carries the fields a signup supplies.
type NewUser struct {
	ExternalSubjectID string
	Username          string
	Email             string
	FirstName         *string
	LastName          *string
	ProfilePhotoURL   *string
	Preferences       JSONMap
}

// NewVoiceSetting carries the fields a voice-setting create supplies.
type NewVoiceSetting struct {
	Name      string
	VoiceType string
	Language  string
	Rate      string
	Pitch     string
	Style     *string
}

// Patch structs list exactly the fields that are legitimately patchable for
// each entity. A nil field means "leave unchanged". Unknown fields in a PATCH
// body are rejected at the API layer, not silently dropped.

type UserPatch struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfilePhotoURL *string `json:"profilePhotoUrl"`
	Preferences     JSONMap `json:"preferences"`
}

type ConversationPatch struct {
	Title *string `json:"title"`
}

type CustomGesturePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	GestureData JSONMap `json:"gestureData"`
}

type VoiceSettingPatch struct {
	Name      *string `json:"name"`
	VoiceType *string `json:"voiceType"`
	Language  *string `json:"language"`
	Rate      *string `json:"rate"`
	Pitch     *string `json:"pitch"`
	Style     *string `json:"style"`
}
