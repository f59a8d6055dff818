package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signbridge/internal/identity"
	"signbridge/internal/models"
	"signbridge/internal/repository"
)

// In-memory repository implementations backing the handler tests. They honor
// the same contracts as the pgx stores: nil, nil on absence, empty slices,
// ErrDuplicate on unique clashes, cascade delete of messages, and a strictly
// later updated_at on every mutating write.

// bump returns a timestamp strictly later than prev, even when the clock has
// not visibly advanced between calls.
func bump(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

type fakeVerifier struct{}

// Verify treats the credential itself as the verified subject; "bad" fails.
func (fakeVerifier) Verify(_ context.Context, credential string) (*identity.Identity, error) {
	if credential == "" || credential == "bad" {
		return nil, fmt.Errorf("invalid credential")
	}
	return &identity.Identity{Subject: credential, Email: credential + "@example.com"}, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetBySubject(_ context.Context, subject string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalSubjectID == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user models.NewUser) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalSubjectID == user.ExternalSubjectID || u.Username == user.Username {
			return nil, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
	}
	now := time.Now()
	u := &models.User{
		ID:                r.nextID,
		ExternalSubjectID: user.ExternalSubjectID,
		Username:          user.Username,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		ProfilePhotoURL:   user.ProfilePhotoURL,
		Preferences:       user.Preferences,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	r.nextID++
	r.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if patch.FirstName != nil {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = patch.LastName
	}
	if patch.ProfilePhotoURL != nil {
		u.ProfilePhotoURL = patch.ProfilePhotoURL
	}
	if patch.Preferences != nil {
		u.Preferences = patch.Preferences
	}
	u.UpdatedAt = bump(u.UpdatedAt)
	copied := *u
	return &copied, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	nextID        int64
	conversations map[int64]*models.Conversation
	messages      *fakeMessageRepo

	// touchErr, when set, makes TouchUpdatedAt fail.
	touchErr error
}

func newFakeConversationRepo(messages *fakeMessageRepo) *fakeConversationRepo {
	return &fakeConversationRepo{
		nextID:        1,
		conversations: make(map[int64]*models.Conversation),
		messages:      messages,
	}
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id int64) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.conversations[id]; ok {
		copied := *conv
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeConversationRepo) ListByOwner(_ context.Context, userID int64) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Conversation, 0)
	for _, conv := range r.conversations {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	// Most recently active first, matching the store.
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeConversationRepo) Create(_ context.Context, userID int64, title, convType string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	conv := &models.Conversation{
		ID:        r.nextID,
		UserID:    userID,
		Title:     title,
		Type:      convType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.conversations[conv.ID] = conv
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) Update(_ context.Context, id int64, patch models.ConversationPatch) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		conv.Title = *patch.Title
	}
	conv.UpdatedAt = bump(conv.UpdatedAt)
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) TouchUpdatedAt(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	if conv, ok := r.conversations[id]; ok {
		conv.UpdatedAt = bump(conv.UpdatedAt)
	}
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	delete(r.conversations, id)
	r.mu.Unlock()
	// FK cascade equivalent.
	r.messages.deleteByConversation(id)
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1, messages: make(map[int64]*models.Message)}
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[id]; ok {
		copied := *msg
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID int64) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, 0)
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMessageRepo) Create(_ context.Context, conversationID int64, content, sender string, metadata models.JSONMap) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := &models.Message{
		ID:             r.nextID,
		ConversationID: conversationID,
		Content:        content,
		Sender:         sender,
		Timestamp:      time.Now(),
		Metadata:       metadata,
	}
	r.nextID++
	r.messages[msg.ID] = msg
	copied := *msg
	return &copied, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) deleteByConversation(conversationID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, msg := range r.messages {
		if msg.ConversationID == conversationID {
			delete(r.messages, id)
		}
	}
}

type fakeGestureRepo struct {
	mu       sync.Mutex
	nextID   int64
	gestures map[int64]*models.CustomGesture
}

func newFakeGestureRepo() *fakeGestureRepo {
	return &fakeGestureRepo{nextID: 1, gestures: make(map[int64]*models.CustomGesture)}
}

func (r *fakeGestureRepo) GetByID(_ context.Context, id int64) (*models.CustomGesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gestures[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeGestureRepo) ListByOwner(_ context.Context, userID int64) ([]models.CustomGesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CustomGesture, 0)
	for _, g := range r.gestures {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGestureRepo) Create(_ context.Context, userID int64, name string, description *string, gestureData models.JSONMap) (*models.CustomGesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	g := &models.CustomGesture{
		ID:          r.nextID,
		UserID:      userID,
		Name:        name,
		Description: description,
		GestureData: gestureData,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	r.gestures[g.ID] = g
	copied := *g
	return &copied, nil
}

func (r *fakeGestureRepo) Update(_ context.Context, id int64, patch models.CustomGesturePatch) (*models.CustomGesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gestures[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Description != nil {
		g.Description = patch.Description
	}
	if patch.GestureData != nil {
		g.GestureData = patch.GestureData
	}
	g.UpdatedAt = bump(g.UpdatedAt)
	copied := *g
	return &copied, nil
}

func (r *fakeGestureRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.gestures, id)
	return nil
}

type fakeVoiceSettingRepo struct {
	mu       sync.Mutex
	nextID   int64
	settings map[int64]*models.VoiceSetting
}

func newFakeVoiceSettingRepo() *fakeVoiceSettingRepo {
	return &fakeVoiceSettingRepo{nextID: 1, settings: make(map[int64]*models.VoiceSetting)}
}

func (r *fakeVoiceSettingRepo) GetByID(_ context.Context, id int64) (*models.VoiceSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vs, ok := r.settings[id]; ok {
		copied := *vs
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeVoiceSettingRepo) ListByOwner(_ context.Context, userID int64) ([]models.VoiceSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.VoiceSetting, 0)
	for _, vs := range r.settings {
		if vs.UserID == userID {
			out = append(out, *vs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVoiceSettingRepo) Create(_ context.Context, userID int64, setting models.NewVoiceSetting) (*models.VoiceSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	vs := &models.VoiceSetting{
		ID:        r.nextID,
		UserID:    userID,
		Name:      setting.Name,
		VoiceType: setting.VoiceType,
		Language:  setting.Language,
		Rate:      setting.Rate,
		Pitch:     setting.Pitch,
		Style:     setting.Style,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.settings[vs.ID] = vs
	copied := *vs
	return &copied, nil
}

func (r *fakeVoiceSettingRepo) Update(_ context.Context, id int64, patch models.VoiceSettingPatch) (*models.VoiceSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs, ok := r.settings[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		vs.Name = *patch.Name
	}
	if patch.VoiceType != nil {
		vs.VoiceType = *patch.VoiceType
	}
	if patch.Language != nil {
		vs.Language = *patch.Language
	}
	if patch.Rate != nil {
		vs.Rate = *patch.Rate
	}
	if patch.Pitch != nil {
		vs.Pitch = *patch.Pitch
	}
	if patch.Style != nil {
		vs.Style = patch.Style
	}
	vs.UpdatedAt = bump(vs.UpdatedAt)
	copied := *vs
	return &copied, nil
}

func (r *fakeVoiceSettingRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.settings, id)
	return nil
}
