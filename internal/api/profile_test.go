package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	rec := s.do(t, http.MethodGet, "/api/user-settings/profile", "subject-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "alice@example.com", body["email"])
	// The raw row stays internal: no subject id, no timestamps.
	require.NotContains(t, body, "externalSubjectId")
	require.NotContains(t, body, "createdAt")
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	rec := s.do(t, http.MethodPatch, "/api/user-settings/profile", "subject-1", map[string]any{
		"firstName":   "Alice",
		"preferences": map[string]any{"theme": "dark", "fontScale": 1.5},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Alice", body["firstName"])
	require.Equal(t, map[string]any{"theme": "dark", "fontScale": 1.5}, body["preferences"])
}

func TestUpdateProfileRejectsBadPhotoURL(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	rec := s.do(t, http.MethodPatch, "/api/user-settings/profile", "subject-1", map[string]any{
		"profilePhotoUrl": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	require.Contains(t, details, "profilePhotoUrl")
}

func TestUpdateProfileRejectsImmutableFields(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	// username and email are not patchable; unknown fields are rejected,
	// not silently dropped.
	rec := s.do(t, http.MethodPatch, "/api/user-settings/profile", "subject-1", map[string]any{
		"username": "mallory",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	require.Equal(t, "unknown field", details["username"])
}
