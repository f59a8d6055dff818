package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"signbridge/internal/models"
)

func TestCustomGestureRoundTripsOpaquePayload(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	gestureData := map[string]any{
		"frames": []any{
			map[string]any{"landmarks": []any{0.1, 0.2, 0.3}, "t": 0.0},
			map[string]any{"landmarks": []any{0.4, 0.5, 0.6}, "t": 0.5},
		},
		"recognizer": map[string]any{"model": "v2", "threshold": 0.8},
	}

	rec := s.do(t, http.MethodPost, "/api/custom-gestures", "subject-1", map[string]any{
		"name":        "thumbs up",
		"gestureData": gestureData,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Read it back: structurally identical, nothing reinterpreted.
	rec = s.do(t, http.MethodGet, "/api/custom-gestures/1", "subject-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, gestureData, body["gestureData"])
}

func TestCreateGestureRequiresData(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	rec := s.do(t, http.MethodPost, "/api/custom-gestures", "subject-1", map[string]any{
		"name": "wave",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	require.Contains(t, details, "gestureData")
}

func TestGestureOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)
	owner := s.registerUser(t, "subject-1", "alice")
	s.registerUser(t, "subject-2", "bob")

	g, err := s.gestures.Create(context.Background(), owner.ID, "wave", nil, models.JSONMap{"k": "v"})
	require.NoError(t, err)

	for _, tc := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]any{"name": "stolen"}},
		{http.MethodDelete, nil},
	} {
		rec := s.do(t, tc.method, "/api/custom-gestures/1", "subject-2", tc.body)
		require.Equal(t, http.StatusForbidden, rec.Code, "method %s", tc.method)
	}

	after, err := s.gestures.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	require.Equal(t, "wave", after.Name)
}

func TestGestureNotFoundBeforeOwnership(t *testing.T) {
	s := newTestServer(t)
	s.registerUser(t, "subject-1", "alice")

	rec := s.do(t, http.MethodDelete, "/api/custom-gestures/99", "subject-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateGesture(t *testing.T) {
	s := newTestServer(t)
	user := s.registerUser(t, "subject-1", "alice")

	_, err := s.gestures.Create(context.Background(), user.ID, "wave", nil, models.JSONMap{"k": "v"})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPatch, "/api/custom-gestures/1", "subject-1", map[string]any{
		"name":        "big wave",
		"description": "two hands",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "big wave", body["name"])
	require.Equal(t, "two hands", body["description"])
	// Untouched fields survive the merge.
	require.Equal(t, map[string]any{"k": "v"}, body["gestureData"])
}

func TestUpdateGestureRejectsUnknownFields(t *testing.T) {
	s := newTestServer(t)
	user := s.registerUser(t, "subject-1", "alice")

	_, err := s.gestures.Create(context.Background(), user.ID, "wave", nil, models.JSONMap{"k": "v"})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPatch, "/api/custom-gestures/1", "subject-1", map[string]any{
		"userId": 999,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	require.Equal(t, "unknown field", details["userId"])
}
