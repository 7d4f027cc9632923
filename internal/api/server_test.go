package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secret-santa/internal/flow"
	"secret-santa/internal/match"
	"secret-santa/internal/store"
)

func newTestEngine(t *testing.T, st store.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(match.Default(), st, "secret-santa-v2", 1000).Mount(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestHealth(t *testing.T) {
	r := newTestEngine(t, store.NewMemoryStore())
	w, body := doJSON(t, r, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "secret-santa-v2", body["service"])
}

func TestParticipantsOrder(t *testing.T) {
	r := newTestEngine(t, store.NewMemoryStore())
	w, body := doJSON(t, r, "GET", "/api/participants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Ninou", "Habiba", "Suley", "Soussou"}, body["participants"])
}

func TestMatchLookup(t *testing.T) {
	r := newTestEngine(t, store.NewMemoryStore())

	w, body := doJSON(t, r, "GET", "/api/match/Ninou", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Habiba", body["match"])

	w, body = doJSON(t, r, "GET", "/api/match/Zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, body["error"])
}

func TestSubmitMessage(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestEngine(t, st)

	w, body := doJSON(t, r, "POST", "/api/message", map[string]string{
		"from": "Ninou", "message": "Joyeux Noël!",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	msg, err := st.Get("Ninou")
	require.NoError(t, err)
	assert.Equal(t, "Joyeux Noël!", msg)
}

func TestSubmitMessageValidation(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestEngine(t, st)

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing from", map[string]string{"message": "hi"}, "missing_fields"},
		{"missing message", map[string]string{"from": "Ninou"}, "missing_fields"},
		{"empty both", map[string]string{}, "missing_fields"},
		{"unknown participant", map[string]string{"from": "Zzz", "message": "hi"}, "unknown_participant"},
		{"too long", map[string]string{"from": "Ninou", "message": strings.Repeat("x", 1001)}, "message_too_long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doJSON(t, r, "POST", "/api/message", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, body["error"])
		})
	}

	// nothing reached the store
	all, err := st.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitMessageAtLimit(t *testing.T) {
	r := newTestEngine(t, store.NewMemoryStore())
	w, _ := doJSON(t, r, "POST", "/api/message", map[string]string{
		"from": "Ninou", "message": strings.Repeat("x", 1000),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitMessageOverwrites(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestEngine(t, st)

	for _, msg := range []string{"first", "second", "second"} {
		w, _ := doJSON(t, r, "POST", "/api/message", map[string]string{"from": "Suley", "message": msg})
		require.Equal(t, http.StatusOK, w.Code)
	}

	got, err := st.Get("Suley")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	all, err := st.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMessageLookup(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set("Habiba", "coucou"))
	r := newTestEngine(t, st)

	w, body := doJSON(t, r, "GET", "/api/message/Habiba", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "coucou", body["message"])

	// absent message is an empty string, not an error
	w, body = doJSON(t, r, "GET", "/api/message/Ninou", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body["message"])
}

func TestMessageForMatch(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set("Habiba", "pour mon santa"))
	r := newTestEngine(t, st)

	w, body := doJSON(t, r, "GET", "/api/message-for-match/Ninou", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pour mon santa", body["message"])
	assert.Equal(t, "Habiba", body["from"])

	w, body = doJSON(t, r, "GET", "/api/message-for-match/Zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, body["error"])
}

// brokenStore fails every operation, for the 500 paths.
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) Get(string) (string, error)      { return "", errBroken }
func (brokenStore) Set(string, string) error        { return errBroken }
func (brokenStore) All() (map[string]string, error) { return nil, errBroken }

func TestStoreFailuresAreOpaque500s(t *testing.T) {
	r := newTestEngine(t, brokenStore{})

	w, body := doJSON(t, r, "POST", "/api/message", map[string]string{"from": "Ninou", "message": "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "store_unavailable", body["error"])

	w, body = doJSON(t, r, "GET", "/api/message/Ninou", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, body["error"], "disk")

	w, _ = doJSON(t, r, "GET", "/api/message-for-match/Ninou", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// Full client walkthrough against a live server: Ninou selects, submits,
// reveals Habiba who left no message.
func TestExchangeScenario(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestEngine(t, st)
	srv := httptest.NewServer(r)
	defer srv.Close()

	f := flow.New(flow.NewMemoryRepository(), flow.NewHTTPClient(srv.URL))
	ctx := context.Background()

	participants, err := f.Participants(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Ninou", "Habiba", "Suley", "Soussou"}, participants)

	_, err = f.Select("Ninou")
	require.NoError(t, err)
	stage, err := f.Resolve(flow.StageSelection)
	require.NoError(t, err)
	assert.Equal(t, flow.StageMessage, stage)

	require.NoError(t, f.Submit(ctx, "Joyeux Noël!"))
	stage, err = f.Resolve(flow.StageMessage)
	require.NoError(t, err)
	assert.Equal(t, flow.StageReveal, stage)

	stored, err := st.Get("Ninou")
	require.NoError(t, err)
	assert.Equal(t, "Joyeux Noël!", stored)

	data, err := f.Reveal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Habiba", data.Match)
	assert.Equal(t, "", data.Message)

	revealed, err := f.Revealed()
	require.NoError(t, err)
	assert.True(t, revealed)
}
