package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/router"
	"github.com/arina0022/ya-note/internal/service/notes"
	"github.com/arina0022/ya-note/internal/storage/sqlite"
	"github.com/arina0022/ya-note/pkg/auth"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	auth.Init("test-secret", time.Hour)

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := notes.New(st, notes.TranslitSlugifier{})
	ts := httptest.NewServer(router.New(log, svc, st))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "secret-password"}

	resp := doJSON(t, http.MethodPost, ts.URL+"/users/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/users/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[map[string]string](t, resp)["token"]
}

func listNotes(t *testing.T, ts *httptest.Server, token string) []models.Note {
	t.Helper()
	resp := doJSON(t, http.MethodGet, ts.URL+"/notes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[[]models.Note](t, resp)
}

func TestAnonymousCannotCreateNote(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", "", map[string]string{
		"title": "Название", "text": "Текстик",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

	assert.Empty(t, listNotes(t, ts, token))
}

func TestCreateAndReadNote(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Заголовок", "text": "Текст", "slug": "note-slug",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Note](t, resp)
	assert.Equal(t, "note-slug", created.Slug)
	assert.NotEmpty(t, created.ID)

	got := listNotes(t, ts, token)
	require.Len(t, got, 1)
	assert.Equal(t, "Заголовок", got[0].Title)

	resp = doJSON(t, http.MethodGet, ts.URL+"/notes/note-slug", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[models.Note](t, resp)
	assert.Equal(t, created.ID, detail.ID)
}

func TestCreate_EmptySlugDerived(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Название", "text": "Текстик",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Note](t, resp)
	assert.Equal(t, "nazvanie", created.Slug)
}

func TestCreate_DuplicateSlugIsFieldError(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Заголовок", "text": "Текст", "slug": "note-slug",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Название", "text": "Текстик", "slug": "note-slug",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[struct {
		Status string            `json:"status"`
		Fields map[string]string `json:"fields"`
	}](t, resp)
	assert.Equal(t, "Error", body.Status)
	assert.Equal(t, "note-slug"+notes.SlugTakenWarning, body.Fields["slug"])

	assert.Len(t, listNotes(t, ts, token), 1)
}

func TestReaderCannotEditOrDeleteForeignNote(t *testing.T) {
	ts := setupServer(t)
	authorToken := registerAndLogin(t, ts, "Лев Толстой")
	readerToken := registerAndLogin(t, ts, "Читатель простой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", authorToken, map[string]string{
		"title": "Заголовок", "text": "Текст", "slug": "note-slug",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// not 403: a foreign note must be indistinguishable from a missing one
	resp = doJSON(t, http.MethodPut, ts.URL+"/notes/note-slug", readerToken, map[string]string{
		"title": "Название", "text": "Текстик", "slug": "note-slug",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/notes/note-slug", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/notes/note-slug", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/notes/note-slug", authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Note](t, resp)
	assert.Equal(t, "Текст", got.Text)
}

func TestAuthorCanEditOwnNote(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Заголовок", "text": "Текст", "slug": "note-slug",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, ts.URL+"/notes/note-slug", token, map[string]string{
		"title": "Заголовок", "text": "Текстик", "slug": "note-slug",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/notes/note-slug", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Note](t, resp)
	assert.Equal(t, "Текстик", got.Text)
}

func TestAuthorCanDeleteOwnNote(t *testing.T) {
	ts := setupServer(t)
	token := registerAndLogin(t, ts, "Лев Толстой")

	resp := doJSON(t, http.MethodPost, ts.URL+"/notes", token, map[string]string{
		"title": "Заголовок", "text": "Текст", "slug": "note-slug",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/notes/note-slug", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Empty(t, listNotes(t, ts, token))
}
