package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arina0022/ya-note/internal/storage"
	"github.com/arina0022/ya-note/internal/storage/sqlite"
)

func newTestStorage(t *testing.T) (*sqlite.Storage, int64) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	authorID, err := st.SaveUser("author", "author-password")
	require.NoError(t, err)
	return st, authorID
}

func TestSaveNote_AssignsIDAndTimestamps(t *testing.T) {
	st, authorID := newTestStorage(t)

	note, err := st.SaveNote(authorID, "Заголовок", "Текст", "note-slug")
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, authorID, note.AuthorID)
	assert.False(t, note.CreatedAt.IsZero())

	got, err := st.GetNoteBySlug("note-slug")
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "Текст", got.Text)
}

func TestSaveNote_SlugConstraint(t *testing.T) {
	st, authorID := newTestStorage(t)

	_, err := st.SaveNote(authorID, "Первая", "", "note-slug")
	require.NoError(t, err)

	_, err = st.SaveNote(authorID, "Вторая", "", "note-slug")
	require.ErrorIs(t, err, storage.ErrSlugTaken)

	all, err := st.ListNotes(authorID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateNote_SlugConstraint(t *testing.T) {
	st, authorID := newTestStorage(t)

	_, err := st.SaveNote(authorID, "Первая", "", "first")
	require.NoError(t, err)
	second, err := st.SaveNote(authorID, "Вторая", "", "second")
	require.NoError(t, err)

	_, err = st.UpdateNote(second.ID, "Вторая", "", "first")
	require.ErrorIs(t, err, storage.ErrSlugTaken)

	// unchanged slug is not a collision
	updated, err := st.UpdateNote(second.ID, "Вторая", "дополнено", "second")
	require.NoError(t, err)
	assert.Equal(t, "дополнено", updated.Text)
	assert.Equal(t, "second", updated.Slug)
}

func TestUpdateNote_Missing(t *testing.T) {
	st, _ := newTestStorage(t)

	_, err := st.UpdateNote("no-such-id", "t", "", "s")
	require.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestDeleteNote(t *testing.T) {
	st, authorID := newTestStorage(t)

	note, err := st.SaveNote(authorID, "Заголовок", "", "note-slug")
	require.NoError(t, err)

	require.NoError(t, st.DeleteNote(note.ID))
	require.ErrorIs(t, st.DeleteNote(note.ID), storage.ErrNoteNotFound)

	_, err = st.GetNoteBySlug("note-slug")
	require.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestListNotes_FiltersByAuthor(t *testing.T) {
	st, authorID := newTestStorage(t)
	otherID, err := st.SaveUser("other", "other-password")
	require.NoError(t, err)

	_, err = st.SaveNote(authorID, "Моя", "", "mine")
	require.NoError(t, err)
	_, err = st.SaveNote(otherID, "Чужая", "", "theirs")
	require.NoError(t, err)

	mine, err := st.ListNotes(authorID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Slug)

	theirs, err := st.ListNotes(otherID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "theirs", theirs[0].Slug)
}

func TestSlugTaken(t *testing.T) {
	st, authorID := newTestStorage(t)

	note, err := st.SaveNote(authorID, "Заголовок", "", "note-slug")
	require.NoError(t, err)

	taken, err := st.SlugTaken("note-slug", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = st.SlugTaken("note-slug", note.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = st.SlugTaken("free-slug", "")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestSaveUser_UsernameConstraint(t *testing.T) {
	st, _ := newTestStorage(t)

	_, err := st.SaveUser("author", "another-password")
	require.ErrorIs(t, err, storage.ErrUserExists)
}

func TestGetUserByUsername(t *testing.T) {
	st, authorID := newTestStorage(t)

	u, err := st.GetUserByUsername("author")
	require.NoError(t, err)
	assert.Equal(t, authorID, u.ID)
	assert.NotEmpty(t, u.Password)

	_, err = st.GetUserByUsername("nobody")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}
