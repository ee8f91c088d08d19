package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    author_id INTEGER NOT NULL REFERENCES users (id),
    title TEXT NOT NULL,
    text TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS notes_slug_key ON notes (slug);
`

// Storage is the sqlite-backed note store. It serves local runs and the
// test suite; behavior matches the postgres store, including mapping
// unique-index violations on notes(slug) to storage.ErrSlugTaken.
type Storage struct {
	db *sql.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// With a connection pool every :memory: connection would open its own
	// empty database; a single connection also serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("%s: pragma: %w", op, err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%s: schema: %w", op, err)
	}
	return &Storage{
		db: db,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveUser(username, password string) (int64, error) {
	const op = "storage.sqlite.SaveUser"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%s: hash password: %w", op, err)
	}
	res, err := s.db.Exec(
		"INSERT INTO users(username, password, created_at) VALUES(?, ?, ?)",
		username, hashedPassword, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrUserExists
		}
		return 0, fmt.Errorf("%s: insert user: %w", op, err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}
	return userID, nil
}

func (s *Storage) GetUserByUsername(username string) (*models.User, error) {
	const op = "storage.sqlite.GetUserByUsername"
	var u models.User
	err := s.db.QueryRow(
		"SELECT id, username, password, created_at FROM users WHERE username=?",
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &u, nil
}

func (s *Storage) SaveNote(authorID int64, title, text, slug string) (*models.Note, error) {
	const op = "storage.sqlite.SaveNote"
	now := time.Now().UTC()
	note := models.Note{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Text:      text,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec(
		"INSERT INTO notes(id, author_id, title, text, slug, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		note.ID, note.AuthorID, note.Title, note.Text, note.Slug, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrSlugTaken
		}
		return nil, fmt.Errorf("%s: insert note: %w", op, err)
	}
	return &note, nil
}

func (s *Storage) GetNoteBySlug(slug string) (*models.Note, error) {
	const op = "storage.sqlite.GetNoteBySlug"
	var n models.Note
	err := s.db.QueryRow(
		"SELECT id, author_id, title, text, slug, created_at, updated_at FROM notes WHERE slug=?",
		slug,
	).Scan(&n.ID, &n.AuthorID, &n.Title, &n.Text, &n.Slug, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) UpdateNote(noteID, title, text, slug string) (*models.Note, error) {
	const op = "storage.sqlite.UpdateNote"
	res, err := s.db.Exec(
		"UPDATE notes SET title=?, text=?, slug=?, updated_at=? WHERE id=?",
		title, text, slug, time.Now().UTC(), noteID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrSlugTaken
		}
		return nil, fmt.Errorf("%s: update note: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return nil, storage.ErrNoteNotFound
	}
	return s.getNoteByID(noteID)
}

func (s *Storage) getNoteByID(noteID string) (*models.Note, error) {
	const op = "storage.sqlite.getNoteByID"
	var n models.Note
	err := s.db.QueryRow(
		"SELECT id, author_id, title, text, slug, created_at, updated_at FROM notes WHERE id=?",
		noteID,
	).Scan(&n.ID, &n.AuthorID, &n.Title, &n.Text, &n.Slug, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) DeleteNote(noteID string) error {
	const op = "storage.sqlite.DeleteNote"
	res, err := s.db.Exec("DELETE FROM notes WHERE id=?", noteID)
	if err != nil {
		return fmt.Errorf("%s: delete exec: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNoteNotFound
	}
	return nil
}

func (s *Storage) ListNotes(authorID int64) ([]models.Note, error) {
	const op = "storage.sqlite.ListNotes"
	rows, err := s.db.Query(
		"SELECT id, author_id, title, text, slug, created_at, updated_at FROM notes WHERE author_id=? ORDER BY created_at, id",
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Text, &n.Slug, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return notes, nil
}

func (s *Storage) SlugTaken(slug, excludingNoteID string) (bool, error) {
	const op = "storage.sqlite.SlugTaken"
	var taken bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM notes WHERE slug=? AND id<>?)",
		slug, excludingNoteID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%s: query row: %w", op, err)
	}
	return taken, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
