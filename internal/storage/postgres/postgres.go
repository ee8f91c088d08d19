package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/storage"
)

type Storage struct {
	db *sql.DB
}

func New(dsn string) (*Storage, error) {
	const op = "storage.postgres.New"
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{
		db: db,
	}, nil
}

func (s *Storage) SaveUser(username, password string) (int64, error) {
	const op = "storage.postgres.SaveUser"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%s: hash password: %w", op, err)
	}
	var userID int64
	err = s.db.QueryRow(
		"INSERT INTO users(username, password) VALUES($1, $2) RETURNING id",
		username, hashedPassword,
	).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrUserExists
		}
		return 0, fmt.Errorf("%s: insert user: %w", op, err)
	}

	return userID, nil
}

func (s *Storage) GetUserByUsername(username string) (*models.User, error) {
	const op = "storage.postgres.GetUserByUsername"

	stmt, err := s.db.Prepare("SELECT id, username, password, created_at FROM users WHERE username=$1")
	if err != nil {
		return nil, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()
	var u models.User
	err = stmt.QueryRow(username).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &u, nil
}

// SaveNote inserts a note under a freshly assigned id. Slug uniqueness is
// guaranteed by the unique index on notes(slug): the insert and the check
// are one statement, so two concurrent creates with the same slug cannot
// both succeed.
func (s *Storage) SaveNote(authorID int64, title, text, slug string) (*models.Note, error) {
	const op = "storage.postgres.SaveNote"
	note := models.Note{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    title,
		Text:     text,
		Slug:     slug,
	}
	err := s.db.QueryRow(
		"INSERT INTO notes(id, author_id, title, text, slug) VALUES($1, $2, $3, $4, $5) RETURNING created_at, updated_at",
		note.ID, note.AuthorID, note.Title, note.Text, note.Slug,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrSlugTaken
		}
		return nil, fmt.Errorf("%s: insert note: %w", op, err)
	}
	return &note, nil
}

func (s *Storage) GetNoteBySlug(slug string) (*models.Note, error) {
	const op = "storage.postgres.GetNoteBySlug"
	stmt, err := s.db.Prepare("SELECT id, author_id, title, text, slug, created_at, updated_at FROM notes WHERE slug=$1")
	if err != nil {
		return nil, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()
	var n models.Note
	err = stmt.QueryRow(slug).Scan(
		&n.ID,
		&n.AuthorID,
		&n.Title,
		&n.Text,
		&n.Slug,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &n, nil
}

// UpdateNote rewrites title, text and slug in a single statement. Keeping
// the old slug always succeeds; moving to a slug owned by a different note
// trips the unique index and comes back as ErrSlugTaken.
func (s *Storage) UpdateNote(noteID, title, text, slug string) (*models.Note, error) {
	const op = "storage.postgres.UpdateNote"
	n := models.Note{
		ID:    noteID,
		Title: title,
		Text:  text,
		Slug:  slug,
	}
	err := s.db.QueryRow(
		"UPDATE notes SET title=$1, text=$2, slug=$3, updated_at=NOW() WHERE id=$4 RETURNING author_id, created_at, updated_at",
		title, text, slug, noteID,
	).Scan(&n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrSlugTaken
		}
		return nil, fmt.Errorf("%s: update note: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) DeleteNote(noteID string) error {
	const op = "storage.postgres.DeleteNote"
	res, err := s.db.Exec("DELETE FROM notes WHERE id=$1", noteID)
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
	const op = "storage.postgres.ListNotes"
	rows, err := s.db.Query(
		"SELECT id, author_id, title, text, slug, created_at, updated_at FROM notes WHERE author_id=$1 ORDER BY created_at, id",
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

// SlugTaken reports whether a note other than excludingNoteID already owns
// the slug. It is a validation probe only; the unique index has the final
// word at insert/update time.
func (s *Storage) SlugTaken(slug, excludingNoteID string) (bool, error) {
	const op = "storage.postgres.SlugTaken"
	var taken bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM notes WHERE slug=$1 AND id<>$2)",
		slug, excludingNoteID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%s: query row: %w", op, err)
	}
	return taken, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
