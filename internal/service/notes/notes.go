// Package notes holds the ownership and slug rules for the note service:
// who may touch which note, and how a note's slug is derived and checked.
package notes

import (
	"errors"
	"fmt"

	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/storage"
)

// SlugTakenWarning is appended to the offending slug in the field-level
// error shown for a duplicate slug.
const SlugTakenWarning = " — this slug is already in use by another note, please specify a different one."

type Store interface {
	SaveNote(authorID int64, title, text, slug string) (*models.Note, error)
	GetNoteBySlug(slug string) (*models.Note, error)
	UpdateNote(noteID, title, text, slug string) (*models.Note, error)
	DeleteNote(noteID string) error
	ListNotes(authorID int64) ([]models.Note, error)
	SlugTaken(slug, excludingNoteID string) (bool, error)
}

// Slugifier turns a note title into a URL-safe slug. It must be pure and
// deterministic: the same title always yields the same slug.
type Slugifier interface {
	Slugify(title string) string
}

type Service struct {
	store   Store
	slugger Slugifier
}

func New(store Store, slugger Slugifier) *Service {
	return &Service{
		store:   store,
		slugger: slugger,
	}
}

// DeriveSlug produces the slug used when the caller supplies none.
func (s *Service) DeriveSlug(title string) string {
	return s.slugger.Slugify(title)
}

// Create persists a new note owned by the requester. An empty slug is
// derived from the title; collisions are reported by the store, not
// pre-checked here.
func (s *Service) Create(requesterID int64, title, text, slug string) (*models.Note, error) {
	const op = "service.notes.Create"
	if slug == "" {
		slug = s.slugger.Slugify(title)
	}
	note, err := s.store.SaveNote(requesterID, title, text, slug)
	if err != nil {
		if errors.Is(err, storage.ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return note, nil
}

// Get returns a note by slug, but only to its author. A note that exists
// under someone else's authorship is reported as missing.
func (s *Service) Get(requesterID int64, slug string) (*models.Note, error) {
	return s.owned(requesterID, slug)
}

// Edit replaces title, text and slug of the requester's note addressed by
// slug. An empty new slug is derived from the new title. A missing note
// and a note owned by someone else both come back as ErrNoteNotFound.
func (s *Service) Edit(requesterID int64, slug, newTitle, newText, newSlug string) (*models.Note, error) {
	const op = "service.notes.Edit"
	note, err := s.owned(requesterID, slug)
	if err != nil {
		return nil, err
	}
	if newSlug == "" {
		newSlug = s.slugger.Slugify(newTitle)
	}
	updated, err := s.store.UpdateNote(note.ID, newTitle, newText, newSlug)
	if err != nil {
		if errors.Is(err, storage.ErrSlugTaken) || errors.Is(err, storage.ErrNoteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes the requester's note addressed by slug, under the same
// ownership rule as Edit.
func (s *Service) Delete(requesterID int64, slug string) error {
	const op = "service.notes.Delete"
	note, err := s.owned(requesterID, slug)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(note.ID); err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List returns the requester's notes and nobody else's.
func (s *Service) List(requesterID int64) ([]models.Note, error) {
	const op = "service.notes.List"
	notes, err := s.store.ListNotes(requesterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// SlugAvailable is the validation probe for a candidate slug. The store's
// unique index still has the final word at persist time.
func (s *Service) SlugAvailable(candidate, excludingNoteID string) (bool, error) {
	const op = "service.notes.SlugAvailable"
	taken, err := s.store.SlugTaken(candidate, excludingNoteID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return !taken, nil
}

// owned is the single authorization gate for every by-slug operation.
// Missing and not-owned collapse into ErrNoteNotFound so existence of a
// foreign note is never leaked.
func (s *Service) owned(requesterID int64, slug string) (*models.Note, error) {
	const op = "service.notes.owned"
	note, err := s.store.GetNoteBySlug(slug)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if note.AuthorID != requesterID {
		return nil, storage.ErrNoteNotFound
	}
	return note, nil
}
