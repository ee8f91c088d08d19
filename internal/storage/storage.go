package storage

import "errors"

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrSlugTaken    = errors.New("slug is already taken")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)
