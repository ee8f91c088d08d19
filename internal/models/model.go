package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a personal text note. ID is assigned by the store and never
// changes; AuthorID is set at creation and never changes; Slug is unique
// across the whole notes table.
type Note struct {
	ID        string    `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
