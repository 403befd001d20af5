package models

import "time"

// Note is a free-form or voice-sourced note.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	IsVoice   bool      `json:"is_voice"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Body    string `json:"body" validate:"required,notblank"`
	IsVoice bool   `json:"is_voice"`
}

type UpdateNoteRequest struct {
	Title string `json:"title" validate:"required,notblank,max=200"`
	Body  string `json:"body" validate:"required,notblank"`
}
