// Package models defines the domain types shared across BetterNotes packages.
package models

// EventKind describes what happened to a note file.
type EventKind string

const (
	EventSaved   EventKind = "saved"
	EventDeleted EventKind = "deleted"
)

// Event reports a change to a single note in the notes directory.
type Event struct {
	Kind EventKind `json:"kind"`
	ID   string    `json:"id"`
}
