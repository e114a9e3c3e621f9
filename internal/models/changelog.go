package models

import (
	"time"
)

// Changelog actions, derived at read time from the stored snapshots
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// UserInfo identifies the editor who made a catalog write
type UserInfo struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
}

// ChangelogEntry is one immutable audit record: the full before/after
// snapshots of a keyset write. Entries are append-only; pruning for display
// happens at read time, never in storage.
type ChangelogEntry struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"documentId" db:"document_id"`
	Before     *Keyset   `json:"before" db:"before"`
	After      *Keyset   `json:"after" db:"after"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
	User       UserInfo  `json:"user"`
}

// PublicAction is a changelog entry prepared for public consumption:
// classified, pruned to changed fields, editor identifiers stripped
type PublicAction struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"documentId"`
	Action     string         `json:"action"`
	Before     *PartialKeyset `json:"before,omitempty"`
	After      *PartialKeyset `json:"after,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	User       UserInfo       `json:"user"`
}
