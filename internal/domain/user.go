package domain

import (
	"context"
	"time"
)

// HistoryDateLayout is the stored representation of HistoryEntry.Date.
const HistoryDateLayout = "2006-01-02 15:04:05"

// KindNewsAnalysis is the only interaction kind recorded today.
const KindNewsAnalysis = "News Analysis"

// SourcePastedText marks history entries whose article was pasted rather than fetched.
const SourcePastedText = "Pasted Text"

// User represents a registered user. The username is the primary key.
type User struct {
	Username     string
	PasswordHash string
	History      []HistoryEntry // newest first
	CreatedAt    time.Time
}

// HistoryEntry is one completed analysis. Entries are immutable once stored.
type HistoryEntry struct {
	Date     time.Time
	Type     string
	Input    string
	Response string
}

// UserRepository defines persistence operations for users and their history.
// Implementations must enforce username uniqueness at the storage layer and
// prepend history entries atomically.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	AppendHistory(ctx context.Context, username string, entry HistoryEntry) error
	GetHistory(ctx context.Context, username string) ([]HistoryEntry, error)
}
