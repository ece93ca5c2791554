// Package domain defines the persistence models for reading history and
// library membership. These types are mapped with GORM and form the local,
// read-optimized data layer of the analytics service.
//
// Novel, chapter, and user identifiers are weak references into other
// bounded contexts (content, user). There is no local referential integrity
// with those domains: a novel deleted by the content service leaves a
// dangling id here, and read-path enrichment must tolerate it.
package domain

import (
	"time"
)

// History represents a single (user, novel) reading-history record. At most
// one row exists per (user, novel) pair; a new read of the same novel
// advances ChapterID and UpdatedAt on the existing row instead of creating a
// duplicate (enforced by the unique index).
//
// Fields:
//   - ID: local surrogate key (auto-increment).
//   - UUID: stable external-facing identifier (char(36)).
//   - UserID: owning user (UUID from the user domain, weak reference).
//   - NovelID: novel read (integer id from the content domain, weak reference).
//   - ChapterID: last chapter read (integer id from the content domain).
//   - CreatedAt: first recorded read of this (user, novel) pair.
//   - UpdatedAt: most recent read; doubles as the "view time" shown to users.
type History struct {
	ID        int       `json:"id"         gorm:"primaryKey;autoIncrement"`
	UUID      string    `json:"uuid"       gorm:"type:char(36);not null;uniqueIndex"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_history;uniqueIndex:ux_history_user_novel"`
	NovelID   int       `json:"novel_id"   gorm:"not null;index;uniqueIndex:ux_history_user_novel"`
	ChapterID int       `json:"chapter_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// TableName returns the database table name for History.
func (History) TableName() string { return "history" }

// LibraryEntry marks that a user has added a novel to their library. History
// enrichment consults this table to flag which novels in a user's reading
// history are also in their library.
type LibraryEntry struct {
	ID        int       `json:"id"       gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_library_user_novel"`
	NovelID   int       `json:"novel_id" gorm:"not null;uniqueIndex:ux_library_user_novel"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for LibraryEntry.
func (LibraryEntry) TableName() string { return "library" }
