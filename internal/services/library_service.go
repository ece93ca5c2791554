package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/client"
	"github.com/yushan/go-analytics-backend/internal/repo"
)

// NovelValidator is the slice of the content gateway the library write path
// consumes.
type NovelValidator interface {
	GetNovelByID(ctx context.Context, novelID int) client.Envelope[client.NovelSummary]
}

// LibraryService manages library membership, the local flag the history read
// path surfaces as inLibrary.
type LibraryService struct {
	DB      *gorm.DB
	Content NovelValidator
}

// NewLibraryService constructs a LibraryService over the given store and
// content gateway.
func NewLibraryService(db *gorm.DB, content NovelValidator) *LibraryService {
	return &LibraryService{DB: db, Content: content}
}

// Add puts a novel in the user's library. Like the history write path it
// requires the content domain to confirm the novel first; adding a novel
// already present is a no-op.
func (s *LibraryService) Add(ctx context.Context, userID string, novelID int) error {
	if !s.Content.GetNovelByID(ctx, novelID).OK() {
		return ErrNovelNotFound
	}
	return repo.AddLibraryEntry(ctx, s.DB, userID, novelID)
}

// Remove takes a novel out of the user's library. Removing an absent novel
// is a no-op.
func (s *LibraryService) Remove(ctx context.Context, userID string, novelID int) error {
	return repo.RemoveLibraryEntry(ctx, s.DB, userID, novelID)
}
