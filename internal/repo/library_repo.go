// Package repo implements the data persistence layer for the local store,
// backed by GORM. This file provides repository functions for library
// membership, consumed by history enrichment.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/domain"
)

// AddLibraryEntry records that a user added a novel to their library.
// Adding an already-present novel is a no-op.
func AddLibraryEntry(ctx context.Context, db *gorm.DB, userID string, novelID int) error {
	entry := &domain.LibraryEntry{
		UserID:    userID,
		NovelID:   novelID,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Create(entry).Error
	if err != nil {
		// Unique (user, novel) index: an existing entry is fine.
		var existing int64
		if db.WithContext(ctx).
			Model(&domain.LibraryEntry{}).
			Where("user_id = ? AND novel_id = ?", userID, novelID).
			Count(&existing).Error == nil && existing > 0 {
			return nil
		}
	}
	return err
}

// RemoveLibraryEntry removes a novel from a user's library. Removing an
// absent novel is a no-op.
func RemoveLibraryEntry(ctx context.Context, db *gorm.DB, userID string, novelID int) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Delete(&domain.LibraryEntry{}).Error
}

// NovelsInLibrary reports, for each of the given novel ids, whether the user
// has it in their library. Ids absent from the result map are not in the
// library; callers should treat missing keys as false.
func NovelsInLibrary(ctx context.Context, db *gorm.DB, userID string, novelIDs []int) (map[int]bool, error) {
	out := make(map[int]bool, len(novelIDs))
	if len(novelIDs) == 0 {
		return out, nil
	}
	var present []int
	err := db.WithContext(ctx).
		Model(&domain.LibraryEntry{}).
		Where("user_id = ? AND novel_id IN ?", userID, novelIDs).
		Pluck("novel_id", &present).Error
	if err != nil {
		return nil, err
	}
	for _, id := range present {
		out[id] = true
	}
	return out, nil
}
