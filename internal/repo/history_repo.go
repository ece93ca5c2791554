// Package repo implements the data persistence layer for the local store,
// backed by GORM. This file provides repository functions for the History
// model: the narrow CRUD contract the enrichment pipeline builds on.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/domain"
)

// CreateHistory inserts a new history row with a fresh UUID and both
// timestamps set to now.
func CreateHistory(ctx context.Context, db *gorm.DB, userID string, novelID, chapterID int) (*domain.History, error) {
	now := time.Now().UTC()
	h := &domain.History{
		UUID:      uuid.NewString(),
		UserID:    userID,
		NovelID:   novelID,
		ChapterID: chapterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return h, db.WithContext(ctx).Create(h).Error
}

// UpdateHistoryChapter advances the chapter pointer and UpdatedAt on an
// existing row.
func UpdateHistoryChapter(ctx context.Context, db *gorm.DB, id, chapterID int) error {
	return db.WithContext(ctx).
		Model(&domain.History{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"chapter_id": chapterID,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GetHistory fetches a history row by its surrogate id. Returns (nil, nil)
// when no row exists.
func GetHistory(ctx context.Context, db *gorm.DB, id int) (*domain.History, error) {
	var h domain.History
	err := db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetHistoryByUserAndNovel fetches the unique row for a (user, novel) pair.
// Returns (nil, nil) when no row exists.
func GetHistoryByUserAndNovel(ctx context.Context, db *gorm.DB, userID string, novelID int) (*domain.History, error) {
	var h domain.History
	err := db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CountHistory returns the total number of history rows for a user.
func CountHistory(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.History{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListHistoryPage returns a page of a user's history ordered by recency
// (UpdatedAt DESC, ID DESC for a deterministic tie-break).
func ListHistoryPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.History, error) {
	var out []domain.History
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteHistory removes a single history row by id.
func DeleteHistory(ctx context.Context, db *gorm.DB, id int) error {
	return db.WithContext(ctx).Delete(&domain.History{}, id).Error
}

// DeleteHistoryByUser removes all history rows owned by a user. Deleting
// nothing is not an error.
func DeleteHistoryByUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.History{}).Error
}
