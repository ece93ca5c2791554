// Package services – HistoryService
//
// This file implements the reading-history pipeline: the validated upsert on
// the write path, the enriched paginated read, and deletion.
//
// The write path requires certainty: every referenced entity must be
// confirmed by its owning domain before the record is written, and a
// degraded gateway is treated the same as "entity does not exist". The read
// path is the opposite: enrichment is best-effort and a degraded gateway
// only leaves the fields it would have filled nil.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/client"
	"github.com/yushan/go-analytics-backend/internal/domain"
	"github.com/yushan/go-analytics-backend/internal/repo"
)

// UserAPI is the slice of the user gateway the write path consumes.
type UserAPI interface {
	// ValidateUser reports whether the user domain confirms the user exists.
	ValidateUser(ctx context.Context, userID string) bool
}

// HistoryContentAPI is the slice of the content gateway the pipeline consumes.
type HistoryContentAPI interface {
	GetNovelByID(ctx context.Context, novelID int) client.Envelope[client.NovelSummary]
	GetNovelsBatch(ctx context.Context, novelIDs []int) client.Envelope[[]client.NovelSummary]
	GetChaptersBatch(ctx context.Context, chapterIDs []int) client.Envelope[[]client.ChapterSummary]
}

// HistoryService implements the reading-history pipeline over the local
// store and the upstream gateways.
type HistoryService struct {
	DB      *gorm.DB
	Users   UserAPI
	Content HistoryContentAPI
}

// NewHistoryService constructs a HistoryService over the given store and
// gateways.
func NewHistoryService(db *gorm.DB, users UserAPI, content HistoryContentAPI) *HistoryService {
	return &HistoryService{DB: db, Users: users, Content: content}
}

// AddOrUpdate records that a user read a chapter. The operation is an
// idempotent upsert on the (user, novel) pair: re-reading a novel advances
// the single record's chapter pointer instead of creating a second record.
//
// Validation order: user, then novel, then chapter, then chapter/novel
// consistency. The first failure wins and nothing is written.
//
// The existence check and the write are not atomic; two concurrent first
// reads of the same novel can race. The unique (user, novel) index makes the
// loser fail rather than duplicate, which is acceptable for this traffic.
func (s *HistoryService) AddOrUpdate(ctx context.Context, userID string, novelID, chapterID int) error {
	if !s.Users.ValidateUser(ctx, userID) {
		return ErrUserNotFound
	}
	if !s.Content.GetNovelByID(ctx, novelID).OK() {
		return ErrNovelNotFound
	}

	chapters := s.Content.GetChaptersBatch(ctx, []int{chapterID})
	if !chapters.OK() {
		return ErrChapterNotFound
	}
	var chapter *client.ChapterSummary
	for i := range *chapters.Data {
		if (*chapters.Data)[i].ID == chapterID {
			chapter = &(*chapters.Data)[i]
			break
		}
	}
	if chapter == nil {
		return ErrChapterNotFound
	}
	if chapter.NovelID == nil || *chapter.NovelID != novelID {
		return ErrChapterNovelMismatch
	}

	existing, err := repo.GetHistoryByUserAndNovel(ctx, s.DB, userID, novelID)
	if err != nil {
		return err
	}
	if existing != nil {
		return repo.UpdateHistoryChapter(ctx, s.DB, existing.ID, chapterID)
	}
	_, err = repo.CreateHistory(ctx, s.DB, userID, novelID, chapterID)
	return err
}

// UserHistory returns one page of the user's history ordered by recency,
// enriched with novel metadata, chapter numbers, and library membership.
//
// Enrichment is batched: one content call for all distinct novels on the
// page and one for all distinct chapters, each merged by id. Degraded
// batches leave the affected fields nil; pagination totals come from the
// local store alone and are always exact.
func (s *HistoryService) UserHistory(ctx context.Context, userID string, page, size int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	total, err := repo.CountHistory(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := &HistoryPage{Items: []HistoryEntry{}, TotalElements: total, Page: page, Size: size}
	if total == 0 {
		return out, nil
	}

	rows, err := repo.ListHistoryPage(ctx, s.DB, userID, (page-1)*size, size)
	if err != nil {
		return nil, err
	}

	novelIDs := distinctIDs(rows, func(h domain.History) int { return h.NovelID })
	chapterIDs := distinctIDs(rows, func(h domain.History) int { return h.ChapterID })

	novels := make(map[int]client.NovelSummary)
	if env := s.Content.GetNovelsBatch(ctx, novelIDs); env.OK() {
		for _, n := range *env.Data {
			novels[n.ID] = n
		}
	}
	chapters := make(map[int]client.ChapterSummary)
	if env := s.Content.GetChaptersBatch(ctx, chapterIDs); env.OK() {
		for _, c := range *env.Data {
			chapters[c.ID] = c
		}
	}
	inLibrary, err := repo.NovelsInLibrary(ctx, s.DB, userID, novelIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		entry := HistoryEntry{
			HistoryID: row.ID,
			NovelID:   row.NovelID,
			ChapterID: row.ChapterID,
			ViewTime:  row.UpdatedAt,
			InLibrary: inLibrary[row.NovelID],
		}
		if n, ok := novels[row.NovelID]; ok {
			entry.NovelTitle = n.Title
			entry.NovelCover = n.CoverImgURL
			entry.Synopsis = n.Synopsis
			entry.AvgRating = n.AvgRating
			entry.CategoryID = n.CategoryID
			entry.CategoryName = n.CategoryName
		}
		if c, ok := chapters[row.ChapterID]; ok {
			entry.ChapterNumber = c.ChapterNumber
		}
		out.Items = append(out.Items, entry)
	}
	return out, nil
}

// Delete removes a single history record. A record that does not exist and a
// record owned by a different user produce the same ErrHistoryNotFound, so a
// caller cannot distinguish "missing" from "not yours".
func (s *HistoryService) Delete(ctx context.Context, userID string, historyID int) error {
	h, err := repo.GetHistory(ctx, s.DB, historyID)
	if err != nil {
		return err
	}
	if h == nil || h.UserID != userID {
		return ErrHistoryNotFound
	}
	return repo.DeleteHistory(ctx, s.DB, historyID)
}

// Clear removes all of a user's history. Clearing an empty history succeeds.
func (s *HistoryService) Clear(ctx context.Context, userID string) error {
	return repo.DeleteHistoryByUser(ctx, s.DB, userID)
}

// distinctIDs extracts ids from the page rows preserving first-seen order.
func distinctIDs(rows []domain.History, get func(domain.History) int) []int {
	seen := make(map[int]bool, len(rows))
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		id := get(r)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
