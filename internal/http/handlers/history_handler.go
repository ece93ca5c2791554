// Reading-history HTTP handlers.
//
// This file exposes REST endpoints for the history pipeline and library
// membership:
//   - POST   /history              (record a chapter read, idempotent upsert)
//   - GET    /history              (enriched page, paginated)
//   - DELETE /history/{id}         (delete one record)
//   - DELETE /history              (clear all records)
//   - POST   /library/{novelId}    (add to library)
//   - DELETE /library/{novelId}    (remove from library)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate sentinel errors into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yushan/go-analytics-backend/internal/services"
	"github.com/yushan/go-analytics-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// HistoryService defines the reading-history operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type HistoryService interface {
	// AddOrUpdate records a chapter read, upserting on (user, novel).
	AddOrUpdate(ctx context.Context, userID string, novelID, chapterID int) error
	// UserHistory returns one enriched page of the user's history.
	UserHistory(ctx context.Context, userID string, page, size int) (*services.HistoryPage, error)
	// Delete removes one record owned by the user.
	Delete(ctx context.Context, userID string, historyID int) error
	// Clear removes all of the user's records.
	Clear(ctx context.Context, userID string) error
}

// LibraryService defines library membership operations consumed by HTTP
// handlers.
type LibraryService interface {
	Add(ctx context.Context, userID string, novelID int) error
	Remove(ctx context.Context, userID string, novelID int) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for history, library, and analytics.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	historySvc   HistoryService
	librarySvc   LibraryService
	analyticsSvc AnalyticsService
}

// New constructs a Handlers instance bound to the given services.
func New(historySvc HistoryService, librarySvc LibraryService, analyticsSvc AnalyticsService) *Handlers {
	return &Handlers{historySvc: historySvc, librarySvc: librarySvc, analyticsSvc: analyticsSvc}
}

// userID extracts the authenticated user id from Gin context (set by
// upstream middleware). If absent, it falls back to the "X-User-ID" header,
// and finally to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// RecordReadRequest is the JSON payload for recording a chapter read.
type RecordReadRequest struct {
	NovelID   int `json:"novelId" binding:"required,gt=0"`
	ChapterID int `json:"chapterId" binding:"required,gt=0"`
}

//
// Helpers
//

// clampPagination parses and bounds page and size query params to sane
// defaults and limits, returning (page, size).
func clampPagination(c *gin.Context) (page, size int) {
	const (
		defaultPage = 1
		defaultSize = 20
		maxSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	size = utils.AtoiDefault(c.Query("size"), defaultSize)
	if size < 1 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}
	return
}

// failHistoryErr maps the history pipeline's sentinel errors to HTTP
// responses; anything unrecognized is a 500.
func failHistoryErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, services.ErrNovelNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "novel not found")
	case errors.Is(err, services.ErrChapterNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chapter not found")
	case errors.Is(err, services.ErrChapterNovelMismatch):
		fail(c, http.StatusBadRequest, ErrCodeChapterMismatch, "chapter does not belong to novel")
	case errors.Is(err, services.ErrHistoryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "history record not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// RecordRead records that the current user read a chapter. The operation is
// an idempotent upsert: re-reading a novel advances the chapter pointer.
func (h *Handlers) RecordRead(c *gin.Context) {
	var req RecordReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "novelId and chapterId are required positive integers")
		return
	}

	if err := h.historySvc.AddOrUpdate(c.Request.Context(), userID(c), req.NovelID, req.ChapterID); err != nil {
		failHistoryErr(c, err)
		return
	}
	noContent(c)
}

// ListHistory returns one enriched, paginated page of the current user's
// reading history, newest first.
func (h *Handlers) ListHistory(c *gin.Context) {
	page, size := clampPagination(c)

	result, err := h.historySvc.UserHistory(c.Request.Context(), userID(c), page, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, result)
}

// DeleteHistory removes a single history record owned by the current user.
func (h *Handlers) DeleteHistory(c *gin.Context) {
	id := utils.AtoiDefault(c.Param("id"), 0)
	if id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be a positive integer")
		return
	}

	if err := h.historySvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		failHistoryErr(c, err)
		return
	}
	noContent(c)
}

// ClearHistory removes all of the current user's history records. Clearing
// an empty history succeeds.
func (h *Handlers) ClearHistory(c *gin.Context) {
	if err := h.historySvc.Clear(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// AddToLibrary puts a novel in the current user's library.
func (h *Handlers) AddToLibrary(c *gin.Context) {
	novelID := utils.AtoiDefault(c.Param("novelId"), 0)
	if novelID <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "novel id must be a positive integer")
		return
	}

	if err := h.librarySvc.Add(c.Request.Context(), userID(c), novelID); err != nil {
		failHistoryErr(c, err)
		return
	}
	noContent(c)
}

// RemoveFromLibrary takes a novel out of the current user's library.
func (h *Handlers) RemoveFromLibrary(c *gin.Context) {
	novelID := utils.AtoiDefault(c.Param("novelId"), 0)
	if novelID <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "novel id must be a positive integer")
		return
	}

	if err := h.librarySvc.Remove(c.Request.Context(), userID(c), novelID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
