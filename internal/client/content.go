package client

import (
	"context"
	"strconv"
	"time"
)

// ContentGateway is the resilient typed client for the content domain
// (novels, chapters, categories).
type ContentGateway struct {
	g *gateway
}

// NewContentGateway constructs a ContentGateway sharing the given breaker
// across all callers of the content upstream.
func NewContentGateway(baseURL string, timeout time.Duration, breaker *Breaker) *ContentGateway {
	return &ContentGateway{g: newGateway("content-service", baseURL, timeout, breaker)}
}

// Breaker exposes the content upstream's circuit breaker.
func (c *ContentGateway) Breaker() *Breaker { return c.g.breaker }

// GetNovelByID fetches a single novel by its integer id.
func (c *ContentGateway) GetNovelByID(ctx context.Context, novelID int) Envelope[NovelSummary] {
	return getJSON[NovelSummary](ctx, c.g, "getNovelById", "/api/v1/novels/"+strconv.Itoa(novelID), nil)
}

// GetNovelsBatch fetches novels for the given ids. Result order is not
// correlated to request order; key results by id.
func (c *ContentGateway) GetNovelsBatch(ctx context.Context, novelIDs []int) Envelope[[]NovelSummary] {
	return postJSON[[]NovelSummary](ctx, c.g, "getNovelsBatch", "/api/v1/novels/batch/get", novelIDs)
}

// GetNovels pages through all novels with the given sort.
func (c *ContentGateway) GetNovels(ctx context.Context, page, size int, sort, order string) Envelope[Page[NovelSummary]] {
	q := pageQuery(page, size, "sort", sort, "order", order)
	return getJSON[Page[NovelSummary]](ctx, c.g, "getNovels", "/api/v1/novels/admin/all", q)
}

// GetNovelCount returns the total number of novels on the platform.
func (c *ContentGateway) GetNovelCount(ctx context.Context) Envelope[int64] {
	return getJSON[int64](ctx, c.g, "getNovelCount", "/api/v1/novels/count", nil)
}

// GetNovelsByAuthor pages through an author's novels.
func (c *ContentGateway) GetNovelsByAuthor(ctx context.Context, authorID string, page, size int) Envelope[Page[NovelSummary]] {
	q := pageQuery(page, size, "", "", "", "")
	return getJSON[Page[NovelSummary]](ctx, c.g, "getNovelsByAuthor", "/api/v1/novels/author/"+authorID, q)
}

// GetNovelsByCategory pages through a category's novels.
func (c *ContentGateway) GetNovelsByCategory(ctx context.Context, categoryID, page, size int) Envelope[Page[NovelSummary]] {
	q := pageQuery(page, size, "", "", "", "")
	return getJSON[Page[NovelSummary]](ctx, c.g, "getNovelsByCategory", "/api/v1/novels/category/"+strconv.Itoa(categoryID), q)
}

// GetCategoryByID fetches a single category.
func (c *ContentGateway) GetCategoryByID(ctx context.Context, categoryID int) Envelope[CategorySummary] {
	return getJSON[CategorySummary](ctx, c.g, "getCategoryById", "/api/v1/categories/"+strconv.Itoa(categoryID), nil)
}

// GetAllCategories lists every category.
func (c *ContentGateway) GetAllCategories(ctx context.Context) Envelope[[]CategorySummary] {
	return getJSON[[]CategorySummary](ctx, c.g, "getAllCategories", "/api/v1/categories", nil)
}

// GetCategoryStatistics fetches per-category aggregates.
func (c *ContentGateway) GetCategoryStatistics(ctx context.Context, categoryID int) Envelope[CategoryStatistics] {
	return getJSON[CategoryStatistics](ctx, c.g, "getCategoryStatistics", "/api/v1/categories/"+strconv.Itoa(categoryID)+"/statistics", nil)
}

// GetChapterByUUID fetches a single chapter by its UUID.
func (c *ContentGateway) GetChapterByUUID(ctx context.Context, chapterUUID string) Envelope[ChapterSummary] {
	return getJSON[ChapterSummary](ctx, c.g, "getChapterByUuid", "/api/v1/chapters/"+chapterUUID, nil)
}

// GetChaptersBatch fetches chapters for the given integer ids. Result order
// is not correlated to request order; key results by id.
func (c *ContentGateway) GetChaptersBatch(ctx context.Context, chapterIDs []int) Envelope[[]ChapterSummary] {
	return postJSON[[]ChapterSummary](ctx, c.g, "getChaptersBatch", "/api/v1/chapters/batch/get", chapterIDs)
}
