// Upstream value objects.
//
// These are immutable snapshots of data owned by other bounded contexts.
// They are fetched fresh per call, never persisted locally, and staleness is
// accepted. Every field that the source JSON contract marks optional is a
// pointer; deserialization leaves it nil when the upstream omitted it.
package client

// Page mirrors the upstream paginated response shape. Content order follows
// the upstream's sort, not any request-side ordering.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
}

// UserProfile is a snapshot of a user as the user domain exposes it.
type UserProfile struct {
	UUID      string  `json:"uuid"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
	Email     *string `json:"email"`
}

// NovelSummary is a snapshot of a novel from the content domain.
type NovelSummary struct {
	ID             int      `json:"id"`
	Title          *string  `json:"title"`
	AuthorUsername *string  `json:"authorUsername"`
	CategoryID     *int     `json:"categoryId"`
	CategoryName   *string  `json:"categoryName"`
	CoverImgURL    *string  `json:"coverImgUrl"`
	Synopsis       *string  `json:"synopsis"`
	AvgRating      *float64 `json:"avgRating"`
	ViewCnt        *int64   `json:"viewCnt"`
	VoteCnt        *int64   `json:"voteCnt"`
}

// ChapterSummary is a snapshot of a chapter from the content domain.
type ChapterSummary struct {
	ID            int     `json:"id"`
	UUID          string  `json:"uuid"`
	NovelID       *int    `json:"novelId"`
	ChapterNumber *int    `json:"chapterNumber"`
	Title         *string `json:"title"`
}

// CategorySummary is a snapshot of a novel category.
type CategorySummary struct {
	ID   int     `json:"id"`
	Name *string `json:"name"`
}

// CategoryStatistics aggregates per-category counters from the content domain.
type CategoryStatistics struct {
	NovelCount    *int `json:"novelCount"`
	TotalViews    *int `json:"totalViews"`
	TotalChapters *int `json:"totalChapters"`
}

// RatingStats is the per-novel rating aggregate from the engagement domain.
type RatingStats struct {
	AverageRating *float64 `json:"averageRating"`
	TotalReviews  *int     `json:"totalReviews"`
	Rating1Count  *int     `json:"rating1Count"`
	Rating2Count  *int     `json:"rating2Count"`
	Rating3Count  *int     `json:"rating3Count"`
	Rating4Count  *int     `json:"rating4Count"`
	Rating5Count  *int     `json:"rating5Count"`
}

// ReviewSummary is one review as the engagement domain exposes it.
type ReviewSummary struct {
	ID        int     `json:"id"`
	NovelID   int     `json:"novelId"`
	UserID    string  `json:"userId"`
	Rating    *int    `json:"rating"`
	Content   *string `json:"content"`
	LikeCount *int    `json:"likeCount"`
	CreatedAt *string `json:"createTime"`
}

// CommentStatistics aggregates per-chapter comment counters.
type CommentStatistics struct {
	TotalComments   *int `json:"totalComments"`
	SpoilerComments *int `json:"spoilerComments"`
	RecentComments  *int `json:"recentComments"`
}

// ModerationStatistics is the engagement domain's platform-wide aggregate.
type ModerationStatistics struct {
	TotalComments   *int64 `json:"totalComments"`
	PendingReports  *int64 `json:"pendingReports"`
	ResolvedReports *int64 `json:"resolvedReports"`
	FlaggedComments *int64 `json:"flaggedComments"`
}

// GamificationStats is a per-user progress snapshot from the gamification
// domain.
type GamificationStats struct {
	UserID               string `json:"userId"`
	Level                *int   `json:"level"`
	CurrentExp           *int   `json:"currentExp"`
	TotalExpForNextLevel *int   `json:"totalExpForNextLevel"`
	YuanBalance          *int   `json:"yuanBalance"`
}
