// Response shapes produced by the aggregator and the enrichment pipeline.
//
// These are the service's own outward contract, consumed by the HTTP layer.
// Enrichment fields sourced from upstream domains are pointers: nil means
// the upstream could not supply the value, never that the view failed.
package services

import "time"

// TrendDataPoint is one bucket of a user-activity trend series. GrowthRate
// is nil until annotated; the first point's rate is always 0.0 since it has
// no predecessor.
type TrendDataPoint struct {
	PeriodLabel string   `json:"periodLabel"`
	Count       int64    `json:"count"`
	GrowthRate  *float64 `json:"growthRate"`
}

// ActivityDataPoint is one bucket of a reading-activity series. A nil
// TotalActivity is treated as 0 wherever the series is aggregated. GrowthRate
// is nil until annotated; the hourly breakdown never annotates it.
type ActivityDataPoint struct {
	PeriodLabel   string   `json:"periodLabel"`
	TotalActivity *int64   `json:"totalActivity"`
	GrowthRate    *float64 `json:"growthRate,omitempty"`
}

// TrendReport is the user-activity trend view over a date range.
type TrendReport struct {
	Period        string           `json:"period"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	DataPoints    []TrendDataPoint `json:"dataPoints"`
	TotalCount    int64            `json:"totalCount"`
	AverageGrowth float64          `json:"averageGrowth"`
	PeakValue     int64            `json:"peakValue"`
	PeakDate      string           `json:"peakDate"`
}

// ActivityReport is the reading-activity trend view over a date range.
type ActivityReport struct {
	Period               string              `json:"period"`
	StartDate            time.Time           `json:"startDate"`
	EndDate              time.Time           `json:"endDate"`
	DataPoints           []ActivityDataPoint `json:"dataPoints"`
	TotalActivity        int64               `json:"totalActivity"`
	AverageDailyActivity float64             `json:"averageDailyActivity"`
	PeakActivity         int64               `json:"peakActivity"`
	PeakDate             string              `json:"peakDate"`
}

// ActivitySummary is the activity overview for a window, with growth rates
// against the immediately preceding window of equal length.
//
// AverageRating and TotalReviews remain nil: the engagement domain exposes
// no aggregate endpoint for them yet. They are explicitly not-collected
// rather than a misleading zero.
type ActivitySummary struct {
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	Period               string    `json:"period,omitempty"`
	ActiveUsers          int64     `json:"activeUsers"`
	UniqueNovelsRead     int64     `json:"uniqueNovelsRead"`
	TotalReadingSessions int64     `json:"totalReadingSessions"`
	UserGrowthRate       float64   `json:"userGrowthRate"`
	NovelGrowthRate      float64   `json:"novelGrowthRate"`
	SessionGrowthRate    float64   `json:"sessionGrowthRate"`
	TotalComments        int64     `json:"totalComments"`
	TotalReviews         *int64    `json:"totalReviews,omitempty"`
	AverageRating        *float64  `json:"averageRating,omitempty"`
}

// PlatformStatistics is the platform-wide overview combining local activity
// counts with upstream-sourced totals.
type PlatformStatistics struct {
	Timestamp            time.Time `json:"timestamp"`
	DailyActiveUsers     int64     `json:"dailyActiveUsers"`
	WeeklyActiveUsers    int64     `json:"weeklyActiveUsers"`
	MonthlyActiveUsers   int64     `json:"monthlyActiveUsers"`
	TotalReadingSessions int64     `json:"totalReadingSessions"`
	TotalNovels          int64     `json:"totalNovels"`
	TotalComments        int64     `json:"totalComments"`
	TotalReviews         *int64    `json:"totalReviews,omitempty"`
}

// TopNovel is one entry of the top-content view: a locally-ranked novel id
// enriched with content-domain metadata when available.
type TopNovel struct {
	ID           int      `json:"id"`
	Title        *string  `json:"title"`
	AuthorName   *string  `json:"authorName"`
	CategoryName *string  `json:"categoryName"`
	ViewCount    int64    `json:"viewCount"`
	VoteCount    int64    `json:"voteCount"`
	Rating       float64  `json:"rating"`
}

// TopContent is the most-read-content view.
type TopContent struct {
	Date      time.Time  `json:"date"`
	TopNovels []TopNovel `json:"topNovels"`
}

// TopReader is one entry of the most-active-readers view: a locally-ranked
// user id enriched with profile data when available.
type TopReader struct {
	UUID      string  `json:"uuid"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
}

// TopReaders is the most-active-readers view.
type TopReaders struct {
	Date    time.Time   `json:"date"`
	Readers []TopReader `json:"readers"`
}

// DailyActiveUsersReport is the DAU/WAU/MAU view for one calendar day with
// an hourly breakdown (24 buckets, zero-filled).
type DailyActiveUsersReport struct {
	Date            time.Time           `json:"date"`
	DAU             int64               `json:"dau"`
	WAU             int64               `json:"wau"`
	MAU             int64               `json:"mau"`
	HourlyBreakdown []ActivityDataPoint `json:"hourlyBreakdown"`
}

// RankedUser is one entry of the user-ranking view: a user-domain profile
// page entry enriched with gamification progress when available.
type RankedUser struct {
	UUID     string  `json:"uuid"`
	Username *string `json:"username"`
	Level    *int    `json:"level"`
	Exp      *int    `json:"currentExp"`
}

// UserRankingPage is one page of the user-ranking view.
type UserRankingPage struct {
	Items         []RankedUser `json:"items"`
	TotalElements int64        `json:"totalElements"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
}

// HistoryEntry is one reading-history record enriched with novel metadata,
// chapter metadata, and library membership. Every enrichment field is nil
// (or false for InLibrary) when its source could not supply it.
type HistoryEntry struct {
	HistoryID     int       `json:"historyId"`
	NovelID       int       `json:"novelId"`
	ChapterID     int       `json:"chapterId"`
	ViewTime      time.Time `json:"viewTime"`
	NovelTitle    *string   `json:"novelTitle"`
	NovelCover    *string   `json:"novelCover"`
	Synopsis      *string   `json:"synopsis"`
	AvgRating     *float64  `json:"avgRating"`
	CategoryID    *int      `json:"categoryId"`
	CategoryName  *string   `json:"categoryName"`
	ChapterNumber *int      `json:"chapterNumber"`
	InLibrary     bool      `json:"inLibrary"`
}

// HistoryPage is one page of a user's enriched reading history.
type HistoryPage struct {
	Items         []HistoryEntry `json:"items"`
	TotalElements int64          `json:"totalElements"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}
