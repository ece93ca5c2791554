// Package services – AnalyticsService
//
// This file implements the analytics aggregator. It composes counts from the
// local history store with quantities fetched through the upstream gateways
// into the summary, platform, top-content, top-readers, and ranking views.
//
// Partial-result policy, applied to every view: when a gateway-sourced
// quantity is unavailable (degraded envelope, missing payload, or
// non-success code), the aggregator substitutes a zero value for counts and
// an empty collection for lists, and still returns a fully structured
// response. A view only fails when the local store itself cannot answer.
package services

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/client"
	"github.com/yushan/go-analytics-backend/internal/repo"
)

// ContentAPI is the slice of the content gateway the aggregator consumes.
type ContentAPI interface {
	// GetNovelCount returns the platform-wide novel total.
	GetNovelCount(ctx context.Context) client.Envelope[int64]
	// GetNovelsBatch returns novels for the given ids, in no guaranteed order.
	GetNovelsBatch(ctx context.Context, novelIDs []int) client.Envelope[[]client.NovelSummary]
}

// EngagementAPI is the slice of the engagement gateway the aggregator consumes.
type EngagementAPI interface {
	// GetModerationStatistics returns the platform-wide engagement aggregate.
	GetModerationStatistics(ctx context.Context) client.Envelope[client.ModerationStatistics]
}

// RankingUserAPI is the slice of the user gateway the ranking and top-readers
// views consume.
type RankingUserAPI interface {
	// GetAllUsersForRanking pages through all users with the given sort.
	GetAllUsersForRanking(ctx context.Context, page, size int, sortBy, sortOrder string) client.Envelope[client.Page[client.UserProfile]]
	// GetUsersBatch returns profiles for the given ids, in no guaranteed order.
	GetUsersBatch(ctx context.Context, userIDs []string) client.Envelope[[]client.UserProfile]
}

// GamificationAPI is the slice of the gamification gateway the ranking view
// consumes.
type GamificationAPI interface {
	// GetBatchUsersStats returns stats for the given user ids, in no
	// guaranteed order.
	GetBatchUsersStats(ctx context.Context, userIDs []string) client.Envelope[[]client.GamificationStats]
}

// AnalyticsService computes the read-only analytics views. All methods are
// idempotent and safe for concurrent use.
type AnalyticsService struct {
	// DB is the GORM handle for the local history store.
	DB *gorm.DB
	// Content, Engagement, Users, Gamification are the upstream gateways.
	Content      ContentAPI
	Engagement   EngagementAPI
	Users        RankingUserAPI
	Gamification GamificationAPI
}

// NewAnalyticsService constructs an AnalyticsService over the given store
// and gateways.
func NewAnalyticsService(db *gorm.DB, content ContentAPI, engagement EngagementAPI, users RankingUserAPI, gamification GamificationAPI) *AnalyticsService {
	return &AnalyticsService{
		DB:           db,
		Content:      content,
		Engagement:   engagement,
		Users:        users,
		Gamification: gamification,
	}
}

// defaultTrailingDays is the window applied when the caller supplies no range.
const defaultTrailingDays = 30

// normalizeRange fills missing range bounds: a zero end becomes now, a zero
// start becomes end minus the default trailing window.
func normalizeRange(start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -defaultTrailingDays)
	}
	return start, end
}

// normalizePeriod clamps the bucket granularity to day/week/month.
func normalizePeriod(period string) string {
	switch period {
	case "week", "month":
		return period
	default:
		return "day"
	}
}

// UserTrends buckets distinct-active-user counts over the range, annotates
// per-bucket growth, and derives total, average growth, and peak.
func (s *AnalyticsService) UserTrends(ctx context.Context, start, end time.Time, period string) (*TrendReport, error) {
	start, end = normalizeRange(start, end)
	period = normalizePeriod(period)

	buckets, err := repo.UserActivityBuckets(ctx, s.DB, start, end, period)
	if err != nil {
		return nil, err
	}

	points := make([]TrendDataPoint, len(buckets))
	var total int64
	for i, b := range buckets {
		points[i] = TrendDataPoint{PeriodLabel: b.Label, Count: b.Count}
		total += b.Count
	}
	AnnotateGrowth(points)

	report := &TrendReport{
		Period:        period,
		StartDate:     start,
		EndDate:       end,
		DataPoints:    points,
		TotalCount:    total,
		AverageGrowth: AverageGrowth(points),
	}
	if peak := PeakPoint(points); peak != nil {
		report.PeakValue = peak.Count
		report.PeakDate = peak.PeriodLabel
	}
	return report, nil
}

// ReadingActivity buckets reading-session counts over the range and derives
// total, per-bucket average, and peak.
func (s *AnalyticsService) ReadingActivity(ctx context.Context, start, end time.Time, period string) (*ActivityReport, error) {
	start, end = normalizeRange(start, end)
	period = normalizePeriod(period)

	buckets, err := repo.ReadingActivityBuckets(ctx, s.DB, start, end, period)
	if err != nil {
		return nil, err
	}

	points := make([]ActivityDataPoint, len(buckets))
	var total int64
	for i, b := range buckets {
		count := b.Count
		points[i] = ActivityDataPoint{PeriodLabel: b.Label, TotalActivity: &count}
		total += count
	}
	AnnotateActivityGrowth(points)

	report := &ActivityReport{
		Period:        period,
		StartDate:     start,
		EndDate:       end,
		DataPoints:    points,
		TotalActivity: total,
	}
	if len(points) > 0 {
		report.AverageDailyActivity = float64(total) / float64(len(points))
	}
	if peak := PeakActivity(points); peak != nil {
		report.PeakActivity = activityValue(*peak)
		report.PeakDate = peak.PeriodLabel
	}
	return report, nil
}

// Summary computes the activity overview for the range, with growth rates
// against the immediately preceding window of equal length and comment
// totals from the engagement domain.
func (s *AnalyticsService) Summary(ctx context.Context, start, end time.Time, period string) (*ActivitySummary, error) {
	start, end = normalizeRange(start, end)

	activeUsers, err := repo.ActiveUserCount(ctx, s.DB, start, end)
	if err != nil {
		return nil, err
	}
	uniqueNovels, err := repo.UniqueNovelsRead(ctx, s.DB, start, end)
	if err != nil {
		return nil, err
	}
	sessions, err := repo.TotalReadingSessions(ctx, s.DB, start, end)
	if err != nil {
		return nil, err
	}

	// Preceding window of equal length, ending where this one starts.
	window := end.Sub(start)
	prevStart, prevEnd := start.Add(-window), start

	prevUsers, err := repo.ActiveUserCount(ctx, s.DB, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	prevNovels, err := repo.UniqueNovelsRead(ctx, s.DB, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	prevSessions, err := repo.TotalReadingSessions(ctx, s.DB, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	summary := &ActivitySummary{
		StartDate:            start,
		EndDate:              end,
		Period:               period,
		ActiveUsers:          activeUsers,
		UniqueNovelsRead:     uniqueNovels,
		TotalReadingSessions: sessions,
		UserGrowthRate:       GrowthRate(prevUsers, activeUsers),
		NovelGrowthRate:      GrowthRate(prevNovels, uniqueNovels),
		SessionGrowthRate:    GrowthRate(prevSessions, sessions),
	}

	// Enrichment: comment totals degrade to 0, never fail the view.
	if stats := s.Engagement.GetModerationStatistics(ctx); stats.OK() && stats.Data.TotalComments != nil {
		summary.TotalComments = *stats.Data.TotalComments
	}

	return summary, nil
}

// Platform computes the platform-wide overview. The two upstream totals have
// no ordering dependency and are fetched concurrently; each merges
// independently under the partial-result policy, so completion order cannot
// change the output.
func (s *AnalyticsService) Platform(ctx context.Context) (*PlatformStatistics, error) {
	now := time.Now().UTC()
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)
	// "All time" approximated by a start date older than any record.
	veryOld := now.AddDate(-100, 0, 0)

	dau, err := repo.DailyActiveUsers(ctx, s.DB, now)
	if err != nil {
		return nil, err
	}
	wau, err := repo.ActiveUserCount(ctx, s.DB, weekStart, now)
	if err != nil {
		return nil, err
	}
	mau, err := repo.ActiveUserCount(ctx, s.DB, monthStart, now)
	if err != nil {
		return nil, err
	}
	sessions, err := repo.TotalReadingSessions(ctx, s.DB, veryOld, now)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStatistics{
		Timestamp:            now,
		DailyActiveUsers:     dau,
		WeeklyActiveUsers:    wau,
		MonthlyActiveUsers:   mau,
		TotalReadingSessions: sessions,
	}

	var novelCount client.Envelope[int64]
	var moderation client.Envelope[client.ModerationStatistics]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		novelCount = s.Content.GetNovelCount(gctx)
		return nil
	})
	g.Go(func() error {
		moderation = s.Engagement.GetModerationStatistics(gctx)
		return nil
	})
	_ = g.Wait() // gateways never return errors

	if novelCount.OK() {
		stats.TotalNovels = *novelCount.Data
	}
	if moderation.OK() && moderation.Data.TotalComments != nil {
		stats.TotalComments = *moderation.Data.TotalComments
	}

	return stats, nil
}

// DailyActive computes DAU/WAU/MAU for the given day (default today) with a
// zero-filled hourly breakdown.
func (s *AnalyticsService) DailyActive(ctx context.Context, day time.Time) (*DailyActiveUsersReport, error) {
	if day.IsZero() {
		day = time.Now().UTC()
	}

	dau, err := repo.DailyActiveUsers(ctx, s.DB, day)
	if err != nil {
		return nil, err
	}
	wau, err := repo.ActiveUserCount(ctx, s.DB, day.AddDate(0, 0, -7), day)
	if err != nil {
		return nil, err
	}
	mau, err := repo.ActiveUserCount(ctx, s.DB, day.AddDate(0, -1, 0), day)
	if err != nil {
		return nil, err
	}

	buckets, err := repo.HourlyActiveUsers(ctx, s.DB, day)
	if err != nil {
		return nil, err
	}
	byHour := make(map[int]int64, len(buckets))
	for _, b := range buckets {
		if h, err := strconv.Atoi(b.Label); err == nil {
			byHour[h] = b.Count
		}
	}
	hourly := make([]ActivityDataPoint, 24)
	for h := 0; h < 24; h++ {
		count := byHour[h]
		hourly[h] = ActivityDataPoint{
			PeriodLabel:   strconv.Itoa(h) + ":00",
			TotalActivity: &count,
		}
	}

	return &DailyActiveUsersReport{
		Date:            day,
		DAU:             dau,
		WAU:             wau,
		MAU:             mau,
		HourlyBreakdown: hourly,
	}, nil
}

// TopContent returns the top-N most-read novel ids from the local store,
// enriched by a single batched content call. Results are keyed by id; the
// local ranking order is preserved regardless of the batch response order.
// Zero range bounds rank over all recorded history; a bounded range ranks
// only rows touched within it.
func (s *AnalyticsService) TopContent(ctx context.Context, start, end time.Time, limit int) (*TopContent, error) {
	if limit <= 0 {
		limit = 10
	}

	var ids []int
	var err error
	if start.IsZero() && end.IsZero() {
		ids, err = repo.MostReadNovelIDs(ctx, s.DB, limit)
	} else {
		start, end = normalizeRange(start, end)
		ids, err = repo.MostReadNovelIDsByDateRange(ctx, s.DB, start, end, limit)
	}
	if err != nil {
		return nil, err
	}

	top := &TopContent{Date: time.Now().UTC(), TopNovels: []TopNovel{}}
	if len(ids) == 0 {
		return top, nil
	}

	env := s.Content.GetNovelsBatch(ctx, ids)
	if !env.OK() {
		// Enrichment unavailable: the view stays structurally complete.
		return top, nil
	}

	byID := make(map[int]client.NovelSummary, len(*env.Data))
	for _, n := range *env.Data {
		byID[n.ID] = n
	}
	for _, id := range ids {
		n, ok := byID[id]
		if !ok {
			continue // novel deleted upstream after local ranking
		}
		tn := TopNovel{
			ID:           n.ID,
			Title:        n.Title,
			AuthorName:   n.AuthorUsername,
			CategoryName: n.CategoryName,
		}
		if n.ViewCnt != nil {
			tn.ViewCount = *n.ViewCnt
		}
		if n.VoteCnt != nil {
			tn.VoteCount = *n.VoteCnt
		}
		if n.AvgRating != nil {
			tn.Rating = *n.AvgRating
		}
		top.TopNovels = append(top.TopNovels, tn)
	}
	return top, nil
}

// TopReaders returns the top-N most active reader ids from the local store,
// enriched by a single batched user call. Results are keyed by id with the
// local ranking order preserved; a degraded batch leaves the list empty.
func (s *AnalyticsService) TopReaders(ctx context.Context, limit int) (*TopReaders, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := repo.MostActiveUserIDs(ctx, s.DB, limit)
	if err != nil {
		return nil, err
	}

	top := &TopReaders{Date: time.Now().UTC(), Readers: []TopReader{}}
	if len(ids) == 0 {
		return top, nil
	}

	env := s.Users.GetUsersBatch(ctx, ids)
	if !env.OK() {
		return top, nil
	}

	byID := make(map[string]client.UserProfile, len(*env.Data))
	for _, p := range *env.Data {
		byID[p.UUID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue // account removed upstream after local ranking
		}
		top.Readers = append(top.Readers, TopReader{
			UUID:      p.UUID,
			Username:  p.Username,
			AvatarURL: p.AvatarURL,
		})
	}
	return top, nil
}

// UserRanking returns one page of users enriched with gamification progress.
// Both sources are upstream; either degrading yields an empty or
// unenriched page, never an error.
func (s *AnalyticsService) UserRanking(ctx context.Context, page, size int) (*UserRankingPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	out := &UserRankingPage{Items: []RankedUser{}, Page: page, Size: size}

	users := s.Users.GetAllUsersForRanking(ctx, page-1, size, "createTime", "desc")
	if !users.OK() || len(users.Data.Content) == 0 {
		return out, nil
	}
	out.TotalElements = users.Data.TotalElements

	ids := make([]string, 0, len(users.Data.Content))
	for _, u := range users.Data.Content {
		ids = append(ids, u.UUID)
	}
	statsByID := make(map[string]client.GamificationStats)
	if stats := s.Gamification.GetBatchUsersStats(ctx, ids); stats.OK() {
		for _, st := range *stats.Data {
			statsByID[st.UserID] = st
		}
	}

	for _, u := range users.Data.Content {
		ranked := RankedUser{UUID: u.UUID, Username: u.Username}
		if st, ok := statsByID[u.UUID]; ok {
			ranked.Level = st.Level
			ranked.Exp = st.CurrentExp
		}
		out.Items = append(out.Items, ranked)
	}
	return out, nil
}
