// Package repo implements the data persistence layer for the local store,
// backed by GORM. This file provides the read-only aggregate queries the
// analytics views are computed from. All aggregates derive from the history
// table; analytics has no table of its own.
//
// Activity timestamps are the UpdatedAt column: a user is "active" in a
// window when at least one of their history rows was touched in it.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/domain"
)

// BucketCount is one time bucket of an aggregate query: a period label (its
// format depends on the requested granularity) and the count in that bucket.
type BucketCount struct {
	Label string
	Count int64
}

// periodFormat maps a period granularity to a SQLite strftime format whose
// labels sort chronologically when sorted lexicographically.
func periodFormat(period string) string {
	switch period {
	case "week":
		return "%Y-W%W"
	case "month":
		return "%Y-%m"
	default: // day
		return "%Y-%m-%d"
	}
}

// UserActivityBuckets returns distinct-active-user counts bucketed by period
// between start (inclusive) and end (exclusive), ordered chronologically.
func UserActivityBuckets(ctx context.Context, db *gorm.DB, start, end time.Time, period string) ([]BucketCount, error) {
	var rows []BucketCount
	err := db.WithContext(ctx).Raw(
		`SELECT strftime(?, updated_at) AS label, COUNT(DISTINCT user_id) AS count
		   FROM history
		  WHERE updated_at >= ? AND updated_at < ?
		  GROUP BY label
		  ORDER BY label ASC`,
		periodFormat(period), start, end,
	).Scan(&rows).Error
	return rows, err
}

// ReadingActivityBuckets returns reading-session counts (history rows
// touched) bucketed by period, ordered chronologically.
func ReadingActivityBuckets(ctx context.Context, db *gorm.DB, start, end time.Time, period string) ([]BucketCount, error) {
	var rows []BucketCount
	err := db.WithContext(ctx).Raw(
		`SELECT strftime(?, updated_at) AS label, COUNT(*) AS count
		   FROM history
		  WHERE updated_at >= ? AND updated_at < ?
		  GROUP BY label
		  ORDER BY label ASC`,
		periodFormat(period), start, end,
	).Scan(&rows).Error
	return rows, err
}

// HourlyActiveUsers returns distinct-active-user counts per hour of the
// given calendar day. Hours with no activity are absent; callers zero-fill.
func HourlyActiveUsers(ctx context.Context, db *gorm.DB, day time.Time) ([]BucketCount, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	var rows []BucketCount
	err := db.WithContext(ctx).Raw(
		`SELECT strftime('%H', updated_at) AS label, COUNT(DISTINCT user_id) AS count
		   FROM history
		  WHERE updated_at >= ? AND updated_at < ?
		  GROUP BY label
		  ORDER BY label ASC`,
		start, end,
	).Scan(&rows).Error
	return rows, err
}

// ActiveUserCount returns the number of distinct users active in [start, end).
func ActiveUserCount(ctx context.Context, db *gorm.DB, start, end time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.History{}).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

// DailyActiveUsers returns the distinct active users on the given calendar day.
func DailyActiveUsers(ctx context.Context, db *gorm.DB, day time.Time) (int64, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	return ActiveUserCount(ctx, db, start, start.Add(24*time.Hour))
}

// UniqueNovelsRead returns the number of distinct novels read in [start, end).
func UniqueNovelsRead(ctx context.Context, db *gorm.DB, start, end time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.History{}).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Distinct("novel_id").
		Count(&n).Error
	return n, err
}

// TotalReadingSessions returns the number of history rows touched in
// [start, end).
func TotalReadingSessions(ctx context.Context, db *gorm.DB, start, end time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.History{}).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Count(&n).Error
	return n, err
}

// MostReadNovelIDs returns the novel ids with the most history rows, most
// read first; ties break on the lower novel id for determinism.
func MostReadNovelIDs(ctx context.Context, db *gorm.DB, limit int) ([]int, error) {
	var ids []int
	err := db.WithContext(ctx).Raw(
		`SELECT novel_id
		   FROM history
		  GROUP BY novel_id
		  ORDER BY COUNT(*) DESC, novel_id ASC
		  LIMIT ?`,
		limit,
	).Scan(&ids).Error
	return ids, err
}

// MostReadNovelIDsByDateRange is MostReadNovelIDs restricted to rows touched
// in [start, end).
func MostReadNovelIDsByDateRange(ctx context.Context, db *gorm.DB, start, end time.Time, limit int) ([]int, error) {
	var ids []int
	err := db.WithContext(ctx).Raw(
		`SELECT novel_id
		   FROM history
		  WHERE updated_at >= ? AND updated_at < ?
		  GROUP BY novel_id
		  ORDER BY COUNT(*) DESC, novel_id ASC
		  LIMIT ?`,
		start, end, limit,
	).Scan(&ids).Error
	return ids, err
}

// MostActiveUserIDs returns the user ids with the most history rows, most
// active first.
func MostActiveUserIDs(ctx context.Context, db *gorm.DB, limit int) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Raw(
		`SELECT user_id
		   FROM history
		  GROUP BY user_id
		  ORDER BY COUNT(*) DESC, user_id ASC
		  LIMIT ?`,
		limit,
	).Scan(&ids).Error
	return ids, err
}
