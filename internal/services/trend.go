// Trend computation: growth-rate annotation, averages, and peak detection
// over time-bucketed series. Pure functions over locally computed counts.
package services

// GrowthRate returns the period-over-period growth percentage between a
// previous value and a current value.
//
// Edge cases, applied uniformly wherever two periods are compared:
//   - previous == 0: 100.0 when current > 0, else 0.0
//   - otherwise: (current - previous) / previous * 100.0
func GrowthRate(previous, current int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// GrowthRateOpt is GrowthRate over nullable counts: a nil previous reads as
// 0, a nil current yields -100.0 (the value fell off entirely).
func GrowthRateOpt(previous, current *int64) float64 {
	if previous == nil || *previous == 0 {
		if current != nil && *current > 0 {
			return 100.0
		}
		return 0.0
	}
	if current == nil {
		return -100.0
	}
	return GrowthRate(*previous, *current)
}

// AnnotateGrowth sets each point's growth rate relative to its immediate
// predecessor in a single pass. The first point's rate is always 0.0.
func AnnotateGrowth(points []TrendDataPoint) {
	for i := range points {
		var rate float64
		if i > 0 {
			rate = GrowthRate(points[i-1].Count, points[i].Count)
		}
		r := rate
		points[i].GrowthRate = &r
	}
}

// AnnotateActivityGrowth sets each point's growth rate relative to its
// predecessor's nullable activity count in a single pass. The first point's
// rate is always 0.0.
func AnnotateActivityGrowth(points []ActivityDataPoint) {
	for i := range points {
		var rate float64
		if i > 0 {
			rate = GrowthRateOpt(points[i-1].TotalActivity, points[i].TotalActivity)
		}
		r := rate
		points[i].GrowthRate = &r
	}
}

// AverageGrowth returns the mean of all computed per-point growth rates,
// or 0.0 when no point carries a rate.
func AverageGrowth(points []TrendDataPoint) float64 {
	var sum float64
	var n int
	for _, p := range points {
		if p.GrowthRate != nil {
			sum += *p.GrowthRate
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// PeakPoint returns the bucket with the maximum count. Ties break on the
// earliest chronological occurrence: a later bucket must strictly exceed the
// current peak to replace it. Returns nil for an empty series.
func PeakPoint(points []TrendDataPoint) *TrendDataPoint {
	var peak *TrendDataPoint
	for i := range points {
		if peak == nil || points[i].Count > peak.Count {
			peak = &points[i]
		}
	}
	return peak
}

// PeakActivity returns the bucket with the maximum activity, treating nil
// counts as 0, with the same earliest-wins tie-break. Returns nil for an
// empty series.
func PeakActivity(points []ActivityDataPoint) *ActivityDataPoint {
	var peak *ActivityDataPoint
	var peakVal int64
	for i := range points {
		v := activityValue(points[i])
		if peak == nil || v > peakVal {
			peak = &points[i]
			peakVal = v
		}
	}
	return peak
}

// activityValue reads a nullable activity count, defaulting to 0.
func activityValue(p ActivityDataPoint) int64 {
	if p.TotalActivity == nil {
		return 0
	}
	return *p.TotalActivity
}
