package models

import "time"

// ContourMetrics holds the shape-regularity measurements of the dominant
// contour of one image and of its convex hull.
type ContourMetrics struct {
	AreaOriginal        float64 `json:"area_original"`
	AreaHull            float64 `json:"area_hull"`
	AreaRatio           float64 `json:"area_ratio"`
	CircularityOriginal float64 `json:"circularity_original"`
	CircularityHull     float64 `json:"circularity_hull"`
	CircularityRatio    float64 `json:"circularity_ratio"`
}

// AnalysisResult represents the outcome of one successfully analyzed image.
// Once handed to a result sink it is never mutated.
type AnalysisResult struct {
	Image    string         `json:"image"`
	Metrics  ContourMetrics `json:"metrics"`
	Duration time.Duration  `json:"duration_ns"`
	Worker   int            `json:"worker"`
}

// Skip describes an image that was dropped from the batch.
type Skip struct {
	Image  string `json:"image"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
	Worker int    `json:"worker"`
}

// BatchSummary aggregates the outcome of a whole batch run.
type BatchSummary struct {
	Directory       string         `json:"directory"`
	Workers         int            `json:"workers"`
	Enqueued        int            `json:"enqueued"`
	Processed       int            `json:"processed"`
	Skipped         int            `json:"skipped"`
	SkipReasons     map[string]int `json:"skip_reasons,omitempty"`
	AverageDuration time.Duration  `json:"average_duration_ns"`
	StdDevDuration  time.Duration  `json:"stddev_duration_ns"`
	P50Duration     time.Duration  `json:"p50_duration_ns"`
	P95Duration     time.Duration  `json:"p95_duration_ns"`
	MaxDuration     time.Duration  `json:"max_duration_ns"`
	SlowestImage    string         `json:"slowest_image,omitempty"`
	MeanAreaRatio   float64        `json:"mean_area_ratio"`
	MeanCircularity float64        `json:"mean_circularity"`
	WallTime        time.Duration  `json:"wall_time_ns"`
}
