// Package types provides type definitions for structured data used throughout the village blogger.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Post is a collected wall item with its engagement counters.
type Post struct {
	ID       int64  `json:"id"`
	Date     int64  `json:"date"` // epoch seconds
	Text     string `json:"text"`
	Likes    int    `json:"likes"`
	Reposts  int    `json:"reposts"`
	Views    int    `json:"views"` // 0 when the feed does not report views
	Comments int    `json:"comments"`
}

// Time returns the publish time of the post in loc.
func (p Post) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(p.Date, 0).In(loc)
}

// WindowLength is the rolling collection window.
const WindowLength = 7 * 24 * time.Hour

// TimeWindow is the half-open interval [Start, End) in epoch seconds.
type TimeWindow struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// LastWeek returns the window ending at now.
func LastWeek(now time.Time) TimeWindow {
	return TimeWindow{
		Start: now.Add(-WindowLength).Unix(),
		End:   now.Unix(),
	}
}

// Before reports whether date falls before the window start.
func (w TimeWindow) Before(date int64) bool {
	return date < w.Start
}

// Contains reports whether date is inside the window.
func (w TimeWindow) Contains(date int64) bool {
	return date >= w.Start && date < w.End
}
