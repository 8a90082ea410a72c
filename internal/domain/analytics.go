package domain

import "time"

// Classification labels used when a request carries no usable signal.
const (
	ReferrerDirect = "Direct"
	BrowserUnknown = "Unknown"
)

// Device classes. Mobile wins over tablet when a user agent reports both.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// AnalyticsBucket aggregates one link's clicks for one calendar day.
// Clicks equals the sum of each classification map: every recorded event
// contributes exactly one referrer, one device and one browser increment.
type AnalyticsBucket struct {
	LinkID    int64            `json:"link_id"`
	Day       string           `json:"date"`
	Clicks    int64            `json:"clicks"`
	Referrers map[string]int64 `json:"referrers"`
	Devices   map[string]int64 `json:"devices"`
	Browsers  map[string]int64 `json:"browsers"`
}

// LinkAnalytics is the read-only projection served to the dashboard.
type LinkAnalytics struct {
	Link           Link              `json:"link"`
	RealtimeClicks int64             `json:"realtime_clicks"`
	Buckets        []AnalyticsBucket `json:"analytics"`
}

// DayOf returns the calendar-day bucket key for t in UTC, formatted
// YYYY-MM-DD. Bucketing is fixed to UTC so that bucket membership near
// midnight does not depend on server locale; callers must derive both the
// bucket key and the event from the same clock read.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
