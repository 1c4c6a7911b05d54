package quant

import (
	"strings"
	"time"
)

// All thresholds are compile-time constants so the same input always
// produces the same report.
const (
	defaultSessionGapMs = int64(60 * 60 * 1000)
	fastSessionGapMs    = int64(30 * 60 * 1000)

	burstMultiplier = 3.0
	burstWindowDays = 7
	burstMinDays    = 8

	ghostRecentMonths = 3
	ghostMinEarlier   = 3

	delusionNoiseGap = 5.0

	lateNightStart = 22
	lateNightEnd   = 4

	topEmojiCount  = 10
	topWordCount   = 20
	topBigramCount = 10
)

// High-velocity platforms where an hour of silence is routine, so the
// session boundary comes sooner.
var fastPlatforms = map[string]struct{}{
	"discord": {},
	"slack":   {},
}

func sessionGapMs(platform string) int64 {
	if _, ok := fastPlatforms[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return fastSessionGapMs
	}
	return defaultSessionGapMs
}

func monthKey(ts int64) string {
	return time.UnixMilli(ts).Format("2006-01")
}

func dayKey(ts int64) string {
	return time.UnixMilli(ts).Format("2006-01-02")
}

// placeInWeek maps a timestamp to its local weekday (0 is Sunday) and hour.
func placeInWeek(ts int64) (weekday, hour int) {
	t := time.UnixMilli(ts)
	return int(t.Weekday()), t.Hour()
}

func isLateNight(hour int) bool {
	return hour >= lateNightStart || hour < lateNightEnd
}

func isWeekend(weekday int) bool {
	return weekday == 0 || weekday == 6
}
