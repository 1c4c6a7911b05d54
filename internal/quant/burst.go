package quant

import (
	"sort"
	"time"
)

// detectBursts flags days whose volume exceeds three times their trailing
// baseline and merges adjacent flagged days into periods. The first seven
// days fall back to the overall average as their baseline. Conversations
// spanning fewer than eight active days carry too little signal and report
// nothing.
func detectBursts(daily map[string]int) []Burst {
	if len(daily) < burstMinDays {
		return nil
	}
	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	var overall float64
	for _, d := range days {
		overall += float64(daily[d])
	}
	overall /= float64(len(days))

	flagged := make([]int, 0, 4)
	for i, d := range days {
		baseline := overall
		if i >= burstWindowDays {
			var sum float64
			for j := i - burstWindowDays; j < i; j++ {
				sum += float64(daily[days[j]])
			}
			baseline = sum / float64(burstWindowDays)
		}
		if baseline > 0 && float64(daily[d]) > burstMultiplier*baseline {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return nil
	}

	bursts := make([]Burst, 0, len(flagged))
	start, prev := flagged[0], flagged[0]
	for _, idx := range flagged[1:] {
		if daysBetween(days[prev], days[idx]) <= 1 {
			prev = idx
			continue
		}
		bursts = append(bursts, makeBurst(days, daily, start, prev))
		start, prev = idx, idx
	}
	bursts = append(bursts, makeBurst(days, daily, start, prev))
	return bursts
}

func makeBurst(days []string, daily map[string]int, from, to int) Burst {
	total := 0
	for i := from; i <= to; i++ {
		total += daily[days[i]]
	}
	span := daysBetween(days[from], days[to]) + 1
	if span < 1 {
		span = 1
	}
	return Burst{
		StartDay:      days[from],
		EndDay:        days[to],
		TotalMessages: total,
		AvgDaily:      float64(total) / float64(span),
	}
}

// daysBetween is the calendar distance between two day keys. Unparseable
// keys count as far apart so they never merge.
func daysBetween(a, b string) int {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return 1 << 30
	}
	return int(tb.Sub(ta) / (24 * time.Hour))
}
