package quant

import (
	"fmt"
	"testing"
)

// dailySeries builds count-per-day maps for January 2024.
func dailySeries(counts ...int) map[string]int {
	daily := make(map[string]int, len(counts))
	for i, c := range counts {
		daily[fmt.Sprintf("2024-01-%02d", i+1)] = c
	}
	return daily
}

func TestBurstsRequireEightActiveDays(t *testing.T) {
	daily := dailySeries(10, 10, 10, 10, 10, 10, 500)
	if bursts := detectBursts(daily); bursts != nil {
		t.Fatalf("expected no bursts under 8 active days, got %+v", bursts)
	}
}

func TestBurstSpikeOverTrailingWeek(t *testing.T) {
	daily := dailySeries(10, 10, 10, 10, 10, 10, 10, 10, 10, 301)

	bursts := detectBursts(daily)
	if len(bursts) != 1 {
		t.Fatalf("expected exactly one burst, got %+v", bursts)
	}
	b := bursts[0]
	if b.StartDay != "2024-01-10" || b.EndDay != "2024-01-10" {
		t.Fatalf("unexpected burst window: %+v", b)
	}
	if b.TotalMessages != 301 || b.AvgDaily != 301 {
		t.Fatalf("unexpected burst volume: %+v", b)
	}
}

func TestBurstQuietDaysNeverFlagged(t *testing.T) {
	daily := dailySeries(10, 12, 9, 11, 10, 10, 12, 9, 11, 10)
	if bursts := detectBursts(daily); bursts != nil {
		t.Fatalf("steady traffic produced bursts: %+v", bursts)
	}
}

func TestBurstAdjacentDaysMerge(t *testing.T) {
	daily := dailySeries(10, 10, 10, 10, 10, 10, 10, 10, 10, 200, 400)

	bursts := detectBursts(daily)
	if len(bursts) != 1 {
		t.Fatalf("adjacent spikes should merge into one period, got %+v", bursts)
	}
	b := bursts[0]
	if b.StartDay != "2024-01-10" || b.EndDay != "2024-01-11" {
		t.Fatalf("unexpected merged window: %+v", b)
	}
	if b.TotalMessages != 600 || b.AvgDaily != 300 {
		t.Fatalf("unexpected merged volume: %+v", b)
	}
}

func TestBurstSeparateSpikesStaySeparate(t *testing.T) {
	daily := dailySeries(10, 10, 10, 10, 10, 10, 10, 10, 200, 10, 10, 300)

	bursts := detectBursts(daily)
	if len(bursts) != 2 {
		t.Fatalf("expected two separate bursts, got %+v", bursts)
	}
	if bursts[0].StartDay != "2024-01-09" || bursts[1].StartDay != "2024-01-12" {
		t.Fatalf("unexpected burst days: %+v", bursts)
	}
}
