// Package quant computes the deterministic quantitative profile of a
// conversation: per-person statistics, response-time distributions,
// session and initiation counts, activity heatmaps, monthly trends, burst
// windows, reciprocity, the group interaction graph and the composite
// heuristic scores. One O(n) accumulation pass feeds small pure builders;
// the package does no I/O, reads no clock and uses no randomness, so the
// same conversation always yields the same report.
package quant

import (
	"errors"

	"chat_dashboard/internal/convo"
)

// ErrNilConversation marks a caller bug, the one input-contract violation
// that fails hard instead of degrading.
var ErrNilConversation = errors.New("quant: conversation is nil")

// Analyze runs the full pipeline over one conversation. The message slice
// must already be sorted by timestamp ascending; a nil slice is treated as
// an empty conversation and produces a zero-valued report with one entry
// per declared participant.
func Analyze(conv *convo.Conversation) (*Report, error) {
	if conv == nil {
		return nil, ErrNilConversation
	}

	acc := newAccumulator(conv)
	acc.run(conv.Messages)

	r := &Report{
		Platform:     conv.Platform,
		IsGroup:      conv.IsGroup,
		Participants: append([]string(nil), acc.order...),
		MessageCount: acc.total,
		PerPerson:    make(map[string]*PersonStats, len(acc.order)),
	}
	buildPerPerson(acc, r)
	buildTiming(acc, r)
	buildEngagement(acc, r)
	buildPatterns(acc, r)
	buildHeatmap(acc, r)
	buildTrends(acc, r)
	r.Reciprocity = reciprocityIndex(acc)
	if conv.IsGroup {
		r.Network = buildNetwork(acc)
	}
	r.Scores = viralScores(acc)
	return r, nil
}
