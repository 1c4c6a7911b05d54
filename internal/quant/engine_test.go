package quant

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"chat_dashboard/internal/convo"
)

// stamp builds a local-time timestamp in early 2024, away from DST edges.
func stamp(month time.Month, day, hour, minute, sec int) int64 {
	return time.Date(2024, month, day, hour, minute, sec, 0, time.Local).UnixMilli()
}

func jan(day, hour, minute, sec int) int64 {
	return stamp(time.January, day, hour, minute, sec)
}

func msg(sender string, ts int64, content string) convo.Message {
	return convo.Message{Sender: sender, Timestamp: ts, Content: content}
}

func twoParty(msgs ...convo.Message) *convo.Conversation {
	return &convo.Conversation{
		Platform:     "whatsapp",
		Participants: []convo.Participant{{Name: "Ana"}, {Name: "Ben"}},
		Messages:     msgs,
	}
}

// richConversation mixes media, links, unsent messages, reactions from a
// reactor who never writes, questions and a multi-day spread.
func richConversation() *convo.Conversation {
	msgs := []convo.Message{
		msg("Ana", jan(2, 9, 0, 0), "good morning good morning friend"),
		msg("Ben", jan(2, 9, 1, 30), "coffee later?"),
		msg("Ana", jan(2, 9, 3, 0), "check https://example.com/menu?day=2"),
		{Sender: "Ben", Timestamp: jan(2, 9, 5, 0), HasMedia: true},
		{Sender: "Ana", Timestamp: jan(3, 22, 30, 0), IsUnsent: true},
		msg("Ben", jan(3, 22, 40, 0), "still up? 😂😂🔥"),
		msg("Ana", jan(3, 22, 45, 0), "barely"),
		msg("Ana", jan(15, 14, 0, 0), "long silence broken"),
	}
	msgs[0].Reactions = []convo.Reaction{{Emoji: "👍", Actor: "Cleo"}}
	msgs[5].Reactions = []convo.Reaction{{Emoji: "❤️", Actor: "Ana"}}
	return twoParty(msgs...)
}

func TestAnalyzeNilConversation(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrNilConversation) {
		t.Fatalf("expected ErrNilConversation, got %v", err)
	}
}

func TestAnalyzeEmptyConversation(t *testing.T) {
	conv := &convo.Conversation{
		Platform: "whatsapp",
		IsGroup:  true,
		Participants: []convo.Participant{
			{Name: "P1"}, {Name: "P2"}, {Name: "P3"}, {Name: "P4"},
		},
	}
	r, err := Analyze(conv)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.MessageCount != 0 {
		t.Fatalf("expected zero messages, got %d", r.MessageCount)
	}
	if len(r.PerPerson) != 4 || len(r.Participants) != 4 {
		t.Fatalf("expected 4 per-person entries, got %d/%d", len(r.PerPerson), len(r.Participants))
	}
	for name, ps := range r.PerPerson {
		if ps.TotalMessages != 0 || ps.TotalWords != 0 {
			t.Fatalf("expected zeroed stats for %s: %+v", name, ps)
		}
	}
	if len(r.Patterns.MonthlyVolume) != 0 || len(r.Patterns.Bursts) != 0 {
		t.Fatalf("expected empty patterns, got %+v", r.Patterns)
	}
	if r.Engagement.TotalSessions != 0 || r.Engagement.AvgMessagesPerSession != 0 {
		t.Fatalf("expected zero session stats, got %+v", r.Engagement)
	}
	// Four participants: reciprocity degrades to the neutral index.
	for _, v := range []float64{
		r.Reciprocity.MessageBalance,
		r.Reciprocity.InitiationBalance,
		r.Reciprocity.ResponseSymmetry,
		r.Reciprocity.ReactionBalance,
		r.Reciprocity.Overall,
	} {
		if v != 50 {
			t.Fatalf("expected neutral reciprocity, got %+v", r.Reciprocity)
		}
	}
	if r.Scores.Compatibility != 0 {
		t.Fatalf("expected zero compatibility for a group, got %.1f", r.Scores.Compatibility)
	}
	if r.Network == nil || len(r.Network.Nodes) != 4 || len(r.Network.Edges) != 0 {
		t.Fatalf("expected 4-node empty graph, got %+v", r.Network)
	}
	if r.Network.Density != 0 {
		t.Fatalf("expected zero density, got %.2f", r.Network.Density)
	}
	first := r.Scores.Interest[r.Participants[0]]
	for _, name := range r.Participants {
		if r.Scores.Interest[name] != first {
			t.Fatalf("expected identical interest with no signal, got %v", r.Scores.Interest)
		}
		gr := r.Scores.GhostRisk[name]
		if gr == nil || gr.Score != 0 || len(gr.Factors) != 1 {
			t.Fatalf("expected insufficient-history ghost risk for %s, got %+v", name, gr)
		}
	}
	if r.Scores.Delusion.Holder != "" || r.Scores.Delusion.Score != 0 {
		t.Fatalf("expected suppressed delusion for a group, got %+v", r.Scores.Delusion)
	}
}

func TestConservation(t *testing.T) {
	r, err := Analyze(richConversation())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// Cleo reacts but never writes, so there are three entries.
	if len(r.PerPerson) != 3 {
		t.Fatalf("expected 3 per-person entries, got %d", len(r.PerPerson))
	}
	sum := 0
	for _, ps := range r.PerPerson {
		sum += ps.TotalMessages
	}
	if sum != r.MessageCount {
		t.Fatalf("per-person totals %d do not add up to %d", sum, r.MessageCount)
	}

	var combined int
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			combined += r.Heatmap.Combined[d][h]
		}
	}
	if combined != r.MessageCount {
		t.Fatalf("combined heatmap sums to %d, want %d", combined, r.MessageCount)
	}
	for name, heat := range r.Heatmap.PerPerson {
		var personSum int
		for d := 0; d < 7; d++ {
			for h := 0; h < 24; h++ {
				personSum += heat[d][h]
			}
		}
		if personSum != r.PerPerson[name].TotalMessages {
			t.Fatalf("heatmap for %s sums to %d, want %d", name, personSum, r.PerPerson[name].TotalMessages)
		}
	}
}

func TestIdempotence(t *testing.T) {
	conv := richConversation()
	first, err := Analyze(conv)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	second, err := Analyze(conv)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	rawA, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	rawB, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if !bytes.Equal(rawA, rawB) {
		t.Fatalf("reports differ between identical runs")
	}
}

func TestAlternatingConversation(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("word ", 10))
	msgs := make([]convo.Message, 1000)
	base := jan(15, 4, 0, 0)
	for i := range msgs {
		sender := "Ana"
		if i%2 == 1 {
			sender = "Ben"
		}
		msgs[i] = msg(sender, base+int64(i)*60_000, content)
	}

	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.MessageCount != 1000 {
		t.Fatalf("expected 1000 messages, got %d", r.MessageCount)
	}
	if r.Reciprocity.MessageBalance != 100 {
		t.Fatalf("expected perfect message balance, got %.2f", r.Reciprocity.MessageBalance)
	}
	if r.Reciprocity.ResponseSymmetry != 100 {
		t.Fatalf("expected perfect response symmetry, got %.2f", r.Reciprocity.ResponseSymmetry)
	}
	if r.Patterns.VolumeTrendSlope != 0 {
		t.Fatalf("expected flat volume trend, got %.4f", r.Patterns.VolumeTrendSlope)
	}
	if len(r.Patterns.Bursts) != 0 {
		t.Fatalf("expected no bursts on a single day, got %d", len(r.Patterns.Bursts))
	}
	if r.Engagement.TotalSessions != 1 {
		t.Fatalf("constant 60s gaps should form one session, got %d", r.Engagement.TotalSessions)
	}
	for _, name := range []string{"Ana", "Ben"} {
		rs := r.Timing.PerPerson[name]
		if rs.MedianMs != 60_000 || rs.MinMs != 60_000 || rs.MaxMs != 60_000 {
			t.Fatalf("expected constant 60s responses for %s, got %+v", name, rs)
		}
		gr := r.Scores.GhostRisk[name]
		if gr.Score != 0 {
			t.Fatalf("flat single-month history should carry no ghost risk, got %+v", gr)
		}
		if r.Engagement.DoubleTexts[name] != 0 || r.Engagement.MaxConsecutive[name] != 1 {
			t.Fatalf("alternation should produce no runs for %s", name)
		}
	}
}

func TestHeavyRunThenLongSilence(t *testing.T) {
	msgs := make([]convo.Message, 0, 51)
	for i := 0; i < 50; i++ {
		msgs = append(msgs, msg("Ana", jan(5, 10, i, 0), "catching the 8am train tomorrow"))
	}
	gap := int64(10 * 24 * 60 * 60 * 1000)
	lastAna := msgs[49].Timestamp
	msgs = append(msgs, msg("Ben", lastAna+gap, "hey, sorry, was away"))

	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Engagement.TotalSessions != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Engagement.TotalSessions)
	}
	if r.Timing.Initiations["Ana"] != 1 || r.Timing.Initiations["Ben"] != 1 {
		t.Fatalf("unexpected initiations: %v", r.Timing.Initiations)
	}
	if r.Timing.Endings["Ana"] != 1 || r.Timing.Endings["Ben"] != 1 {
		t.Fatalf("unexpected endings: %v", r.Timing.Endings)
	}
	s := r.Timing.LongestSilence
	if s.DurationMs != gap {
		t.Fatalf("longest silence %dms, want %dms", s.DurationMs, gap)
	}
	if s.FromSender != "Ana" || s.ToSender != "Ben" {
		t.Fatalf("silence boundary senders %s -> %s", s.FromSender, s.ToSender)
	}
	if s.StartTs != lastAna || s.EndTs != lastAna+gap {
		t.Fatalf("silence boundary timestamps %d -> %d", s.StartTs, s.EndTs)
	}
	if r.Engagement.DoubleTexts["Ana"] != 1 {
		t.Fatalf("a 50-message run is one double-text event, got %d", r.Engagement.DoubleTexts["Ana"])
	}
	if r.Engagement.MaxConsecutive["Ana"] != 50 {
		t.Fatalf("expected max run 50, got %d", r.Engagement.MaxConsecutive["Ana"])
	}
	if r.Engagement.DoubleTexts["Ben"] != 0 || r.Engagement.MaxConsecutive["Ben"] != 1 {
		t.Fatalf("unexpected run stats for Ben")
	}
	// The reply crossed a session boundary, so nobody has a response sample.
	if r.Timing.PerPerson["Ana"].SampleCount != 0 || r.Timing.PerPerson["Ben"].SampleCount != 0 {
		t.Fatalf("session restarts must not count as responses")
	}
}

func TestDoubleTextRunsFinalizeOnSenderChange(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(8, 12, 0, 0), "one"),
		msg("Ana", jan(8, 12, 1, 0), "two"),
		msg("Ben", jan(8, 12, 2, 0), "reply"),
		msg("Ana", jan(8, 12, 3, 0), "three"),
		msg("Ana", jan(8, 12, 4, 0), "four"),
		msg("Ana", jan(8, 12, 5, 0), "five"),
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Engagement.DoubleTexts["Ana"] != 2 {
		t.Fatalf("two runs of >=2 are two events, got %d", r.Engagement.DoubleTexts["Ana"])
	}
	if r.Engagement.MaxConsecutive["Ana"] != 3 {
		t.Fatalf("expected max run 3, got %d", r.Engagement.MaxConsecutive["Ana"])
	}
	if r.Engagement.DoubleTexts["Ben"] != 0 || r.Engagement.MaxConsecutive["Ben"] != 1 {
		t.Fatalf("unexpected run stats for Ben")
	}
}

func TestSessionBoundaryAtExactThreshold(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(10, 10, 0, 0), "ping"),
		msg("Ben", jan(10, 11, 0, 0), "pong"), // exactly one hour later
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Engagement.TotalSessions != 2 {
		t.Fatalf("a gap equal to the threshold starts a new session, got %d sessions", r.Engagement.TotalSessions)
	}
	if r.Timing.PerPerson["Ben"].SampleCount != 0 {
		t.Fatalf("a session restart is not a response sample")
	}
	if r.Timing.Initiations["Ben"] != 1 || r.Timing.Endings["Ana"] != 1 {
		t.Fatalf("restart should credit an ending/initiation pair: %v / %v", r.Timing.Endings, r.Timing.Initiations)
	}
}

func TestPlatformSessionGap(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(11, 9, 0, 0), "first"),
		msg("Ana", jan(11, 9, 35, 0), "second"), // 35 minutes later
	}

	slow, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze whatsapp: %v", err)
	}
	if slow.Engagement.TotalSessions != 1 {
		t.Fatalf("35min fits one whatsapp session, got %d", slow.Engagement.TotalSessions)
	}

	fast, err := Analyze(&convo.Conversation{
		Platform:     "discord",
		Participants: []convo.Participant{{Name: "Ana"}, {Name: "Ben"}},
		Messages:     msgs,
	})
	if err != nil {
		t.Fatalf("analyze discord: %v", err)
	}
	if fast.Engagement.TotalSessions != 2 {
		t.Fatalf("35min splits a discord session, got %d", fast.Engagement.TotalSessions)
	}
}

func TestUnknownSendersAndReactionActors(t *testing.T) {
	msgs := []convo.Message{
		msg("Zed", jan(12, 15, 0, 0), "crashing this chat"),
	}
	msgs[0].Reactions = []convo.Reaction{{Emoji: "😂", Actor: "Cleo"}}

	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []string{"Ana", "Ben", "Zed", "Cleo"}
	if len(r.Participants) != len(want) {
		t.Fatalf("expected %d participants, got %v", len(want), r.Participants)
	}
	for i, name := range want {
		if r.Participants[i] != name {
			t.Fatalf("participant order %v, want %v", r.Participants, want)
		}
	}
	if r.PerPerson["Zed"].TotalMessages != 1 {
		t.Fatalf("unknown sender did not accumulate")
	}
	cleo := r.PerPerson["Cleo"]
	if cleo.TotalMessages != 0 || cleo.ReactionsGiven != 1 {
		t.Fatalf("reaction actor stats wrong: %+v", cleo)
	}
	if cleo.MessagesReceived != 1 {
		t.Fatalf("reaction actor should have received the reacted message, got %d", cleo.MessagesReceived)
	}
	if r.PerPerson["Zed"].ReactionsReceived != 1 {
		t.Fatalf("sender should have one received reaction")
	}
	// Four known names now, so two-party scores degrade.
	if r.Reciprocity.Overall != 50 || r.Scores.Compatibility != 0 {
		t.Fatalf("expected neutral two-party scores, got %+v / %.1f", r.Reciprocity, r.Scores.Compatibility)
	}
}

func TestPerPersonContentCounters(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(16, 10, 0, 0), "good morning good morning friend, the park was lovely"),
		msg("Ana", jan(16, 10, 1, 0), "coffee later?"),
		msg("Ana", jan(16, 10, 2, 0), "check https://example.com/poll?q=1"),
		{Sender: "Ana", Timestamp: jan(16, 10, 3, 0), HasMedia: true},
		{Sender: "Ana", Timestamp: jan(16, 10, 4, 0), IsUnsent: true},
		msg("Ana", jan(16, 10, 5, 0), "😂😂🔥"),
		msg("Ben", jan(16, 10, 6, 0), "hi"),
	}
	msgs[2].HasLink = true

	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	ana := r.PerPerson["Ana"]
	if ana.TotalMessages != 6 {
		t.Fatalf("expected 6 messages, got %d", ana.TotalMessages)
	}
	// The URL question mark is stripped before question detection.
	if ana.QuestionsAsked != 1 {
		t.Fatalf("expected 1 question, got %d", ana.QuestionsAsked)
	}
	if ana.MediaCount != 1 || ana.LinkCount != 1 || ana.UnsentCount != 1 {
		t.Fatalf("placeholder counters wrong: %+v", ana)
	}
	if len(ana.TopWords) == 0 || ana.TopWords[0].Value != "good" || ana.TopWords[0].Count != 2 {
		t.Fatalf("unexpected top words: %v", ana.TopWords)
	}
	if len(ana.TopBigrams) == 0 || ana.TopBigrams[0].Value != "good morning" || ana.TopBigrams[0].Count != 2 {
		t.Fatalf("unexpected top bigrams: %v", ana.TopBigrams)
	}
	if len(ana.TopEmoji) != 2 || ana.TopEmoji[0].Value != "😂" || ana.TopEmoji[0].Count != 2 {
		t.Fatalf("unexpected top emoji: %v", ana.TopEmoji)
	}
	ben := r.PerPerson["Ben"]
	if ben.ShortestMessage.Content != "hi" || ben.ShortestMessage.Length != 2 {
		t.Fatalf("unexpected shortest message: %+v", ben.ShortestMessage)
	}
	if ana.LongestMessage.Content != "good morning good morning friend, the park was lovely" {
		t.Fatalf("unexpected longest message: %+v", ana.LongestMessage)
	}
	// Ben saw all six of Ana's messages; Ana saw Ben's one.
	if ben.MessagesReceived != 6 || ana.MessagesReceived != 1 {
		t.Fatalf("messages received wrong: ben=%d ana=%d", ben.MessagesReceived, ana.MessagesReceived)
	}
}

func TestTimingClassification(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(6, 23, 0, 0), "saturday night"),  // late, weekend
		msg("Ana", jan(7, 3, 0, 0), "sunday small hours"), // late, weekend
		msg("Ana", jan(8, 4, 0, 0), "monday 4am"),        // not late, weekday
		msg("Ana", jan(8, 22, 0, 0), "monday 10pm"),      // late, weekday
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Timing.LateNight["Ana"] != 3 {
		t.Fatalf("expected 3 late-night messages, got %d", r.Timing.LateNight["Ana"])
	}
	if r.Patterns.WeekendCounts["Ana"] != 2 || r.Patterns.WeekdayCounts["Ana"] != 2 {
		t.Fatalf("weekend/weekday split wrong: %v / %v", r.Patterns.WeekendCounts, r.Patterns.WeekdayCounts)
	}
	if r.Heatmap.Combined[6][23] != 1 || r.Heatmap.Combined[0][3] != 1 || r.Heatmap.Combined[1][4] != 1 || r.Heatmap.Combined[1][22] != 1 {
		t.Fatalf("heatmap cells misplaced")
	}
}

func TestSessionAverages(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", jan(20, 10, 0, 0), "start"),
		msg("Ben", jan(20, 10, 10, 0), "ten minutes in"),
		msg("Ana", jan(20, 14, 0, 0), "new session"),
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Engagement.TotalSessions != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Engagement.TotalSessions)
	}
	if r.Engagement.AvgMessagesPerSession != 1.5 {
		t.Fatalf("expected 1.5 messages per session, got %.2f", r.Engagement.AvgMessagesPerSession)
	}
	if r.Engagement.AvgSessionDurationMs != 300_000 {
		t.Fatalf("expected 300000ms average duration, got %.0f", r.Engagement.AvgSessionDurationMs)
	}
}

func TestMonthlyVolumeAndTrendSeries(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", stamp(time.January, 31, 23, 30, 0), "last of january"),
		msg("Ben", stamp(time.February, 1, 0, 5, 0), "first of february"),
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	mv := r.Patterns.MonthlyVolume
	if len(mv) != 2 || mv[0].Month != "2024-01" || mv[1].Month != "2024-02" {
		t.Fatalf("unexpected monthly volume: %+v", mv)
	}
	if mv[0].Total != 1 || mv[1].Total != 1 {
		t.Fatalf("unexpected month totals: %+v", mv)
	}
	if mv[0].PerPerson["Ana"] != 1 || mv[1].PerPerson["Ben"] != 1 {
		t.Fatalf("per-person month split wrong: %+v", mv)
	}

	// The February message continued the session, so February has volume
	// but no initiation: the initiation series is zero-filled over the
	// volume month axis.
	inits := r.Trends.Initiations
	if len(inits.Months) != 2 || inits.Values[0] != 1 || inits.Values[1] != 0 {
		t.Fatalf("unexpected initiation series: %+v", inits)
	}
	// Response samples exist only in February.
	rt := r.Trends.ResponseTime
	if len(rt.Months) != 1 || rt.Months[0] != "2024-02" {
		t.Fatalf("unexpected response-time months: %+v", rt)
	}
	if rt.Values[0] != 35*60*1000 {
		t.Fatalf("expected 35min response average, got %.0f", rt.Values[0])
	}
}

func TestResponseTrendSlope(t *testing.T) {
	msgs := []convo.Message{
		msg("Ana", stamp(time.January, 5, 10, 0, 0), "january question?"),
		msg("Ben", stamp(time.January, 5, 10, 2, 0), "january answer"),
		msg("Ana", stamp(time.February, 5, 10, 0, 0), "february question?"),
		msg("Ben", stamp(time.February, 5, 10, 1, 0), "february answer"),
	}
	r, err := Analyze(twoParty(msgs...))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got := r.Trends.ResponseTime.Slope; got != -60_000 {
		t.Fatalf("expected slope -60000 ms/month, got %.0f", got)
	}
	if got := r.Timing.PerPerson["Ben"].TrendPerMonth; got != -60_000 {
		t.Fatalf("expected per-person trend -60000, got %.0f", got)
	}
}
