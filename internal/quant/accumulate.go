package quant

import (
	"unicode/utf8"

	"chat_dashboard/internal/convo"
	"chat_dashboard/internal/lex"
)

// freqCell pairs a count with the insertion sequence used for stable
// tie-breaks in top-N lists.
type freqCell struct {
	count int
	seen  int
}

// monthBucket accumulates a sum and sample count for one calendar month.
type monthBucket struct {
	sum   float64
	count int
}

// personAcc carries every running total for one participant. It is created
// at first sight of a name, mutated once per message during the pass, and
// read-only afterwards.
type personAcc struct {
	name  string
	order int

	messages int
	words    int
	chars    int

	longest  MessageExtreme
	shortest MessageExtreme

	seenSeq  int
	emoji    map[string]*freqCell
	wordFreq map[string]*freqCell
	bigrams  map[string]*freqCell

	questions int
	media     int
	links     int
	unsent    int
	mentions  int

	reactionsGiven     int
	reactionEmojiGiven map[string]*freqCell
	reactionsReceived  int
	messagesReceived   int

	responseSamples []int64
	rtByMonth       map[string]*monthBucket
	lenByMonth      map[string]*monthBucket
	initsByMonth    map[string]int
	msgsByMonth     map[string]int

	weekdayMsgs int
	weekendMsgs int
	lateNight   int

	initiations int
	endings     int
	doubleTexts int
	maxRun      int

	heat Heatmap
}

type silenceRecord struct {
	duration int64
	startTs  int64
	endTs    int64
	from     string
	to       string
}

// accumulator is the whole mutable state of one analysis pass: the
// per-person map plus the global grids, counters and trackers.
type accumulator struct {
	gapMs int64
	group bool

	accs  map[string]*personAcc
	order []string

	combined      Heatmap
	daily         map[string]int
	monthTotals   map[string]int
	monthInits    map[string]int
	rtByMonthAll  map[string]*monthBucket
	lenByMonthAll map[string]*monthBucket

	sessions        int
	sessionStartTs  int64
	sessionDurSumMs int64

	silence silenceRecord

	runSender string
	runLen    int

	directed map[string]map[string]int

	totalReactions int
	total          int
}

func newAccumulator(conv *convo.Conversation) *accumulator {
	a := &accumulator{
		gapMs:         sessionGapMs(conv.Platform),
		group:         conv.IsGroup,
		accs:          make(map[string]*personAcc),
		daily:         make(map[string]int),
		monthTotals:   make(map[string]int),
		monthInits:    make(map[string]int),
		rtByMonthAll:  make(map[string]*monthBucket),
		lenByMonthAll: make(map[string]*monthBucket),
		directed:      make(map[string]map[string]int),
	}
	for _, name := range conv.ParticipantNames() {
		a.ensure(name)
	}
	return a
}

// ensure returns the accumulator for a name, creating it on first sight.
// Unknown senders and reaction actors come through here mid-stream.
func (a *accumulator) ensure(name string) *personAcc {
	if acc, ok := a.accs[name]; ok {
		return acc
	}
	acc := &personAcc{
		name:               name,
		order:              len(a.order),
		emoji:              make(map[string]*freqCell),
		wordFreq:           make(map[string]*freqCell),
		bigrams:            make(map[string]*freqCell),
		reactionEmojiGiven: make(map[string]*freqCell),
		rtByMonth:          make(map[string]*monthBucket),
		lenByMonth:         make(map[string]*monthBucket),
		initsByMonth:       make(map[string]int),
		msgsByMonth:        make(map[string]int),
	}
	a.accs[name] = acc
	a.order = append(a.order, name)
	return acc
}

// run consumes the message slice exactly once. The slice is already sorted
// by timestamp; nothing here re-orders it.
func (a *accumulator) run(messages []convo.Message) {
	a.total = len(messages)
	if len(messages) == 0 {
		return
	}
	a.sessions = 1
	a.sessionStartTs = messages[0].Timestamp

	for i := range messages {
		msg := &messages[i]
		acc := a.ensure(msg.Sender)

		// Reactions credit the acting participant's given counters and
		// the sender's received counter. Actors who never send a message
		// still get an accumulator.
		for _, re := range msg.Reactions {
			actor := a.ensure(re.Actor)
			actor.reactionsGiven++
			bumpFreq(actor.reactionEmojiGiven, re.Emoji, &actor.seenSeq)
			acc.reactionsReceived++
			a.totalReactions++
		}

		// Everyone else known at this point has seen the message.
		for _, name := range a.order {
			if name != msg.Sender {
				a.accs[name].messagesReceived++
			}
		}

		a.observeMessage(acc, msg)
		a.observeSequence(acc, i, messages)
	}

	last := &messages[len(messages)-1]
	a.accs[last.Sender].endings++
	a.sessionDurSumMs += last.Timestamp - a.sessionStartTs
	a.flushRun()
}

// observeMessage folds one message into its sender's content counters and
// the calendar grids.
func (a *accumulator) observeMessage(acc *personAcc, msg *convo.Message) {
	acc.messages++

	content := msg.Content
	wordCount := lex.WordCount(content)
	runeLen := utf8.RuneCountInString(content)
	acc.words += wordCount
	acc.chars += runeLen

	if runeLen > 0 {
		if runeLen > acc.longest.Length {
			acc.longest = MessageExtreme{Length: runeLen, Content: content, Timestamp: msg.Timestamp}
		}
		if acc.shortest.Length == 0 || runeLen < acc.shortest.Length {
			acc.shortest = MessageExtreme{Length: runeLen, Content: content, Timestamp: msg.Timestamp}
		}
	}

	tokens := lex.Tokens(content)
	for _, tok := range tokens {
		bumpFreq(acc.wordFreq, tok, &acc.seenSeq)
	}
	for _, bg := range lex.Bigrams(tokens) {
		bumpFreq(acc.bigrams, bg, &acc.seenSeq)
	}
	for _, e := range lex.Emojis(content) {
		bumpFreq(acc.emoji, e, &acc.seenSeq)
	}
	if lex.IsQuestion(content) {
		acc.questions++
	}
	if lex.HasMention(content) {
		acc.mentions++
	}
	if msg.HasMedia {
		acc.media++
	}
	if msg.HasLink {
		acc.links++
	}
	if msg.IsUnsent {
		acc.unsent++
	}

	weekday, hour := placeInWeek(msg.Timestamp)
	acc.heat[weekday][hour]++
	a.combined[weekday][hour]++
	if isLateNight(hour) {
		acc.lateNight++
	}
	if isWeekend(weekday) {
		acc.weekendMsgs++
	} else {
		acc.weekdayMsgs++
	}

	month := monthKey(msg.Timestamp)
	acc.msgsByMonth[month]++
	a.monthTotals[month]++
	a.daily[dayKey(msg.Timestamp)]++
	bucketAdd(acc.lenByMonth, month, float64(wordCount))
	bucketAdd(a.lenByMonthAll, month, float64(wordCount))
}

// observeSequence handles everything that depends on the previous message:
// session boundaries, response-time samples, the longest silence, reply
// edges and consecutive-run tracking.
func (a *accumulator) observeSequence(acc *personAcc, i int, messages []convo.Message) {
	msg := &messages[i]
	month := monthKey(msg.Timestamp)

	if i == 0 {
		// The first message always opens a session.
		acc.initiations++
		acc.initsByMonth[month]++
		a.monthInits[month]++
		a.startRun(msg.Sender)
		return
	}

	prev := &messages[i-1]
	gap := msg.Timestamp - prev.Timestamp

	if gap >= a.gapMs {
		// Session restart: the previous sender closed the old session,
		// the current sender opens a new one.
		a.accs[prev.Sender].endings++
		acc.initiations++
		acc.initsByMonth[month]++
		a.monthInits[month]++
		a.sessions++
		a.sessionDurSumMs += prev.Timestamp - a.sessionStartTs
		a.sessionStartTs = msg.Timestamp
	} else if msg.Sender != prev.Sender {
		// A same-session reply by a different sender is a response-time
		// sample for the responder.
		acc.responseSamples = append(acc.responseSamples, gap)
		bucketAdd(acc.rtByMonth, month, float64(gap))
		bucketAdd(a.rtByMonthAll, month, float64(gap))
		if a.group {
			a.addDirected(prev.Sender, msg.Sender)
		}
	}

	if gap > a.silence.duration {
		a.silence = silenceRecord{
			duration: gap,
			startTs:  prev.Timestamp,
			endTs:    msg.Timestamp,
			from:     prev.Sender,
			to:       msg.Sender,
		}
	}

	if msg.Sender == a.runSender {
		a.runLen++
	} else {
		a.flushRun()
		a.startRun(msg.Sender)
	}
}

func (a *accumulator) startRun(sender string) {
	a.runSender = sender
	a.runLen = 1
}

// flushRun finalizes the consecutive-run in progress: a run of two or more
// counts as one double-text event, and the max run length always updates.
func (a *accumulator) flushRun() {
	if a.runLen == 0 {
		return
	}
	acc := a.accs[a.runSender]
	if a.runLen >= 2 {
		acc.doubleTexts++
	}
	if a.runLen > acc.maxRun {
		acc.maxRun = a.runLen
	}
	a.runSender = ""
	a.runLen = 0
}

func (a *accumulator) addDirected(from, to string) {
	row, ok := a.directed[from]
	if !ok {
		row = make(map[string]int)
		a.directed[from] = row
	}
	row[to]++
}

func bumpFreq(m map[string]*freqCell, key string, seq *int) {
	if cell, ok := m[key]; ok {
		cell.count++
		return
	}
	m[key] = &freqCell{count: 1, seen: *seq}
	*seq++
}

func bucketAdd(m map[string]*monthBucket, key string, v float64) {
	b, ok := m[key]
	if !ok {
		b = &monthBucket{}
		m[key] = b
	}
	b.sum += v
	b.count++
}
