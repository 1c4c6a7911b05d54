package quant

import "sort"

// topN flattens a frequency map into its N most frequent entries, count
// descending, ties kept in first-seen order.
func topN(m map[string]*freqCell, n int) []FreqEntry {
	if len(m) == 0 {
		return nil
	}
	type ranked struct {
		value string
		count int
		seen  int
	}
	all := make([]ranked, 0, len(m))
	for v, cell := range m {
		all = append(all, ranked{value: v, count: cell.count, seen: cell.seen})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].seen < all[j].seen
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]FreqEntry, len(all))
	for i, e := range all {
		out[i] = FreqEntry{Value: e.value, Count: e.count}
	}
	return out
}

func sortedMonths(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// monthlyAverages returns the per-month averages of a bucket map in
// chronological order, skipping empty months.
func monthlyAverages(m map[string]*monthBucket) []float64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]float64, 0, len(keys))
	for _, k := range keys {
		b := m[k]
		if b.count == 0 {
			continue
		}
		out = append(out, b.sum/float64(b.count))
	}
	return out
}

func buildPerPerson(a *accumulator, r *Report) {
	for _, name := range a.order {
		acc := a.accs[name]
		r.PerPerson[name] = &PersonStats{
			Name:               name,
			TotalMessages:      acc.messages,
			TotalWords:         acc.words,
			TotalChars:         acc.chars,
			AvgWordsPerMessage: safeRate(float64(acc.words), float64(acc.messages)),
			AvgCharsPerMessage: safeRate(float64(acc.chars), float64(acc.messages)),
			LongestMessage:     acc.longest,
			ShortestMessage:    acc.shortest,
			TopEmoji:           topN(acc.emoji, topEmojiCount),
			TopWords:           topN(acc.wordFreq, topWordCount),
			TopBigrams:         topN(acc.bigrams, topBigramCount),
			VocabularyRichness: clamp01(safeRate(float64(len(acc.wordFreq)), float64(acc.words))),
			QuestionsAsked:     acc.questions,
			MediaCount:         acc.media,
			LinkCount:          acc.links,
			UnsentCount:        acc.unsent,
			ReactionsGiven:     acc.reactionsGiven,
			TopReactionsGiven:  topN(acc.reactionEmojiGiven, topEmojiCount),
			ReactionsReceived:  acc.reactionsReceived,
			MessagesReceived:   acc.messagesReceived,
		}
	}
}

func responseStats(acc *personAcc) *ResponseStats {
	rs := &ResponseStats{SampleCount: len(acc.responseSamples)}
	if rs.SampleCount == 0 {
		return rs
	}
	var sum int64
	minV, maxV := acc.responseSamples[0], acc.responseSamples[0]
	for _, s := range acc.responseSamples {
		sum += s
		if s < minV {
			minV = s
		}
		if s > maxV {
			maxV = s
		}
	}
	rs.MeanMs = float64(sum) / float64(rs.SampleCount)
	rs.MedianMs = medianMs(acc.responseSamples)
	rs.MinMs = minV
	rs.MaxMs = maxV
	rs.TrendPerMonth = olsSlope(monthlyAverages(acc.rtByMonth))
	return rs
}

func buildTiming(a *accumulator, r *Report) {
	t := TimingStats{
		PerPerson:   make(map[string]*ResponseStats, len(a.order)),
		LateNight:   make(map[string]int, len(a.order)),
		Initiations: make(map[string]int, len(a.order)),
		Endings:     make(map[string]int, len(a.order)),
	}
	for _, name := range a.order {
		acc := a.accs[name]
		t.PerPerson[name] = responseStats(acc)
		t.LateNight[name] = acc.lateNight
		t.Initiations[name] = acc.initiations
		t.Endings[name] = acc.endings
	}
	t.LongestSilence = Silence{
		DurationMs: a.silence.duration,
		StartTs:    a.silence.startTs,
		EndTs:      a.silence.endTs,
		FromSender: a.silence.from,
		ToSender:   a.silence.to,
	}
	r.Timing = t
}

func buildEngagement(a *accumulator, r *Report) {
	e := EngagementStats{
		DoubleTexts:          make(map[string]int, len(a.order)),
		MaxConsecutive:       make(map[string]int, len(a.order)),
		MessageShare:         make(map[string]float64, len(a.order)),
		ReactionGivenRate:    make(map[string]float64, len(a.order)),
		ReactionReceivedRate: make(map[string]float64, len(a.order)),
		TotalSessions:        a.sessions,
	}
	for _, name := range a.order {
		acc := a.accs[name]
		e.DoubleTexts[name] = acc.doubleTexts
		e.MaxConsecutive[name] = acc.maxRun
		e.MessageShare[name] = clamp01(safeRate(float64(acc.messages), float64(a.total)))
		e.ReactionGivenRate[name] = safeRate(float64(acc.reactionsGiven), float64(acc.messagesReceived))
		e.ReactionReceivedRate[name] = safeRate(float64(acc.reactionsReceived), float64(acc.messages))
	}
	if a.sessions > 0 {
		e.AvgMessagesPerSession = float64(a.total) / float64(a.sessions)
		e.AvgSessionDurationMs = float64(a.sessionDurSumMs) / float64(a.sessions)
	}
	r.Engagement = e
}

func buildPatterns(a *accumulator, r *Report) {
	months := sortedMonths(a.monthTotals)
	volume := make([]MonthVolume, 0, len(months))
	totals := make([]float64, 0, len(months))
	for _, m := range months {
		mv := MonthVolume{Month: m, Total: a.monthTotals[m], PerPerson: make(map[string]int)}
		for _, name := range a.order {
			if c := a.accs[name].msgsByMonth[m]; c > 0 {
				mv.PerPerson[name] = c
			}
		}
		volume = append(volume, mv)
		totals = append(totals, float64(a.monthTotals[m]))
	}

	p := PatternStats{
		MonthlyVolume:    volume,
		WeekdayCounts:    make(map[string]int, len(a.order)),
		WeekendCounts:    make(map[string]int, len(a.order)),
		VolumeTrendSlope: olsSlope(totals),
		Bursts:           detectBursts(a.daily),
	}
	for _, name := range a.order {
		acc := a.accs[name]
		p.WeekdayCounts[name] = acc.weekdayMsgs
		p.WeekendCounts[name] = acc.weekendMsgs
	}
	r.Patterns = p
}

func buildHeatmap(a *accumulator, r *Report) {
	h := HeatmapStats{
		Combined:  a.combined,
		PerPerson: make(map[string]*Heatmap, len(a.order)),
	}
	for _, name := range a.order {
		heat := a.accs[name].heat
		h.PerPerson[name] = &heat
	}
	r.Heatmap = h
}

// bucketSeries turns a month-bucket map into an aligned months/averages
// pair for trend building.
func bucketSeries(m map[string]*monthBucket) ([]string, []float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	months := make([]string, 0, len(keys))
	values := make([]float64, 0, len(keys))
	for _, k := range keys {
		b := m[k]
		if b.count == 0 {
			continue
		}
		months = append(months, k)
		values = append(values, b.sum/float64(b.count))
	}
	return months, values
}

// countSeries zero-fills a count map over the given month axis.
func countSeries(m map[string]int, axis []string) ([]string, []float64) {
	if len(axis) == 0 {
		return nil, nil
	}
	values := make([]float64, len(axis))
	for i, month := range axis {
		values[i] = float64(m[month])
	}
	return axis, values
}

func buildTrends(a *accumulator, r *Report) {
	rtMonths, rtValues := bucketSeries(a.rtByMonthAll)
	lenMonths, lenValues := bucketSeries(a.lenByMonthAll)
	initMonths, initValues := countSeries(a.monthInits, sortedMonths(a.monthTotals))
	r.Trends = TrendStats{
		ResponseTime:  TrendSeries{Months: rtMonths, Values: rtValues, Slope: olsSlope(rtValues)},
		MessageLength: TrendSeries{Months: lenMonths, Values: lenValues, Slope: olsSlope(lenValues)},
		Initiations:   TrendSeries{Months: initMonths, Values: initValues, Slope: olsSlope(initValues)},
	}
}
