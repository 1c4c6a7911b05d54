package quant

import (
	"fmt"
	"math"
)

// Weights and transforms for the composite heuristics. These are product
// constants, not tuned parameters: they stay fixed so reports remain
// reproducible.
const (
	interestWeightInitiation = 0.25
	interestWeightResponse   = 0.20
	interestWeightLength     = 0.15
	interestWeightEngagement = 0.20
	interestWeightDoubleText = 0.10
	interestWeightLateNight  = 0.10

	// A response time falling by five minutes per month, or messages
	// growing by five words per month, maxes the respective factor.
	responseTrendDivisor = 6000.0
	lengthTrendScale     = 10.0

	// Reaction-receive rate scaling, and the mention/reply blend used
	// when the platform has no reactions at all.
	engagementReactionScale = 500.0
	engagementBlendScale    = 200.0

	ghostWeightResponse   = 0.30
	ghostWeightLength     = 0.25
	ghostWeightInitiation = 0.25
	ghostWeightVolume     = 0.20

	ghostFactorThreshold = 30.0
)

func viralScores(a *accumulator) ViralScores {
	vs := ViralScores{
		Compatibility: compatibilityScore(a),
		Interest:      make(map[string]float64, len(a.order)),
		GhostRisk:     make(map[string]*GhostRisk, len(a.order)),
	}

	totalInits := 0
	for _, name := range a.order {
		totalInits += a.accs[name].initiations
	}
	months := sortedMonths(a.monthTotals)

	for _, name := range a.order {
		acc := a.accs[name]
		vs.Interest[name] = interestScore(a, acc, totalInits)
		vs.GhostRisk[name] = ghostRisk(acc, months)
	}
	vs.Delusion = delusionScore(a, vs.Interest)
	return vs
}

// compatibilityScore is the unweighted mean of five structural sub-scores
// for a two-party conversation. Any other participant count scores 0.
func compatibilityScore(a *accumulator) float64 {
	if len(a.order) != 2 {
		return 0
	}
	pa := a.accs[a.order[0]]
	pb := a.accs[a.order[1]]

	total := activityOverlap(pa, pb) +
		symmetryScore(medianMs(pa.responseSamples), medianMs(pb.responseSamples)) +
		balanceScore(float64(pa.messages), float64(pb.messages)) +
		engagementBalance(pa, pb) +
		lengthMatch(pa, pb)
	return clamp100(total / 5)
}

// activityOverlap sums the smaller of the two hour-of-day shares across
// all 24 hours. Identical daily rhythms score 100; disjoint ones score 0.
// Neutral 50 when either side has no messages to profile.
func activityOverlap(pa, pb *personAcc) float64 {
	if pa.messages == 0 || pb.messages == 0 {
		return 50
	}
	var overlap float64
	for hour := 0; hour < 24; hour++ {
		var ca, cb int
		for day := 0; day < 7; day++ {
			ca += pa.heat[day][hour]
			cb += pb.heat[day][hour]
		}
		shareA := float64(ca) / float64(pa.messages)
		shareB := float64(cb) / float64(pb.messages)
		overlap += math.Min(shareA, shareB)
	}
	return clamp100(100 * overlap)
}

// engagementBalance compares reaction-give rates. When neither person has
// given a single reaction (platforms without native reactions) it falls
// back to a mention/reply blend so the sub-score still carries signal.
func engagementBalance(pa, pb *personAcc) float64 {
	ra := safeRate(float64(pa.reactionsGiven), float64(pa.messagesReceived))
	rb := safeRate(float64(pb.reactionsGiven), float64(pb.messagesReceived))
	if ra == 0 && rb == 0 {
		ra = engagementBlend(pa)
		rb = engagementBlend(pb)
	}
	return symmetryScore(ra, rb)
}

func engagementBlend(acc *personAcc) float64 {
	mention := safeRate(float64(acc.mentions), float64(acc.messages))
	reply := safeRate(float64(len(acc.responseSamples)), float64(acc.messages))
	return 0.5*mention + 0.5*reply
}

// lengthMatch compares average words per message. Equal lengths score
// 100; both sides silent is neutral 50.
func lengthMatch(pa, pb *personAcc) float64 {
	la := safeRate(float64(pa.words), float64(pa.messages))
	lb := safeRate(float64(pb.words), float64(pb.messages))
	hi := math.Max(la, lb)
	if hi <= 0 {
		return 50
	}
	return clamp100(100 - 100*math.Abs(la-lb)/hi)
}

// interestScore blends six factors into [0,100]. The two trend factors
// pivot around a neutral 50: answering faster month over month and writing
// longer messages both read as growing interest.
func interestScore(a *accumulator, acc *personAcc, totalInits int) float64 {
	initiation := clamp100(100 * safeRate(float64(acc.initiations), float64(totalInits)))
	response := clamp100(50 - olsSlope(monthlyAverages(acc.rtByMonth))/responseTrendDivisor)
	length := clamp100(50 + lengthTrendScale*olsSlope(monthlyAverages(acc.lenByMonth)))

	engagement := clamp100(engagementReactionScale * safeRate(float64(acc.reactionsReceived), float64(acc.messages)))
	if a.totalReactions == 0 {
		engagement = clamp100(engagementBlendScale * engagementBlend(acc))
	}

	doubleText := clamp100(1000 * safeRate(float64(acc.doubleTexts), float64(acc.messages)))
	lateNight := clamp100(0.5 * 1000 * safeRate(float64(acc.lateNight), float64(acc.messages)))

	score := interestWeightInitiation*initiation +
		interestWeightResponse*response +
		interestWeightLength*length +
		interestWeightEngagement*engagement +
		interestWeightDoubleText*doubleText +
		interestWeightLateNight*lateNight
	return clamp100(math.Round(score))
}

// ghostRisk compares the last three calendar months against the earlier
// baseline. Only worsening directions contribute, improvements never
// subtract, and each component past the threshold attaches a plain
// explanation.
func ghostRisk(acc *personAcc, months []string) *GhostRisk {
	factors := make([]string, 0, 4)
	if len(months) < ghostRecentMonths+ghostMinEarlier {
		factors = append(factors, "insufficient history for trend comparison")
		return &GhostRisk{Score: 0, Factors: factors}
	}
	cut := len(months) - ghostRecentMonths
	earlier, recent := months[:cut], months[cut:]

	rtSub := increaseScore(windowBucketAvg(acc.rtByMonth, recent), windowBucketAvg(acc.rtByMonth, earlier))
	lenSub := decreaseScore(windowBucketAvg(acc.lenByMonth, recent), windowBucketAvg(acc.lenByMonth, earlier))
	initSub := decreaseScore(windowCountAvg(acc.initsByMonth, recent), windowCountAvg(acc.initsByMonth, earlier))
	volSub := decreaseScore(windowCountAvg(acc.msgsByMonth, recent), windowCountAvg(acc.msgsByMonth, earlier))

	if rtSub > ghostFactorThreshold {
		factors = append(factors, fmt.Sprintf("response times up %.0f%% vs earlier months", rtSub))
	}
	if lenSub > ghostFactorThreshold {
		factors = append(factors, fmt.Sprintf("messages %.0f%% shorter than they used to be", lenSub))
	}
	if initSub > ghostFactorThreshold {
		factors = append(factors, fmt.Sprintf("initiating %.0f%% less often", initSub))
	}
	if volSub > ghostFactorThreshold {
		factors = append(factors, fmt.Sprintf("message volume down %.0f%%", volSub))
	}

	score := ghostWeightResponse*rtSub +
		ghostWeightLength*lenSub +
		ghostWeightInitiation*initSub +
		ghostWeightVolume*volSub
	return &GhostRisk{Score: clamp100(math.Round(score)), Factors: factors}
}

// increaseScore maps a rise of recent over earlier to [0,100] relative
// change. No earlier signal, or an improvement, scores 0.
func increaseScore(recent, earlier float64) float64 {
	if earlier <= 0 || recent <= earlier {
		return 0
	}
	return clamp100(100 * (recent - earlier) / earlier)
}

// decreaseScore maps a fall of recent below earlier to [0,100] relative
// change.
func decreaseScore(recent, earlier float64) float64 {
	if earlier <= 0 || recent >= earlier {
		return 0
	}
	return clamp100(100 * (earlier - recent) / earlier)
}

func windowBucketAvg(m map[string]*monthBucket, months []string) float64 {
	var sum float64
	var count int
	for _, month := range months {
		if b, ok := m[month]; ok {
			sum += b.sum
			count += b.count
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func windowCountAvg(m map[string]int, months []string) float64 {
	if len(months) == 0 {
		return 0
	}
	total := 0
	for _, month := range months {
		total += m[month]
	}
	return float64(total) / float64(len(months))
}

// delusionScore is the interest gap between the two sides. The holder is
// the person with the lower score; gaps under the noise threshold are
// suppressed entirely.
func delusionScore(a *accumulator, interest map[string]float64) DelusionScore {
	if len(a.order) != 2 {
		return DelusionScore{}
	}
	first, second := a.order[0], a.order[1]
	gap := math.Abs(interest[first] - interest[second])
	if gap < delusionNoiseGap {
		return DelusionScore{}
	}
	holder := first
	if interest[first] > interest[second] {
		holder = second
	}
	return DelusionScore{Score: gap, Holder: holder}
}
