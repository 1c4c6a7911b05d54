package quant

// FreqEntry is one row of a top-N frequency list, ordered by count
// descending with ties broken by first appearance.
type FreqEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// MessageExtreme records the longest or shortest non-empty message a
// person sent. Length is in runes.
type MessageExtreme struct {
	Length    int    `json:"length"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// PersonStats is the per-participant block of the report.
type PersonStats struct {
	Name               string         `json:"name"`
	TotalMessages      int            `json:"totalMessages"`
	TotalWords         int            `json:"totalWords"`
	TotalChars         int            `json:"totalChars"`
	AvgWordsPerMessage float64        `json:"avgWordsPerMessage"`
	AvgCharsPerMessage float64        `json:"avgCharsPerMessage"`
	LongestMessage     MessageExtreme `json:"longestMessage"`
	ShortestMessage    MessageExtreme `json:"shortestMessage"`
	TopEmoji           []FreqEntry    `json:"topEmoji"`
	TopWords           []FreqEntry    `json:"topWords"`
	TopBigrams         []FreqEntry    `json:"topBigrams"`
	VocabularyRichness float64        `json:"vocabularyRichness"`
	QuestionsAsked     int            `json:"questionsAsked"`
	MediaCount         int            `json:"mediaCount"`
	LinkCount          int            `json:"linkCount"`
	UnsentCount        int            `json:"unsentCount"`
	ReactionsGiven     int            `json:"reactionsGiven"`
	TopReactionsGiven  []FreqEntry    `json:"topReactionsGiven"`
	ReactionsReceived  int            `json:"reactionsReceived"`
	MessagesReceived   int            `json:"messagesReceived"`
}

// ResponseStats summarizes one person's same-session reply gaps.
type ResponseStats struct {
	SampleCount   int     `json:"sampleCount"`
	MeanMs        float64 `json:"meanMs"`
	MedianMs      float64 `json:"medianMs"`
	MinMs         int64   `json:"minMs"`
	MaxMs         int64   `json:"maxMs"`
	TrendPerMonth float64 `json:"trendMsPerMonth"`
}

// Silence is the single longest gap between consecutive messages, with
// both boundary senders. Ties keep the first occurrence.
type Silence struct {
	DurationMs int64  `json:"durationMs"`
	StartTs    int64  `json:"startTs"`
	EndTs      int64  `json:"endTs"`
	FromSender string `json:"fromSender"`
	ToSender   string `json:"toSender"`
}

type TimingStats struct {
	PerPerson      map[string]*ResponseStats `json:"perPerson"`
	LongestSilence Silence                   `json:"longestSilence"`
	LateNight      map[string]int            `json:"lateNightCounts"`
	Initiations    map[string]int            `json:"initiations"`
	Endings        map[string]int            `json:"endings"`
}

type EngagementStats struct {
	DoubleTexts           map[string]int     `json:"doubleTexts"`
	MaxConsecutive        map[string]int     `json:"maxConsecutive"`
	MessageShare          map[string]float64 `json:"messageShare"`
	ReactionGivenRate     map[string]float64 `json:"reactionGivenRate"`
	ReactionReceivedRate  map[string]float64 `json:"reactionReceivedRate"`
	TotalSessions         int                `json:"totalSessions"`
	AvgMessagesPerSession float64            `json:"avgMessagesPerSession"`
	AvgSessionDurationMs  float64            `json:"avgSessionDurationMs"`
}

// MonthVolume is one point of the monthly volume series. PerPerson lists
// only senders active in that month.
type MonthVolume struct {
	Month     string         `json:"month"`
	Total     int            `json:"total"`
	PerPerson map[string]int `json:"perPerson"`
}

// Burst is a contiguous run of days whose volume exceeded three times the
// trailing baseline.
type Burst struct {
	StartDay      string  `json:"startDay"`
	EndDay        string  `json:"endDay"`
	TotalMessages int     `json:"totalMessages"`
	AvgDaily      float64 `json:"avgDaily"`
}

type PatternStats struct {
	MonthlyVolume    []MonthVolume  `json:"monthlyVolume"`
	WeekdayCounts    map[string]int `json:"weekdayCounts"`
	WeekendCounts    map[string]int `json:"weekendCounts"`
	VolumeTrendSlope float64        `json:"volumeTrendSlope"`
	Bursts           []Burst        `json:"bursts"`
}

// Heatmap is a weekday-by-hour grid. Index 0 is Sunday.
type Heatmap [7][24]int

type HeatmapStats struct {
	Combined  Heatmap             `json:"combined"`
	PerPerson map[string]*Heatmap `json:"perPerson"`
}

// TrendSeries is a monthly aggregate series with its least-squares slope
// per month step.
type TrendSeries struct {
	Months []string  `json:"months"`
	Values []float64 `json:"values"`
	Slope  float64   `json:"slopePerMonth"`
}

type TrendStats struct {
	ResponseTime  TrendSeries `json:"responseTime"`
	MessageLength TrendSeries `json:"messageLength"`
	Initiations   TrendSeries `json:"initiations"`
}

// ReciprocityIndex holds the four structural-balance sub-scores for a
// two-party conversation. All values sit in [0,100]; 50 is neutral.
type ReciprocityIndex struct {
	MessageBalance    float64 `json:"messageBalance"`
	InitiationBalance float64 `json:"initiationBalance"`
	ResponseSymmetry  float64 `json:"responseSymmetry"`
	ReactionBalance   float64 `json:"reactionBalance"`
	Overall           float64 `json:"overall"`
}

type NetworkNode struct {
	Name             string  `json:"name"`
	DegreeCentrality float64 `json:"degreeCentrality"`
	TotalMessages    int     `json:"totalMessages"`
}

// NetworkEdge is an undirected edge carrying both directional reply counts.
type NetworkEdge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	AToB   int    `json:"aToB"`
	BToA   int    `json:"bToA"`
	Weight int    `json:"weight"`
}

type NetworkMetrics struct {
	Nodes         []NetworkNode `json:"nodes"`
	Edges         []NetworkEdge `json:"edges"`
	Density       float64       `json:"density"`
	MostConnected string        `json:"mostConnected"`
}

// GhostRisk scores declining engagement for one person, with
// plain-language factors for every component that crossed the threshold.
type GhostRisk struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
}

// DelusionScore is the interest-gap asymmetry of a two-party conversation.
// Holder names the lower-interest person; empty when the gap is noise.
type DelusionScore struct {
	Score  float64 `json:"score"`
	Holder string  `json:"holder"`
}

type ViralScores struct {
	Compatibility float64               `json:"compatibility"`
	Interest      map[string]float64    `json:"interest"`
	GhostRisk     map[string]*GhostRisk `json:"ghostRisk"`
	Delusion      DelusionScore         `json:"delusion"`
}

// Report is the complete quantitative profile of one conversation. It is
// plain data: safe to serialize, hash or diff, with no NaN or Inf values
// anywhere.
type Report struct {
	Platform     string                  `json:"platform"`
	IsGroup      bool                    `json:"isGroup"`
	Participants []string                `json:"participants"`
	MessageCount int                     `json:"messageCount"`
	PerPerson    map[string]*PersonStats `json:"perPerson"`
	Timing       TimingStats             `json:"timing"`
	Engagement   EngagementStats         `json:"engagement"`
	Patterns     PatternStats            `json:"patterns"`
	Heatmap      HeatmapStats            `json:"heatmap"`
	Trends       TrendStats              `json:"trends"`
	Reciprocity  ReciprocityIndex        `json:"reciprocityIndex"`
	Network      *NetworkMetrics         `json:"networkMetrics,omitempty"`
	Scores       ViralScores             `json:"viralScores"`
}
