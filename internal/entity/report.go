package entity

import "time"

// MarketMood is the coarse aggregate sentiment label.
type MarketMood string

const (
	MoodVeryBullish MarketMood = "very_bullish"
	MoodBullish     MarketMood = "bullish"
	MoodNeutral     MarketMood = "neutral"
	MoodBearish     MarketMood = "bearish"
	MoodVeryBearish MarketMood = "very_bearish"
)

// SentimentCounts is a per-label sentiment distribution.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the sum over all labels.
func (c SentimentCounts) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// UrgencyCounts is a per-label urgency distribution.
type UrgencyCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// ReliabilityCounts is a per-label reliability distribution.
type ReliabilityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// RankedEntry is one row of a frequency ranking.
type RankedEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ReportSummary is the headline block of a psychology report.
type ReportSummary struct {
	TotalMessages           int               `json:"total_messages"`
	SentimentDistribution   SentimentCounts   `json:"sentiment_distribution"`
	UrgencyDistribution     UrgencyCounts     `json:"urgency_distribution"`
	ReliabilityDistribution ReliabilityCounts `json:"reliability_distribution"`
	AverageSentiment        float64           `json:"average_sentiment"`
	MarketMood              MarketMood        `json:"market_mood"`
}

// ChannelReportStats is the per-channel breakdown of a psychology report.
type ChannelReportStats struct {
	TotalMessages      int             `json:"total_messages"`
	SentimentCounts    SentimentCounts `json:"sentiment_counts"`
	AverageUrgency     float64         `json:"average_urgency"`
	AverageReliability float64         `json:"average_reliability"`
	TopStocks          map[string]int  `json:"top_stocks"`
}

// TemporalReportStats buckets messages by hour of day and calendar day.
type TemporalReportStats struct {
	HourlyPatterns map[int]SentimentCounts    `json:"hourly_patterns"`
	DailyPatterns  map[string]SentimentCounts `json:"daily_patterns"`
	MostActiveHour int                        `json:"most_active_hour"`
	MostActiveDay  string                     `json:"most_active_day"`
}

// PsychologyReport is the full on-demand aggregate report. It is always a
// fresh projection over the buffer, never persisted by the core.
type PsychologyReport struct {
	Summary          ReportSummary                  `json:"summary"`
	TopStocks        []RankedEntry                  `json:"top_stocks"`
	TopKeywords      []RankedEntry                  `json:"top_keywords"`
	Recommendations  []string                       `json:"recommendations"`
	ChannelAnalysis  map[string]*ChannelReportStats `json:"channel_analysis,omitempty"`
	TemporalAnalysis *TemporalReportStats           `json:"temporal_analysis,omitempty"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}

// RecentSentiment summarizes the sentiment of the newest buffered messages.
type RecentSentiment struct {
	SentimentCounts
	Dominant   SentimentLabel `json:"dominant"`
	Confidence float64        `json:"confidence"`
}

// Statistics is the coordinator's live counters snapshot.
type Statistics struct {
	TotalProcessed         int64            `json:"total_processed"`
	SuccessfulProcessed    int64            `json:"successful_processed"`
	Errors                 int64            `json:"errors"`
	StartTime              *time.Time       `json:"start_time,omitempty"`
	Runtime                time.Duration    `json:"runtime"`
	ProcessedMessagesCount int              `json:"processed_messages_count"`
	ChannelsActive         int              `json:"channels_active"`
	RecentSentiment        *RecentSentiment `json:"recent_sentiment,omitempty"`
	SuccessRate            string           `json:"success_rate"`
}

// Status is the coordinator's externally visible state.
type Status struct {
	IsRunning    bool          `json:"is_running"`
	Stats        Statistics    `json:"stats"`
	ChannelCount int           `json:"channel_count"`
	Uptime       time.Duration `json:"uptime"`
}

// MessageFilters narrows a recent-message query. Zero values mean no filter.
type MessageFilters struct {
	Sentiment      SentimentLabel `json:"sentiment,omitempty" query:"sentiment"`
	Channel        string         `json:"channel,omitempty" query:"channel"`
	Urgency        UrgencyLabel   `json:"urgency,omitempty" query:"urgency"`
	MinReliability int            `json:"min_reliability,omitempty" query:"min_reliability"`
}

// MonitoringChannel is the collector-facing projection of an active channel.
type MonitoringChannel struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Category           ChannelCategory        `json:"category"`
	Priority           ChannelPriority        `json:"priority"`
	MonitoringInterval time.Duration          `json:"monitoring_interval"`
	Keywords           []string               `json:"keywords"`
	CustomFilters      map[string]interface{} `json:"custom_filters,omitempty"`
}

// MonitoringSettings is the registry snapshot handed to the collector.
type MonitoringSettings struct {
	Channels               []MonitoringChannel `json:"channels"`
	Categories             []Category          `json:"categories"`
	TotalChannels          int                 `json:"total_channels"`
	HighPriorityChannels   int                 `json:"high_priority_channels"`
	MediumPriorityChannels int                 `json:"medium_priority_channels"`
	LowPriorityChannels    int                 `json:"low_priority_channels"`
}

// RegistryStatistics summarizes the channel registry.
type RegistryStatistics struct {
	TotalChannels             int                     `json:"total_channels"`
	ActiveChannels            int                     `json:"active_channels"`
	InactiveChannels          int                     `json:"inactive_channels"`
	TotalMessages             int64                   `json:"total_messages"`
	CategoryStats             map[ChannelCategory]int `json:"category_stats"`
	PriorityStats             map[ChannelPriority]int `json:"priority_stats"`
	AverageMessagesPerChannel float64                 `json:"average_messages_per_channel"`
}

// CollectorStatistics summarizes the ingest collector's intake.
type CollectorStatistics struct {
	TotalMessages int            `json:"total_messages"`
	TodayMessages int            `json:"today_messages"`
	ChannelsCount int            `json:"channels_count"`
	KeywordsCount int            `json:"keywords_count"`
	StocksCount   int            `json:"stocks_count"`
	ChannelStats  map[string]int `json:"channel_stats"`
}
