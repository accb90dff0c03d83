package stream

import (
	"sort"

	"telegram-stock-pulse/internal/collector/scorer"
	"telegram-stock-pulse/internal/entity"
)

// GenerateInvestmentPsychologyReport builds the aggregate report over the
// whole buffer and augments it with per-channel and temporal breakdowns.
// Returns an error when nothing has been buffered yet.
func (c *Coordinator) GenerateInvestmentPsychologyReport() (*entity.PsychologyReport, error) {
	messages := c.BufferSnapshot()

	report, err := scorer.GenerateReport(messages)
	if err != nil {
		return nil, err
	}

	report.ChannelAnalysis = channelAnalysis(messages)
	report.TemporalAnalysis = temporalAnalysis(messages)
	return report, nil
}

func channelAnalysis(messages []entity.ScoredMessage) map[string]*entity.ChannelReportStats {
	analysis := make(map[string]*entity.ChannelReportStats)
	urgencySums := make(map[string]int)
	reliabilitySums := make(map[string]int)

	for _, msg := range messages {
		channel := msg.Metadata.Channel
		stats, ok := analysis[channel]
		if !ok {
			stats = &entity.ChannelReportStats{TopStocks: map[string]int{}}
			analysis[channel] = stats
		}

		stats.TotalMessages++
		switch msg.Sentiment.Label {
		case entity.SentimentPositive:
			stats.SentimentCounts.Positive++
		case entity.SentimentNegative:
			stats.SentimentCounts.Negative++
		default:
			stats.SentimentCounts.Neutral++
		}
		urgencySums[channel] += msg.Urgency.Score
		reliabilitySums[channel] += msg.Reliability.Score
		for _, stock := range msg.Entities.Stocks {
			stats.TopStocks[stock]++
		}
	}

	for channel, stats := range analysis {
		total := float64(stats.TotalMessages)
		stats.AverageUrgency = float64(urgencySums[channel]) / total
		stats.AverageReliability = float64(reliabilitySums[channel]) / total
	}
	return analysis
}

func temporalAnalysis(messages []entity.ScoredMessage) *entity.TemporalReportStats {
	stats := &entity.TemporalReportStats{
		HourlyPatterns: map[int]entity.SentimentCounts{},
		DailyPatterns:  map[string]entity.SentimentCounts{},
		MostActiveHour: -1,
	}

	for _, msg := range messages {
		hour := msg.Metadata.Timestamp.Hour()
		day := msg.Metadata.Timestamp.Format("2006-01-02")

		hourly := stats.HourlyPatterns[hour]
		daily := stats.DailyPatterns[day]
		switch msg.Sentiment.Label {
		case entity.SentimentPositive:
			hourly.Positive++
			daily.Positive++
		case entity.SentimentNegative:
			hourly.Negative++
			daily.Negative++
		default:
			hourly.Neutral++
			daily.Neutral++
		}
		stats.HourlyPatterns[hour] = hourly
		stats.DailyPatterns[day] = daily
	}

	// Scan in ascending key order so ties resolve deterministically.
	maxHour := 0
	for hour := 0; hour < 24; hour++ {
		if counts, ok := stats.HourlyPatterns[hour]; ok && counts.Total() > maxHour {
			maxHour = counts.Total()
			stats.MostActiveHour = hour
		}
	}

	days := make([]string, 0, len(stats.DailyPatterns))
	for day := range stats.DailyPatterns {
		days = append(days, day)
	}
	sort.Strings(days)
	maxDay := 0
	for _, day := range days {
		if total := stats.DailyPatterns[day].Total(); total > maxDay {
			maxDay = total
			stats.MostActiveDay = day
		}
	}

	return stats
}
