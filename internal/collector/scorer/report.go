package scorer

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"telegram-stock-pulse/internal/entity"
)

const (
	topStocksLimit   = 10
	topKeywordsLimit = 20
	// Keyword ranking skips tokens of two characters or fewer.
	minKeywordLength = 3
)

// GenerateReport aggregates a message list into the psychology report core:
// distributions, rankings, market mood and recommendations. The caller owns
// any further per-channel or temporal augmentation.
func GenerateReport(messages []entity.ScoredMessage) (*entity.PsychologyReport, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to analyze")
	}

	var (
		sentimentCounts   entity.SentimentCounts
		urgencyCounts     entity.UrgencyCounts
		reliabilityCounts entity.ReliabilityCounts
	)
	stockFreq := newFrequencyTable()
	keywordFreq := newFrequencyTable()

	for _, msg := range messages {
		switch msg.Sentiment.Label {
		case entity.SentimentPositive:
			sentimentCounts.Positive++
		case entity.SentimentNegative:
			sentimentCounts.Negative++
		default:
			sentimentCounts.Neutral++
		}

		switch msg.Urgency.Label {
		case entity.UrgencyHigh:
			urgencyCounts.High++
		case entity.UrgencyMedium:
			urgencyCounts.Medium++
		default:
			urgencyCounts.Low++
		}

		switch msg.Reliability.Label {
		case entity.ReliabilityHigh:
			reliabilityCounts.High++
		case entity.ReliabilityMedium:
			reliabilityCounts.Medium++
		default:
			reliabilityCounts.Low++
		}

		for _, stock := range msg.Entities.Stocks {
			stockFreq.add(stock)
		}
		for _, token := range msg.Tokens {
			if utf8.RuneCountInString(token) >= minKeywordLength {
				keywordFreq.add(token)
			}
		}
	}

	return &entity.PsychologyReport{
		Summary: entity.ReportSummary{
			TotalMessages:           len(messages),
			SentimentDistribution:   sentimentCounts,
			UrgencyDistribution:     urgencyCounts,
			ReliabilityDistribution: reliabilityCounts,
			AverageSentiment:        averageSentiment(sentimentCounts),
			MarketMood:              determineMarketMood(sentimentCounts),
		},
		TopStocks:       stockFreq.top(topStocksLimit),
		TopKeywords:     keywordFreq.top(topKeywordsLimit),
		Recommendations: generateRecommendations(sentimentCounts, urgencyCounts),
		GeneratedAt:     time.Now(),
	}, nil
}

// averageSentiment is (positive - negative) / total, 0 when empty.
func averageSentiment(c entity.SentimentCounts) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Positive-c.Negative) / float64(total)
}

func determineMarketMood(c entity.SentimentCounts) entity.MarketMood {
	total := c.Total()
	if total == 0 {
		return entity.MoodNeutral
	}
	positiveRatio := float64(c.Positive) / float64(total)
	negativeRatio := float64(c.Negative) / float64(total)

	// A label only wins while it strictly dominates the opposite one, so an
	// even positive/negative split stays neutral.
	switch {
	case positiveRatio > 0.6:
		return entity.MoodVeryBullish
	case positiveRatio > 0.4 && positiveRatio > negativeRatio:
		return entity.MoodBullish
	case negativeRatio > 0.6:
		return entity.MoodVeryBearish
	case negativeRatio > 0.4 && negativeRatio > positiveRatio:
		return entity.MoodBearish
	}
	return entity.MoodNeutral
}

func generateRecommendations(sentiment entity.SentimentCounts, urgency entity.UrgencyCounts) []string {
	recommendations := []string{}

	if float64(sentiment.Positive) > float64(sentiment.Negative)*1.5 {
		recommendations = append(recommendations, "시장 전반이 긍정적이므로 공격적인 투자 전략 고려")
	} else if float64(sentiment.Negative) > float64(sentiment.Positive)*1.5 {
		recommendations = append(recommendations, "시장 전반이 부정적이므로 방어적인 투자 전략 고려")
	}

	if urgency.High > urgency.Low*2 {
		recommendations = append(recommendations, "급변성이 높으므로 신중한 접근 필요")
	}

	return recommendations
}

// frequencyTable counts values while remembering first-seen order so that
// ranking ties stay deterministic.
type frequencyTable struct {
	counts map[string]int
	order  []string
}

func newFrequencyTable() *frequencyTable {
	return &frequencyTable{counts: make(map[string]int)}
}

func (t *frequencyTable) add(value string) {
	if _, ok := t.counts[value]; !ok {
		t.order = append(t.order, value)
	}
	t.counts[value]++
}

func (t *frequencyTable) top(limit int) []entity.RankedEntry {
	ranked := make([]entity.RankedEntry, 0, len(t.order))
	for _, v := range t.order {
		ranked = append(ranked, entity.RankedEntry{Value: v, Count: t.counts[v]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
