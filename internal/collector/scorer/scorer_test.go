package scorer

import (
	"strings"
	"testing"

	"telegram-stock-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	s := New(nil)

	t.Run("strips special characters and collapses whitespace", func(t *testing.T) {
		got := s.CleanText("급등!!!   삼성전자 #주식 5% (테스트)")
		assert.Equal(t, "급등 삼성전자 #주식 5 테스트", got)
	})

	t.Run("keeps hashtags and dots", func(t *testing.T) {
		got := s.CleanText("#코스피 3.5 상승")
		assert.Equal(t, "#코스피 3.5 상승", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", s.CleanText(""))
	})
}

func TestTokenize(t *testing.T) {
	s := New(nil)

	t.Run("splits on whitespace and punctuation", func(t *testing.T) {
		got := s.Tokenize("삼성전자, 급등! Target: 가즈아")
		assert.Equal(t, []string{"삼성전자", "급등", "target", "가즈아"}, got)
	})

	t.Run("lowercases before splitting", func(t *testing.T) {
		got := s.Tokenize("ETF BUY")
		assert.Equal(t, []string{"etf", "buy"}, got)
	})

	t.Run("drops empty tokens", func(t *testing.T) {
		got := s.Tokenize("...  ,, ")
		assert.Empty(t, got)
	})
}

func TestAnalyzeSentiment(t *testing.T) {
	s := New(nil)

	t.Run("positive majority", func(t *testing.T) {
		got := s.AnalyzeSentiment("급등 상승 호재 하락")
		assert.Equal(t, entity.SentimentPositive, got.Label)
		assert.Equal(t, 3, got.Scores.Positive)
		assert.Equal(t, 1, got.Scores.Negative)
		assert.InDelta(t, 0.75, got.Confidence, 1e-9)
	})

	t.Run("negative majority", func(t *testing.T) {
		got := s.AnalyzeSentiment("폭락 손실 악재")
		assert.Equal(t, entity.SentimentNegative, got.Label)
		assert.Equal(t, 3, got.Scores.Negative)
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	})

	t.Run("positive negative tie resolves to neutral", func(t *testing.T) {
		got := s.AnalyzeSentiment("상승 하락")
		assert.Equal(t, entity.SentimentNeutral, got.Label)
		assert.Equal(t, 1, got.Scores.Positive)
		assert.Equal(t, 1, got.Scores.Negative)
		assert.InDelta(t, 0.0, got.Confidence, 1e-9)
	})

	t.Run("no lexicon hits", func(t *testing.T) {
		got := s.AnalyzeSentiment("안녕하세요 반갑습니다")
		assert.Equal(t, entity.SentimentNeutral, got.Label)
		assert.InDelta(t, 0.5, got.Confidence, 1e-9)
		assert.Zero(t, got.Scores.Positive+got.Scores.Negative+got.Scores.Neutral)
	})
}

func TestExtractEntities(t *testing.T) {
	s := New(nil)

	t.Run("stock codes prices percentages dates", func(t *testing.T) {
		got := s.ExtractEntities("005930 목표 100,000원 기대수익 5.5% 기준일 2024-01-15")
		assert.Equal(t, []string{"005930"}, got.Stocks)
		assert.Equal(t, []string{"100,000원"}, got.Prices)
		assert.Equal(t, []string{"5.5%"}, got.Percentages)
		assert.Contains(t, got.Dates, "2024-01-15")
	})

	t.Run("price survives leading symbol noise", func(t *testing.T) {
		got := s.ExtractEntities("현재가 ₿1,234,500원")
		assert.Equal(t, []string{"1,234,500원"}, got.Prices)
	})

	t.Run("companies in gazetteer order", func(t *testing.T) {
		got := s.ExtractEntities("카카오보다 삼성전자")
		assert.Equal(t, []string{"삼성전자", "카카오"}, got.Companies)
	})

	t.Run("no matches yields empty non-nil slices", func(t *testing.T) {
		got := s.ExtractEntities("오늘 날씨 맑음")
		assert.NotNil(t, got.Stocks)
		assert.Empty(t, got.Stocks)
		assert.NotNil(t, got.Prices)
		assert.Empty(t, got.Prices)
		assert.NotNil(t, got.Percentages)
		assert.Empty(t, got.Percentages)
	})
}

func TestExtractInvestmentTerms(t *testing.T) {
	s := New(nil)

	t.Run("one term per matching category", func(t *testing.T) {
		got := s.ExtractInvestmentTerms("코스피 반도체 주식 차트 분석")
		assert.Equal(t, []string{"코스피"}, got["market"])
		assert.Equal(t, []string{"반도체"}, got["sector"])
		assert.Equal(t, []string{"주식"}, got["type"])
		assert.Equal(t, []string{"차트"}, got["analysis"])
	})

	t.Run("matching is case insensitive against canonical terms", func(t *testing.T) {
		got := s.ExtractInvestmentTerms("etf 추천")
		assert.Equal(t, []string{"ETF"}, got["type"])
	})

	t.Run("empty categories omitted", func(t *testing.T) {
		got := s.ExtractInvestmentTerms("점심 뭐 먹지")
		assert.Empty(t, got)
	})
}

func TestAssessUrgency(t *testing.T) {
	s := New(nil)

	t.Run("three distinct markers is high", func(t *testing.T) {
		got := s.AssessUrgency("긴급 지금 바로 확인")
		assert.Equal(t, entity.UrgencyHigh, got.Label)
		assert.Equal(t, 3, got.Score)
	})

	t.Run("single marker is medium", func(t *testing.T) {
		got := s.AssessUrgency("오늘 장 마감")
		assert.Equal(t, entity.UrgencyMedium, got.Label)
		assert.Equal(t, 1, got.Score)
	})

	t.Run("repeated marker counts once", func(t *testing.T) {
		got := s.AssessUrgency("긴급 긴급 긴급")
		assert.Equal(t, entity.UrgencyMedium, got.Label)
		assert.Equal(t, 1, got.Score)
	})

	t.Run("no markers is low", func(t *testing.T) {
		got := s.AssessUrgency("조용한 하루")
		assert.Equal(t, entity.UrgencyLow, got.Label)
		assert.Equal(t, 0, got.Score)
	})
}

func TestAssessReliability(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name  string
		text  string
		score int
		label entity.ReliabilityLabel
	}{
		{"baseline", "그냥 일상 이야기", 50, entity.ReliabilityMedium},
		{"disclosure alone reaches high threshold", "공시", 70, entity.ReliabilityHigh},
		{"speculative alone reaches low threshold", "조금이라도", 40, entity.ReliabilityLow},
		{"question marks stay medium", "정말?? 진짜", 45, entity.ReliabilityMedium},
		{"stacked positive cues clamp at 100", "공시 실적 리서치 005930 5%", 100, entity.ReliabilityHigh},
		{"stacked speculative cues", "아마 오를 것 같아??", 20, entity.ReliabilityLow},
		{"numeric cues", "005930 실적 3% 상승", 80, entity.ReliabilityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.AssessReliability(tt.text)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestScore(t *testing.T) {
	s := New(nil)

	t.Run("fills every content field", func(t *testing.T) {
		text := "긴급! 삼성전자 005930 급등 목표가 100,000원 공시 확인"
		got := s.Score(text)

		assert.Equal(t, text, got.Original)
		assert.NotEmpty(t, got.Cleaned)
		assert.NotEmpty(t, got.Tokens)
		assert.Equal(t, []string{"005930"}, got.Entities.Stocks)
		assert.Equal(t, []string{"삼성전자"}, got.Entities.Companies)
		assert.Equal(t, entity.SentimentPositive, got.Sentiment.Label)
		assert.Equal(t, entity.UrgencyMedium, got.Urgency.Label)
		assert.Equal(t, entity.ReliabilityHigh, got.Reliability.Label)
		assert.Zero(t, got.Metadata)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		text := "코스닥 급락 손실 아마 반등 같아"
		first := s.Score(text)
		second := s.Score(text)
		assert.Equal(t, first, second)
	})

	t.Run("never fails on hostile input", func(t *testing.T) {
		for _, text := range []string{"", "\x00\xff\xfe", "🚀🚀🚀", "((((((", "\n\t\r"} {
			require.NotPanics(t, func() { s.Score(text) })
		}
	})

	t.Run("disclosure announcement scores as a strong signal", func(t *testing.T) {
		got := s.Score("삼성전자 실적 발표, 영업이익 급등 20% 공시")
		assert.GreaterOrEqual(t, got.Reliability.Score, 85)
		assert.Equal(t, entity.ReliabilityHigh, got.Reliability.Label)
	})
}

// TestScoreLabelsMatchNumericScores sweeps a generated corpus and checks
// that every label agrees with its numeric score, not just hand-picked
// sample points.
func TestScoreLabelsMatchNumericScores(t *testing.T) {
	s := New(nil)

	openers := []string{
		"",
		"공시 발표",
		"리서치 보고서 실적",
		"아마 내릴 것 같아",
		"조금이라도 벌어보려고",
	}
	bodies := []string{
		"005930 거래량 관찰",
		"삼성전자 상승 기대 호재",
		"급락 손실 우려 매도",
		"코스피 보합 관망",
		"목표가 상향 매수 추천",
		"그냥 일상 이야기",
	}
	closers := []string{
		"",
		"긴급 지금 바로 확인",
		"오늘 내일 마감임박 찬스",
		"정말?? 진짜!!!",
		"이번 주 20% 움직임",
	}

	for _, opener := range openers {
		for _, body := range bodies {
			for _, closer := range closers {
				text := strings.TrimSpace(opener + " " + body + " " + closer)
				got := s.Score(text)

				rel := got.Reliability
				switch {
				case rel.Score >= 70:
					assert.Equal(t, entity.ReliabilityHigh, rel.Label, "text %q score %d", text, rel.Score)
				case rel.Score <= 40:
					assert.Equal(t, entity.ReliabilityLow, rel.Label, "text %q score %d", text, rel.Score)
				default:
					assert.Equal(t, entity.ReliabilityMedium, rel.Label, "text %q score %d", text, rel.Score)
				}
				assert.GreaterOrEqual(t, rel.Score, 0, "text %q", text)
				assert.LessOrEqual(t, rel.Score, 100, "text %q", text)

				urg := got.Urgency
				switch {
				case urg.Score >= 3:
					assert.Equal(t, entity.UrgencyHigh, urg.Label, "text %q markers %d", text, urg.Score)
				case urg.Score >= 1:
					assert.Equal(t, entity.UrgencyMedium, urg.Label, "text %q markers %d", text, urg.Score)
				default:
					assert.Equal(t, entity.UrgencyLow, urg.Label, "text %q", text)
				}

				sen := got.Sentiment
				switch sen.Label {
				case entity.SentimentPositive:
					assert.Greater(t, sen.Scores.Positive, sen.Scores.Negative, "text %q", text)
				case entity.SentimentNegative:
					assert.Greater(t, sen.Scores.Negative, sen.Scores.Positive, "text %q", text)
				default:
					assert.Equal(t, sen.Scores.Positive, sen.Scores.Negative, "text %q", text)
				}
				total := sen.Scores.Positive + sen.Scores.Negative + sen.Scores.Neutral
				if total == 0 {
					assert.Equal(t, entity.SentimentNeutral, sen.Label, "text %q", text)
					assert.Equal(t, 0.5, sen.Confidence, "text %q", text)
				}
			}
		}
	}
}
