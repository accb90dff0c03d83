package scorer

import (
	"regexp"
	"strings"

	"telegram-stock-pulse/internal/entity"
)

var (
	// Hangul syllables and Jamo, word characters, whitespace, '.' and '#'
	// survive cleaning; everything else is stripped.
	cleanPattern      = regexp.MustCompile(`[^\x{AC00}-\x{D7AF}\x{1100}-\x{11FF}\x{3130}-\x{318F}\w\s.#]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	tokenSplitPattern = regexp.MustCompile("[\\s,.!?;:()\\[\\]{}'\"`]+")

	stockCodePattern  = regexp.MustCompile(`\b([A-Z0-9]{6})\b|\b(\d{6})\b`)
	pricePattern      = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*\s?원|\d{1,3}(?:,\d{3})*\s?달러|\$[\d,]+)`)
	percentPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?%)`)
	datePattern       = regexp.MustCompile(`(\d{4}[-/]?\d{1,2}[-/]?\d{1,2}|\d{1,2}/\d{1,2})`)
	sixDigitPattern   = regexp.MustCompile(`\d{6}`)
	percentCuePattern = regexp.MustCompile(`\d+%`)
)

// Scorer turns raw text into sentiment, urgency, reliability and entity
// fields. It is a pure function over its immutable lexicon: identical input
// always yields identical output, and no input makes it fail.
type Scorer struct {
	lexicon *Lexicon
}

// New creates a Scorer. A nil lexicon falls back to the default one.
func New(lexicon *Lexicon) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{lexicon: lexicon}
}

// Score analyzes text and returns every content field of a ScoredMessage.
// Metadata is left zero for the coordinator to fill in.
func (s *Scorer) Score(text string) entity.ScoredMessage {
	return entity.ScoredMessage{
		Original:        text,
		Cleaned:         s.CleanText(text),
		Tokens:          s.Tokenize(text),
		Entities:        s.ExtractEntities(text),
		Sentiment:       s.AnalyzeSentiment(text),
		InvestmentTerms: s.ExtractInvestmentTerms(text),
		Urgency:         s.AssessUrgency(text),
		Reliability:     s.AssessReliability(text),
	}
}

// CleanText strips everything but Hangul, word characters, whitespace, '.'
// and '#', then collapses whitespace runs.
func (s *Scorer) CleanText(text string) string {
	cleaned := cleanPattern.ReplaceAllString(text, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Tokenize lower-cases the original text and splits it on whitespace and
// punctuation, dropping empty tokens.
func (s *Scorer) Tokenize(text string) []string {
	parts := tokenSplitPattern.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ExtractEntities pulls instrument codes, prices, percentages, dates and
// company names out of the original text.
func (s *Scorer) ExtractEntities(text string) entity.MessageEntities {
	return entity.MessageEntities{
		Stocks:      matchAll(stockCodePattern, text),
		Prices:      matchAll(pricePattern, text),
		Percentages: matchAll(percentPattern, text),
		Dates:       matchAll(datePattern, text),
		Companies:   s.extractCompanies(text),
	}
}

func matchAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// extractCompanies is an exact substring check against the closed gazetteer.
func (s *Scorer) extractCompanies(text string) []string {
	found := []string{}
	for _, company := range s.lexicon.Companies {
		if strings.Contains(text, company) {
			found = append(found, company)
		}
	}
	return found
}

// AnalyzeSentiment counts lexicon hits per token and picks the strict
// majority label. Ties between positive and negative resolve to neutral.
func (s *Scorer) AnalyzeSentiment(text string) entity.Sentiment {
	var scores entity.SentimentScores
	for _, token := range s.Tokenize(text) {
		if containsAny(token, s.lexicon.Positive) {
			scores.Positive++
		}
		if containsAny(token, s.lexicon.Negative) {
			scores.Negative++
		}
		if containsAny(token, s.lexicon.Neutral) {
			scores.Neutral++
		}
	}

	label := entity.SentimentNeutral
	confidence := 0.5

	total := scores.Positive + scores.Negative + scores.Neutral
	if total > 0 {
		switch {
		case scores.Positive > scores.Negative:
			label = entity.SentimentPositive
			confidence = float64(scores.Positive) / float64(total)
		case scores.Negative > scores.Positive:
			label = entity.SentimentNegative
			confidence = float64(scores.Negative) / float64(total)
		default:
			label = entity.SentimentNeutral
			confidence = float64(scores.Neutral) / float64(total)
		}
	}

	return entity.Sentiment{Label: label, Confidence: confidence, Scores: scores}
}

func containsAny(token string, words []string) bool {
	for _, w := range words {
		if strings.Contains(token, w) {
			return true
		}
	}
	return false
}

// ExtractInvestmentTerms matches the four fixed term lists case-insensitively
// against the whole text. Only non-empty categories appear in the map.
func (s *Scorer) ExtractInvestmentTerms(text string) map[string][]string {
	lower := strings.ToLower(text)
	terms := make(map[string][]string)
	for _, cat := range s.lexicon.termCategories() {
		var found []string
		for _, term := range cat.terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				found = append(found, term)
			}
		}
		if len(found) > 0 {
			terms[cat.name] = found
		}
	}
	return terms
}

// AssessUrgency counts how many distinct urgency markers the text contains.
func (s *Scorer) AssessUrgency(text string) entity.Urgency {
	score := 0
	for _, marker := range s.lexicon.UrgencyMarkers {
		if strings.Contains(text, marker) {
			score++
		}
	}

	label := entity.UrgencyLow
	switch {
	case score >= 3:
		label = entity.UrgencyHigh
	case score >= 1:
		label = entity.UrgencyMedium
	}

	return entity.Urgency{Label: label, Score: score}
}

// AssessReliability starts each message at 50 and applies the fixed cue
// adjustments, clamping to [0,100].
func (s *Scorer) AssessReliability(text string) entity.Reliability {
	score := 50

	if strings.Contains(text, "공시") {
		score += 20
	}
	if strings.Contains(text, "실적") {
		score += 15
	}
	if strings.Contains(text, "리서치") {
		score += 15
	}
	if sixDigitPattern.MatchString(text) {
		score += 10
	}
	if percentCuePattern.MatchString(text) {
		score += 5
	}

	if strings.Contains(text, "라도") {
		score -= 10
	}
	if strings.Contains(text, "아마") {
		score -= 15
	}
	if strings.Contains(text, "같아") {
		score -= 10
	}
	if strings.Contains(text, "??") || strings.Contains(text, "!!!") {
		score -= 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	label := entity.ReliabilityMedium
	switch {
	case score >= 70:
		label = entity.ReliabilityHigh
	case score <= 40:
		label = entity.ReliabilityLow
	}

	return entity.Reliability{Label: label, Score: score}
}
