package entity

import "time"

// RawMessage is the normalized shape of a message delivered by the transport.
// Text is never nil: when the source provides neither text nor caption it is
// the empty string.
type RawMessage struct {
	ID               int64     `json:"id"`
	Channel          string    `json:"channel"`
	ChannelType      string    `json:"channel_type"`
	Text             string    `json:"text"`
	Timestamp        time.Time `json:"timestamp"`
	UserID           int64     `json:"user_id,omitempty"`
	UserName         string    `json:"user_name,omitempty"`
	Views            int       `json:"views"`
	Forwards         int       `json:"forwards"`
	ReplyToMessageID int64     `json:"reply_to_message_id,omitempty"`
}

// SentimentLabel is the coarse sentiment of a message.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// UrgencyLabel grades how time sensitive a message reads.
type UrgencyLabel string

const (
	UrgencyHigh   UrgencyLabel = "high"
	UrgencyMedium UrgencyLabel = "medium"
	UrgencyLow    UrgencyLabel = "low"
)

// ReliabilityLabel grades how trustworthy a message reads.
type ReliabilityLabel string

const (
	ReliabilityHigh   ReliabilityLabel = "high"
	ReliabilityMedium ReliabilityLabel = "medium"
	ReliabilityLow    ReliabilityLabel = "low"
)

// SentimentScores holds the raw lexicon hit counts.
type SentimentScores struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Sentiment is the sentiment verdict for one message.
type Sentiment struct {
	Label      SentimentLabel  `json:"sentiment"`
	Confidence float64         `json:"confidence"`
	Scores     SentimentScores `json:"scores"`
}

// Urgency is the urgency verdict for one message.
type Urgency struct {
	Label UrgencyLabel `json:"urgency"`
	Score int          `json:"score"`
}

// Reliability is the reliability verdict for one message, score in [0,100].
type Reliability struct {
	Label ReliabilityLabel `json:"reliability"`
	Score int              `json:"score"`
}

// MessageEntities holds the substrings extracted from the original text, in
// first-match order with duplicates preserved.
type MessageEntities struct {
	Stocks      []string `json:"stocks"`
	Prices      []string `json:"prices"`
	Percentages []string `json:"percentages"`
	Dates       []string `json:"dates"`
	Companies   []string `json:"companies"`
}

// MessageMetadata is attached by the coordinator, not the scorer.
type MessageMetadata struct {
	MessageID int64     `json:"message_id"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id,omitempty"`
	UserName  string    `json:"user_name,omitempty"`
	Views     int       `json:"views"`
	Forwards  int       `json:"forwards"`
}

// ScoredMessage is the enriched, immutable artifact kept in the rolling buffer.
type ScoredMessage struct {
	Original        string              `json:"original"`
	Cleaned         string              `json:"cleaned"`
	Tokens          []string            `json:"tokens"`
	Entities        MessageEntities     `json:"entities"`
	Sentiment       Sentiment           `json:"sentiment"`
	InvestmentTerms map[string][]string `json:"investment_terms"`
	Urgency         Urgency             `json:"urgency"`
	Reliability     Reliability         `json:"reliability"`
	Metadata        MessageMetadata     `json:"metadata"`
}
