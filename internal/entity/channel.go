package entity

import "time"

// ChannelCategory classifies a monitored channel.
type ChannelCategory string

const (
	CategoryBroker        ChannelCategory = "broker"
	CategoryNews          ChannelCategory = "news"
	CategoryCommunity     ChannelCategory = "community"
	CategorySector        ChannelCategory = "sector"
	CategoryInternational ChannelCategory = "international"
	CategoryRealtime      ChannelCategory = "realtime"
	CategoryOther         ChannelCategory = "other"
)

// NormalizeCategory maps unknown values to CategoryOther.
func NormalizeCategory(s string) ChannelCategory {
	switch c := ChannelCategory(s); c {
	case CategoryBroker, CategoryNews, CategoryCommunity, CategorySector, CategoryInternational, CategoryRealtime, CategoryOther:
		return c
	}
	return CategoryOther
}

// ChannelPriority is the monitoring priority of a channel.
type ChannelPriority string

const (
	PriorityHigh   ChannelPriority = "high"
	PriorityMedium ChannelPriority = "medium"
	PriorityLow    ChannelPriority = "low"
)

// NormalizePriority maps unknown values to PriorityMedium.
func NormalizePriority(s string) ChannelPriority {
	switch p := ChannelPriority(s); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p
	}
	return PriorityMedium
}

// Channel represents one monitored Telegram channel.
type Channel struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	Category           ChannelCategory        `json:"category"`
	Priority           ChannelPriority        `json:"priority"`
	Keywords           []string               `json:"keywords"`
	AddedAt            time.Time              `json:"added_at"`
	IsActive           bool                   `json:"is_active"`
	LastChecked        *time.Time             `json:"last_checked,omitempty"`
	MessageCount       int64                  `json:"message_count"`
	LastMessageID      int64                  `json:"last_message_id,omitempty"`
	MonitoringInterval time.Duration          `json:"monitoring_interval"`
	CustomFilters      map[string]interface{} `json:"custom_filters,omitempty"`
}

// Category groups channels for reporting.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"added_at"`
	IsActive    bool      `json:"is_active"`
}

// ChannelInfo carries the optional fields of a new channel. Zero values fall
// back to the documented defaults.
type ChannelInfo struct {
	Name               string
	Description        string
	Category           string
	Priority           string
	Keywords           []string
	Inactive           bool
	MonitoringInterval time.Duration
	CustomFilters      map[string]interface{}
}

// ChannelUpdate is a partial update; nil fields are left untouched.
type ChannelUpdate struct {
	Name               *string
	Description        *string
	Category           *ChannelCategory
	Priority           *ChannelPriority
	Keywords           []string
	IsActive           *bool
	MonitoringInterval *time.Duration
	CustomFilters      map[string]interface{}
}
