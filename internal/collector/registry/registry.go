package registry

import (
	"strings"
	"sync"
	"time"

	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"

	"go.uber.org/zap"
)

// DefaultMonitoringInterval is used when a channel declares no poll interval.
const DefaultMonitoringInterval = 60 * time.Second

// Registry is the in-memory source of truth for monitored channels, their
// categories and their runtime counters. All mutations are synchronous and
// immediately visible to subsequent reads; external callers only ever see
// copies, never the stored records.
type Registry struct {
	mu         sync.RWMutex
	channels   map[string]*entity.Channel
	order      []string
	categories map[string]*entity.Category
	catOrder   []string
	logger     *logger.Logger
}

// New creates a registry seeded with the default channel catalog.
func New(log *logger.Logger) *Registry {
	r := NewEmpty(log)
	r.seedDefaults()
	return r
}

// NewEmpty creates a registry with no channels or categories.
func NewEmpty(log *logger.Logger) *Registry {
	return &Registry{
		channels:   make(map[string]*entity.Channel),
		categories: make(map[string]*entity.Category),
		logger:     log,
	}
}

// AddChannel upserts a channel record. Unspecified fields fall back to the
// documented defaults; an existing record with the same id is overwritten.
func (r *Registry) AddChannel(id string, info entity.ChannelInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := info.Name
	if name == "" {
		name = id
	}
	interval := info.MonitoringInterval
	if interval <= 0 {
		interval = DefaultMonitoringInterval
	}
	keywords := info.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	if _, exists := r.channels[id]; !exists {
		r.order = append(r.order, id)
	}
	r.channels[id] = &entity.Channel{
		ID:                 id,
		Name:               name,
		Description:        info.Description,
		Category:           entity.NormalizeCategory(info.Category),
		Priority:           entity.NormalizePriority(info.Priority),
		Keywords:           keywords,
		AddedAt:            time.Now(),
		IsActive:           !info.Inactive,
		MonitoringInterval: interval,
		CustomFilters:      info.CustomFilters,
	}

	r.logInfo("Channel added", logger.Field("channel", id), logger.Field("name", name))
}

// AddCategory upserts category metadata. Name defaults to the id.
func (r *Registry) AddCategory(id, name, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = id
	}
	if _, exists := r.categories[id]; !exists {
		r.catOrder = append(r.catOrder, id)
	}
	r.categories[id] = &entity.Category{
		ID:          id,
		Name:        name,
		Description: description,
		AddedAt:     time.Now(),
		IsActive:    true,
	}
}

// GetChannel returns a copy of the channel record, if present.
func (r *Registry) GetChannel(id string) (entity.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[id]
	if !ok {
		return entity.Channel{}, false
	}
	return copyChannel(ch), true
}

// GetAllChannels returns all channels in registration order.
func (r *Registry) GetAllChannels() []entity.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterChannels(func(*entity.Channel) bool { return true })
}

// GetChannelsByCategory returns active channels of the given category.
func (r *Registry) GetChannelsByCategory(category entity.ChannelCategory) []entity.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterChannels(func(ch *entity.Channel) bool {
		return ch.Category == category && ch.IsActive
	})
}

// GetChannelsByPriority returns active channels of the given priority.
func (r *Registry) GetChannelsByPriority(priority entity.ChannelPriority) []entity.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterChannels(func(ch *entity.Channel) bool {
		return ch.Priority == priority && ch.IsActive
	})
}

// GetActiveChannels returns all active channels.
func (r *Registry) GetActiveChannels() []entity.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterChannels(func(ch *entity.Channel) bool { return ch.IsActive })
}

// UpdateChannel merges the non-nil fields of the update into an existing
// record. Returns false when the channel does not exist.
func (r *Registry) UpdateChannel(id string, update entity.ChannelUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[id]
	if !ok {
		return false
	}

	if update.Name != nil {
		ch.Name = *update.Name
	}
	if update.Description != nil {
		ch.Description = *update.Description
	}
	if update.Category != nil {
		ch.Category = entity.NormalizeCategory(string(*update.Category))
	}
	if update.Priority != nil {
		ch.Priority = entity.NormalizePriority(string(*update.Priority))
	}
	if update.Keywords != nil {
		ch.Keywords = append([]string(nil), update.Keywords...)
	}
	if update.IsActive != nil {
		ch.IsActive = *update.IsActive
	}
	if update.MonitoringInterval != nil {
		ch.MonitoringInterval = *update.MonitoringInterval
	}
	if update.CustomFilters != nil {
		ch.CustomFilters = update.CustomFilters
	}

	r.logInfo("Channel updated", logger.Field("channel", id))
	return true
}

// ActivateChannel enables monitoring for a channel.
func (r *Registry) ActivateChannel(id string) bool {
	active := true
	return r.UpdateChannel(id, entity.ChannelUpdate{IsActive: &active})
}

// DeactivateChannel disables monitoring for a channel without removing it.
func (r *Registry) DeactivateChannel(id string) bool {
	active := false
	return r.UpdateChannel(id, entity.ChannelUpdate{IsActive: &active})
}

// RemoveChannel deletes the record entirely.
func (r *Registry) RemoveChannel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[id]; !ok {
		return false
	}
	delete(r.channels, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logInfo("Channel removed", logger.Field("channel", id))
	return true
}

// UpdateMessageCount increments the channel's counter and stamps the
// last-checked time. No-op when the channel is absent.
func (r *Registry) UpdateMessageCount(id string, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[id]; ok {
		ch.MessageCount += delta
		now := time.Now()
		ch.LastChecked = &now
	}
}

// UpdateLastMessageID stamps the last-seen message id and last-checked time.
func (r *Registry) UpdateLastMessageID(id string, messageID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[id]; ok {
		ch.LastMessageID = messageID
		now := time.Now()
		ch.LastChecked = &now
	}
}

// SearchChannels matches the query case-insensitively against name,
// description and keywords, in registration order.
func (r *Registry) SearchChannels(query string) []entity.Channel {
	lower := strings.ToLower(query)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterChannels(func(ch *entity.Channel) bool {
		if strings.Contains(strings.ToLower(ch.Name), lower) ||
			strings.Contains(strings.ToLower(ch.Description), lower) {
			return true
		}
		for _, kw := range ch.Keywords {
			if strings.Contains(strings.ToLower(kw), lower) {
				return true
			}
		}
		return false
	})
}

// GetMonitoringSettings produces the snapshot handed to the collector.
func (r *Registry) GetMonitoringSettings() entity.MonitoringSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := entity.MonitoringSettings{
		Channels:   []entity.MonitoringChannel{},
		Categories: []entity.Category{},
	}
	for _, id := range r.order {
		ch := r.channels[id]
		if !ch.IsActive {
			continue
		}
		settings.Channels = append(settings.Channels, entity.MonitoringChannel{
			ID:                 ch.ID,
			Name:               ch.Name,
			Category:           ch.Category,
			Priority:           ch.Priority,
			MonitoringInterval: ch.MonitoringInterval,
			Keywords:           append([]string(nil), ch.Keywords...),
			CustomFilters:      ch.CustomFilters,
		})
		switch ch.Priority {
		case entity.PriorityHigh:
			settings.HighPriorityChannels++
		case entity.PriorityMedium:
			settings.MediumPriorityChannels++
		case entity.PriorityLow:
			settings.LowPriorityChannels++
		}
	}
	settings.TotalChannels = len(settings.Channels)
	for _, id := range r.catOrder {
		settings.Categories = append(settings.Categories, *r.categories[id])
	}
	return settings
}

// GetStatistics summarizes the whole registry. Category counts cover all
// channels; priority counts cover active channels only.
func (r *Registry) GetStatistics() entity.RegistryStatistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := entity.RegistryStatistics{
		CategoryStats: make(map[entity.ChannelCategory]int),
		PriorityStats: map[entity.ChannelPriority]int{
			entity.PriorityHigh:   0,
			entity.PriorityMedium: 0,
			entity.PriorityLow:    0,
		},
	}

	for _, id := range r.order {
		ch := r.channels[id]
		stats.TotalChannels++
		stats.CategoryStats[ch.Category]++
		stats.TotalMessages += ch.MessageCount
		if ch.IsActive {
			stats.ActiveChannels++
			stats.PriorityStats[ch.Priority]++
		}
	}
	stats.InactiveChannels = stats.TotalChannels - stats.ActiveChannels
	if stats.ActiveChannels > 0 {
		stats.AverageMessagesPerChannel = float64(stats.TotalMessages) / float64(stats.ActiveChannels)
	}
	return stats
}

func (r *Registry) filterChannels(keep func(*entity.Channel) bool) []entity.Channel {
	result := []entity.Channel{}
	for _, id := range r.order {
		if ch := r.channels[id]; keep(ch) {
			result = append(result, copyChannel(ch))
		}
	}
	return result
}

func copyChannel(ch *entity.Channel) entity.Channel {
	c := *ch
	c.Keywords = append([]string(nil), ch.Keywords...)
	if ch.CustomFilters != nil {
		filters := make(map[string]interface{}, len(ch.CustomFilters))
		for k, v := range ch.CustomFilters {
			filters[k] = v
		}
		c.CustomFilters = filters
	}
	return c
}

func (r *Registry) logInfo(msg string, fields ...zap.Field) {
	if r.logger == nil {
		return
	}
	r.logger.Info(msg, fields...)
}
