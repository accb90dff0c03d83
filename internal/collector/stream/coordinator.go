package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telegram-stock-pulse/internal/collector/event"
	"telegram-stock-pulse/internal/collector/ingest"
	"telegram-stock-pulse/internal/collector/registry"
	"telegram-stock-pulse/internal/collector/scorer"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"
)

const (
	// maxBufferSize caps the rolling buffer; once full the oldest message
	// is evicted for every new one.
	maxBufferSize = 10000

	// recentWindow is how many of the newest messages feed the recent
	// sentiment in statistics.
	recentWindow = 100

	statisticsInterval = 60 * time.Second
)

// defaultKeywords is always unioned with the registry's channel keywords
// when configuring the collector.
var defaultKeywords = []string{
	"주식", "투자", "증권", "코스피", "코스닥", "상승", "하락",
	"급등", "급락", "수익", "손실", "목표가", "실적", "공시",
}

// Coordinator orchestrates collector → scorer → registry and owns the
// rolling buffer of scored messages. It is the only writer of the buffer
// and the registry counters; consumers read through accessors or subscribe
// to the event bus.
type Coordinator struct {
	registry  *registry.Registry
	collector *ingest.Collector
	scorer    *scorer.Scorer
	bus       *event.Bus
	logger    *logger.Logger

	mu        sync.RWMutex
	buffer    []entity.ScoredMessage
	startTime time.Time

	totalProcessed int64
	successful     int64
	errorCount     int64

	running  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New wires a coordinator from its collaborators.
func New(reg *registry.Registry, col *ingest.Collector, sc *scorer.Scorer, bus *event.Bus, log *logger.Logger) *Coordinator {
	return &Coordinator{
		registry:  reg,
		collector: col,
		scorer:    sc,
		bus:       bus,
		logger:    log,
		stopCh:    make(chan struct{}),
	}
}

// Start initializes the collector, pushes the registry's channel and keyword
// settings into it, starts collection and begins periodic statistics
// emission. A collector initialization failure aborts startup and is
// returned to the caller.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("coordinator already running")
	}
	c.mu.Unlock()

	if err := c.collector.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to start coordinator: %w", err)
	}

	c.applyChannelSettings(ctx)
	c.applyKeywordSettings()

	if err := c.collector.StartCollection(ctx); err != nil {
		return fmt.Errorf("failed to start collection: %w", err)
	}

	c.mu.Lock()
	c.running = true
	c.startTime = time.Now()
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx)

	c.logger.Info("Realtime processing started")
	c.bus.Publish(event.Event{Type: event.Started})
	return nil
}

func (c *Coordinator) applyChannelSettings(ctx context.Context) {
	settings := c.registry.GetMonitoringSettings()
	for _, ch := range settings.Channels {
		c.collector.AddChannel(ctx, ch.ID, ch.MonitoringInterval)
	}
	c.logger.Info("Applied channel settings", logger.Field("channels", len(settings.Channels)))
}

func (c *Coordinator) applyKeywordSettings() {
	applied := 0
	for _, ch := range c.registry.GetActiveChannels() {
		for _, kw := range ch.Keywords {
			c.collector.AddKeyword(kw)
			applied++
		}
	}
	for _, kw := range defaultKeywords {
		c.collector.AddKeyword(kw)
		applied++
	}
	c.logger.Info("Applied keyword settings", logger.Field("keywords", applied))
}

// run is the single processing loop: every buffer append and counter update
// happens here, so each message is fully handled before the next one.
func (c *Coordinator) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(statisticsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case msg, ok := <-c.collector.Messages():
			if !ok {
				return
			}
			c.ProcessMessage(msg)
		case err, ok := <-c.collector.Errors():
			if !ok {
				continue
			}
			c.mu.Lock()
			c.errorCount++
			c.mu.Unlock()
			c.logger.Error("Collector error", logger.ErrorField(err))
			c.bus.Publish(event.Event{Type: event.Error, Err: err})
		case <-ticker.C:
			stats := c.GetCurrentStatistics()
			c.bus.Publish(event.Event{Type: event.Statistics, Stats: &stats})
		}
	}
}

// ProcessMessage scores one raw message, attaches metadata, retains it in
// the bounded buffer, updates the registry counters and emits notification
// events. A failure in scoring or bookkeeping is counted and reported, never
// propagated: the stream continues with the next message.
func (c *Coordinator) ProcessMessage(raw entity.RawMessage) {
	c.mu.Lock()
	c.totalProcessed++
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("message processing panicked: %v", r)
			c.mu.Lock()
			c.errorCount++
			c.mu.Unlock()
			c.logger.Error("Error processing message", logger.ErrorField(err))
			c.bus.Publish(event.Event{Type: event.ProcessingError, Err: err})
		}
	}()

	scored := c.scorer.Score(raw.Text)
	scored.Metadata = entity.MessageMetadata{
		MessageID: raw.ID,
		Channel:   raw.Channel,
		Timestamp: raw.Timestamp,
		UserID:    raw.UserID,
		UserName:  raw.UserName,
		Views:     raw.Views,
		Forwards:  raw.Forwards,
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, scored)
	if len(c.buffer) > maxBufferSize {
		// Evict the oldest entry; append's reallocation keeps the backing
		// array from growing without bound.
		c.buffer = c.buffer[1:]
	}
	c.successful++
	c.mu.Unlock()

	c.registry.UpdateMessageCount(raw.Channel, 1)
	c.registry.UpdateLastMessageID(raw.Channel, raw.ID)

	c.bus.Publish(event.Event{Type: event.MessageProcessed, Message: &scored})
	c.checkNotificationConditions(&scored)
}

// checkNotificationConditions fires each matching notification exactly once
// per message; the conditions are independent of one another.
func (c *Coordinator) checkNotificationConditions(msg *entity.ScoredMessage) {
	if msg.Urgency.Label == entity.UrgencyHigh {
		c.bus.Publish(event.Event{Type: event.UrgentMessage, Message: msg})
	}
	if msg.Reliability.Label == entity.ReliabilityHigh && msg.Sentiment.Label == entity.SentimentPositive {
		c.bus.Publish(event.Event{Type: event.PositiveSignal, Message: msg})
	}
	if msg.Reliability.Label == entity.ReliabilityHigh && msg.Sentiment.Label == entity.SentimentNegative {
		c.bus.Publish(event.Event{Type: event.NegativeSignal, Message: msg})
	}
	if len(msg.Entities.Stocks) > 0 {
		c.bus.Publish(event.Event{Type: event.StockMention, Message: msg})
	}
}

// GetCurrentStatistics snapshots the live counters and the sentiment of the
// newest messages.
func (c *Coordinator) GetCurrentStatistics() entity.Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := entity.Statistics{
		TotalProcessed:         c.totalProcessed,
		SuccessfulProcessed:    c.successful,
		Errors:                 c.errorCount,
		ProcessedMessagesCount: len(c.buffer),
		ChannelsActive:         len(c.registry.GetActiveChannels()),
		SuccessRate:            "0.00",
	}
	if !c.startTime.IsZero() {
		start := c.startTime
		stats.StartTime = &start
		stats.Runtime = time.Since(start)
	}
	if c.totalProcessed > 0 {
		stats.SuccessRate = fmt.Sprintf("%.2f", float64(c.successful)/float64(c.totalProcessed)*100)
	}

	window := c.buffer
	if len(window) > recentWindow {
		window = window[len(window)-recentWindow:]
	}
	stats.RecentSentiment = calculateRecentSentiment(window)
	return stats
}

// calculateRecentSentiment returns nil for an empty window. Dominance ties
// resolve in positive > negative > neutral order.
func calculateRecentSentiment(messages []entity.ScoredMessage) *entity.RecentSentiment {
	if len(messages) == 0 {
		return nil
	}

	var counts entity.SentimentCounts
	for _, msg := range messages {
		switch msg.Sentiment.Label {
		case entity.SentimentPositive:
			counts.Positive++
		case entity.SentimentNegative:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}

	dominant := entity.SentimentNeutral
	max := counts.Neutral
	if counts.Negative >= max {
		dominant = entity.SentimentNegative
		max = counts.Negative
	}
	if counts.Positive >= max {
		dominant = entity.SentimentPositive
		max = counts.Positive
	}

	return &entity.RecentSentiment{
		SentimentCounts: counts,
		Dominant:        dominant,
		Confidence:      float64(max) / float64(counts.Total()),
	}
}

// GetProcessedMessages returns up to limit buffered messages matching the
// filters, newest first.
func (c *Coordinator) GetProcessedMessages(limit int, filters entity.MessageFilters) []entity.ScoredMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := []entity.ScoredMessage{}
	for _, msg := range c.buffer {
		if filters.Sentiment != "" && msg.Sentiment.Label != filters.Sentiment {
			continue
		}
		if filters.Channel != "" && msg.Metadata.Channel != filters.Channel {
			continue
		}
		if filters.Urgency != "" && msg.Urgency.Label != filters.Urgency {
			continue
		}
		if filters.MinReliability > 0 && msg.Reliability.Score < filters.MinReliability {
			continue
		}
		matched = append(matched, msg)
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched
}

// BufferSnapshot copies the current buffer contents in processing order.
func (c *Coordinator) BufferSnapshot() []entity.ScoredMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.ScoredMessage(nil), c.buffer...)
}

// Status reports the running flag with the live statistics.
func (c *Coordinator) Status() entity.Status {
	stats := c.GetCurrentStatistics()

	c.mu.RLock()
	running := c.running
	uptime := time.Duration(0)
	if running && !c.startTime.IsZero() {
		uptime = time.Since(c.startTime)
	}
	c.mu.RUnlock()

	return entity.Status{
		IsRunning:    running,
		Stats:        stats,
		ChannelCount: stats.ChannelsActive,
		Uptime:       uptime,
	}
}

// IsRunning reports whether Start has succeeded and Stop not yet been called.
func (c *Coordinator) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Stop halts collection and the processing loop. Calling it again is a
// no-op.
func (c *Coordinator) Stop() {
	alreadyStopped := true
	c.stopOnce.Do(func() {
		alreadyStopped = false

		c.mu.Lock()
		c.running = false
		c.mu.Unlock()

		close(c.stopCh)
		c.collector.StopCollection()
		c.wg.Wait()

		c.logger.Info("Realtime processing stopped")
		c.bus.Publish(event.Event{Type: event.Stopped})
	})
	if alreadyStopped {
		c.logger.Warn("Coordinator already stopped")
	}
}
