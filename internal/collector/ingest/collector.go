package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"
	"telegram-stock-pulse/pkg/telegram"
	"telegram-stock-pulse/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// State is the collector lifecycle phase.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateCollecting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateCollecting:
		return "collecting"
	case StateStopped:
		return "stopped"
	}
	return "uninitialized"
}

// defaultPollInterval is used for channels without an explicit override.
const defaultPollInterval = 60 * time.Second

// seenMessageTTL bounds how long the spam filter remembers a message id.
const seenMessageTTL = 10 * time.Minute

// investmentTerms is the fixed closed list that keeps a message relevant
// even when no configured keyword or instrument code matches.
var investmentTerms = []string{
	"주식", "코스피", "코스닥", "투자", "증권", "주가", "상장",
	"수익률", "배당", "펀드", "etf", "선물", "옵션", "코인",
}

// Config carries the collector's startup allow-lists and filter settings.
type Config struct {
	Channels             []string
	Keywords             []string
	Stocks               []string
	EnableSpamFilter     bool
	MaxMessagesPerMinute int
}

// Collector bridges the transport's message stream into the pipeline. It
// applies the cheap relevance pre-filter before any scoring work happens and
// emits accepted messages on Messages and transport failures on Errors.
type Collector struct {
	transport telegram.Transport
	logger    *logger.Logger

	state atomic.Int32

	mu            sync.Mutex
	channels      []string
	channelSet    map[string]struct{}
	pollIntervals map[string]time.Duration
	keywords      []string
	keywordSet    map[string]struct{}
	stocks        []string
	stockSet      map[string]struct{}

	limiter *rate.Limiter
	seen    *cache.Cache

	total        int
	todayStart   time.Time
	todayCount   int
	channelStats map[string]int

	out    chan entity.RawMessage
	errs   chan error
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a collector in the uninitialized state.
func New(transport telegram.Transport, cfg Config, log *logger.Logger) *Collector {
	c := &Collector{
		transport:     transport,
		logger:        log,
		channelSet:    make(map[string]struct{}),
		keywordSet:    make(map[string]struct{}),
		stockSet:      make(map[string]struct{}),
		pollIntervals: make(map[string]time.Duration),
		channelStats:  make(map[string]int),
		out:           make(chan entity.RawMessage, 256),
		errs:          make(chan error, 64),
		stopCh:        make(chan struct{}),
	}
	if cfg.EnableSpamFilter {
		c.seen = cache.New(seenMessageTTL, seenMessageTTL)
	}
	if cfg.MaxMessagesPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.MaxMessagesPerMinute)), cfg.MaxMessagesPerMinute)
	}
	for _, ch := range cfg.Channels {
		c.addChannelLocked(strings.TrimSpace(ch), 0)
	}
	for _, kw := range cfg.Keywords {
		c.addKeywordLocked(strings.TrimSpace(kw))
	}
	for _, st := range cfg.Stocks {
		c.addStockLocked(strings.TrimSpace(st))
	}
	return c
}

// State returns the current lifecycle phase.
func (c *Collector) State() State {
	return State(c.state.Load())
}

// Initialize establishes the transport session. On failure the collector
// stays uninitialized and the caller decides whether to retry.
func (c *Collector) Initialize(ctx context.Context) error {
	if c.State() == StateCollecting {
		return fmt.Errorf("collector is already collecting")
	}
	if err := c.transport.Connect(ctx); err != nil {
		return fmt.Errorf("failed to initialize collector: %w", err)
	}
	c.state.Store(int32(StateInitialized))
	c.logger.Info("Collector initialized")
	return nil
}

// StartCollection registers the push listener and one poll timer per
// configured channel. Valid only from the initialized state.
func (c *Collector) StartCollection(ctx context.Context) error {
	if c.State() != StateInitialized {
		return fmt.Errorf("collector not initialized, state is %s", c.State())
	}

	updates, err := c.transport.Updates()
	if err != nil {
		return fmt.Errorf("failed to open update stream: %w", err)
	}

	c.state.Store(int32(StateCollecting))
	c.logger.Info("Starting message collection", logger.Field("channels", len(c.channels)))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.stopCh:
				return
			case msg, ok := <-updates:
				if !ok {
					return
				}
				c.HandleMessage(msg)
			}
		}
	}()

	c.mu.Lock()
	channels := append([]string(nil), c.channels...)
	c.mu.Unlock()
	for _, id := range channels {
		c.startChannelMonitor(ctx, id)
	}
	return nil
}

// startChannelMonitor polls one channel on its own timer. Poll failures are
// reported per channel and never stop the other monitors; ticks that fire
// after StopCollection no-op.
func (c *Collector) startChannelMonitor(ctx context.Context, channelID string) {
	c.mu.Lock()
	interval, ok := c.pollIntervals[channelID]
	c.mu.Unlock()
	if !ok || interval <= 0 {
		interval = defaultPollInterval
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stopCh:
				return
			case <-ticker.C:
				if c.State() != StateCollecting {
					return
				}
				messages, err := c.transport.Poll(ctx, channelID)
				if err != nil {
					c.reportError(err)
					continue
				}
				for _, msg := range messages {
					c.HandleMessage(msg)
				}
			}
		}
	}()
}

// HandleMessage runs the pre-scoring filters and emits accepted messages.
// Irrelevant, duplicate and over-limit messages are dropped silently.
func (c *Collector) HandleMessage(msg entity.RawMessage) {
	if c.State() != StateCollecting {
		return
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return
	}
	if c.seen != nil {
		key := fmt.Sprintf("%s:%d", msg.Channel, msg.ID)
		if _, dup := c.seen.Get(key); dup {
			return
		}
		c.seen.Set(key, struct{}{}, cache.DefaultExpiration)
	}
	if !c.IsRelevantMessage(msg.Text) {
		return
	}

	c.mu.Lock()
	c.total++
	// The daily counter rolls over on Korean market time.
	today := utils.StartOfDay(utils.TimeNowKST())
	if !today.Equal(c.todayStart) {
		c.todayStart = today
		c.todayCount = 0
	}
	c.todayCount++
	c.channelStats[msg.Channel]++
	c.mu.Unlock()

	select {
	case c.out <- msg:
	case <-c.stopCh:
	}
}

// IsRelevantMessage accepts text containing any configured keyword, any
// configured instrument code, or any generic investment term.
func (c *Collector) IsRelevantMessage(text string) bool {
	lower := strings.ToLower(text)

	c.mu.Lock()
	keywords := c.keywords
	stocks := c.stocks
	c.mu.Unlock()

	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	for _, stock := range stocks {
		if strings.Contains(lower, strings.ToLower(stock)) {
			return true
		}
	}
	for _, term := range investmentTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// AddChannel registers a channel (idempotent). When already collecting, the
// channel's poll timer starts immediately. interval <= 0 uses the default.
func (c *Collector) AddChannel(ctx context.Context, channelID string, interval time.Duration) {
	c.mu.Lock()
	added := c.addChannelLocked(channelID, interval)
	c.mu.Unlock()

	if added && c.State() == StateCollecting {
		c.startChannelMonitor(ctx, channelID)
	}
}

// AddKeyword registers a relevance keyword (idempotent).
func (c *Collector) AddKeyword(keyword string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addKeywordLocked(keyword)
}

// AddStock registers an instrument code (idempotent).
func (c *Collector) AddStock(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addStockLocked(code)
}

func (c *Collector) addChannelLocked(channelID string, interval time.Duration) bool {
	if channelID == "" {
		return false
	}
	if interval > 0 {
		c.pollIntervals[channelID] = interval
	}
	if _, ok := c.channelSet[channelID]; ok {
		return false
	}
	c.channelSet[channelID] = struct{}{}
	c.channels = append(c.channels, channelID)
	return true
}

func (c *Collector) addKeywordLocked(keyword string) {
	if keyword == "" {
		return
	}
	if _, ok := c.keywordSet[keyword]; ok {
		return
	}
	c.keywordSet[keyword] = struct{}{}
	c.keywords = append(c.keywords, keyword)
}

func (c *Collector) addStockLocked(code string) {
	if code == "" {
		return
	}
	if _, ok := c.stockSet[code]; ok {
		return
	}
	c.stockSet[code] = struct{}{}
	c.stocks = append(c.stocks, code)
}

// Messages is the stream of accepted raw messages.
func (c *Collector) Messages() <-chan entity.RawMessage {
	return c.out
}

// Errors is the stream of non-fatal transport failures.
func (c *Collector) Errors() <-chan error {
	return c.errs
}

func (c *Collector) reportError(err error) {
	c.logger.Error("Channel poll failed", logger.ErrorField(err))
	select {
	case c.errs <- err:
	default:
	}
}

// StopCollection halts the listener and lets in-flight timers drain. The
// message channel is closed once every worker has returned.
func (c *Collector) StopCollection() {
	if c.State() == StateStopped {
		return
	}
	c.state.Store(int32(StateStopped))
	close(c.stopCh)
	c.transport.Close()
	c.wg.Wait()
	close(c.out)
	c.logger.Info("Message collection stopped")
}

// Statistics reports the collector's intake counters.
func (c *Collector) Statistics() entity.CollectorStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := 0
	if utils.StartOfDay(utils.TimeNowKST()).Equal(c.todayStart) {
		today = c.todayCount
	}
	channelStats := make(map[string]int, len(c.channelStats))
	for k, v := range c.channelStats {
		channelStats[k] = v
	}
	return entity.CollectorStatistics{
		TotalMessages: c.total,
		TodayMessages: today,
		ChannelsCount: len(c.channels),
		KeywordsCount: len(c.keywords),
		StocksCount:   len(c.stocks),
		ChannelStats:  channelStats,
	}
}
