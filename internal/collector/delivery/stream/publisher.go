package stream

import (
	"context"
	"encoding/json"
	"sync"

	"telegram-stock-pulse/internal/collector/event"
	"telegram-stock-pulse/pkg/common"
	"telegram-stock-pulse/pkg/logger"
	"telegram-stock-pulse/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// streamNames maps pipeline events to their Redis stream.
var streamNames = map[event.Type]string{
	event.MessageProcessed: common.RedisStreamMessageProcessed,
	event.UrgentMessage:    common.RedisStreamUrgentMessage,
	event.PositiveSignal:   common.RedisStreamPositiveSignal,
	event.NegativeSignal:   common.RedisStreamNegativeSignal,
	event.StockMention:     common.RedisStreamStockMention,
	event.Statistics:       common.RedisStreamStatistics,
}

// StreamAdder is the slice of the redis client the publisher needs.
// *redis.Client satisfies it.
type StreamAdder interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Publisher fans pipeline events out onto Redis streams for downstream
// consumers. It is optional: the pipeline runs unchanged without it.
type Publisher struct {
	redisClient  StreamAdder
	bus          *event.Bus
	logger       *logger.Logger
	streamMaxLen int64

	sub  *event.Subscription
	stop sync.Once
	wg   sync.WaitGroup
}

// NewPublisher creates a new Publisher.
func NewPublisher(redisClient StreamAdder, bus *event.Bus, streamMaxLen int64, log *logger.Logger) *Publisher {
	return &Publisher{
		redisClient:  redisClient,
		bus:          bus,
		logger:       log,
		streamMaxLen: streamMaxLen,
	}
}

// Start subscribes to the bus and begins forwarding events.
func (p *Publisher) Start(ctx context.Context) {
	p.sub = p.bus.Subscribe(
		event.MessageProcessed,
		event.UrgentMessage,
		event.PositiveSignal,
		event.NegativeSignal,
		event.StockMention,
		event.Statistics,
	)
	p.wg.Add(1)
	utils.GoSafe(func() {
		defer p.wg.Done()
		for ev := range p.sub.C {
			p.publish(ctx, ev)
		}
	})
	p.logger.Info("Redis stream publisher started")
}

func (p *Publisher) publish(ctx context.Context, ev event.Event) {
	stream, ok := streamNames[ev.Type]
	if !ok {
		return
	}

	var payload interface{}
	switch {
	case ev.Message != nil:
		payload = ev.Message
	case ev.Stats != nil:
		payload = ev.Stats
	default:
		return
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal event payload", logger.ErrorField(err), logger.Field("stream", stream))
		return
	}

	if err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": encoded},
		MaxLen: p.streamMaxLen,
	}).Err(); err != nil {
		p.logger.Error("Failed to publish event to stream", logger.ErrorField(err), logger.Field("stream", stream))
	}
}

// Stop detaches from the bus and waits for the forwarding loop to drain.
func (p *Publisher) Stop() {
	p.stop.Do(func() {
		if p.sub != nil {
			p.sub.Cancel()
		}
		p.wg.Wait()
		p.logger.Info("Redis stream publisher stopped")
	})
}
