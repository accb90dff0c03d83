package stream

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"telegram-stock-pulse/internal/collector/event"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/common"
	"telegram-stock-pulse/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreamAdder struct {
	mu    sync.Mutex
	calls []*redis.XAddArgs
}

func (f *fakeStreamAdder) XAdd(_ context.Context, args *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	return redis.NewStringResult("1-1", nil)
}

func (f *fakeStreamAdder) recorded() []*redis.XAddArgs {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*redis.XAddArgs, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestPublisher(t *testing.T) (*Publisher, *fakeStreamAdder, *event.Bus) {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	bus := event.NewBus()
	t.Cleanup(bus.Close)

	adder := &fakeStreamAdder{}
	return NewPublisher(adder, bus, 512, log), adder, bus
}

func TestPublisherForwardsMessageEvents(t *testing.T) {
	pub, adder, bus := newTestPublisher(t)
	pub.Start(context.Background())
	defer pub.Stop()

	msg := &entity.ScoredMessage{
		Original: "005930 실적 공시",
		Metadata: entity.MessageMetadata{Channel: "@kiwoom_news", MessageID: 7},
	}
	bus.Publish(event.Event{Type: event.MessageProcessed, Message: msg})

	require.Eventually(t, func() bool {
		return len(adder.recorded()) == 1
	}, time.Second, 10*time.Millisecond)

	args := adder.recorded()[0]
	assert.Equal(t, common.RedisStreamMessageProcessed, args.Stream)
	assert.Equal(t, int64(512), args.MaxLen)

	payload, ok := args.Values.(map[string]interface{})["payload"].([]byte)
	require.True(t, ok)
	var decoded entity.ScoredMessage
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "005930 실적 공시", decoded.Original)
	assert.Equal(t, "@kiwoom_news", decoded.Metadata.Channel)
}

func TestPublisherForwardsStatisticsEvents(t *testing.T) {
	pub, adder, bus := newTestPublisher(t)
	pub.Start(context.Background())
	defer pub.Stop()

	bus.Publish(event.Event{Type: event.Statistics, Stats: &entity.Statistics{TotalProcessed: 3, SuccessRate: "100.00"}})

	require.Eventually(t, func() bool {
		return len(adder.recorded()) == 1
	}, time.Second, 10*time.Millisecond)

	args := adder.recorded()[0]
	assert.Equal(t, common.RedisStreamStatistics, args.Stream)

	payload, ok := args.Values.(map[string]interface{})["payload"].([]byte)
	require.True(t, ok)
	var decoded entity.Statistics
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, int64(3), decoded.TotalProcessed)
}

func TestPublisherSkipsEventsWithoutPayload(t *testing.T) {
	pub, adder, bus := newTestPublisher(t)
	pub.Start(context.Background())
	defer pub.Stop()

	// No payload field set and no mapped stream respectively.
	bus.Publish(event.Event{Type: event.UrgentMessage})
	bus.Publish(event.Event{Type: event.Started})
	bus.Publish(event.Event{Type: event.PositiveSignal, Message: &entity.ScoredMessage{Original: "급등"}})

	require.Eventually(t, func() bool {
		return len(adder.recorded()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, common.RedisStreamPositiveSignal, adder.recorded()[0].Stream)
}

func TestPublisherStopIsIdempotent(t *testing.T) {
	pub, adder, bus := newTestPublisher(t)
	pub.Start(context.Background())

	pub.Stop()
	pub.Stop()

	bus.Publish(event.Event{Type: event.MessageProcessed, Message: &entity.ScoredMessage{Original: "중단 이후"}})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, adder.recorded())
}
