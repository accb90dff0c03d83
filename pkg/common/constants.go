package common

const (
	RedisStreamMessageProcessed = "pulse.message.processed"
	RedisStreamUrgentMessage    = "pulse.message.urgent"
	RedisStreamPositiveSignal   = "pulse.signal.positive"
	RedisStreamNegativeSignal   = "pulse.signal.negative"
	RedisStreamStockMention     = "pulse.stock.mention"
	RedisStreamStatistics       = "pulse.statistics"
)
