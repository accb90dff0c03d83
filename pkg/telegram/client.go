package telegram

import (
	"context"
	"fmt"
	"sync"

	"telegram-stock-pulse/internal/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Transport is the message-receive contract the collector depends on. It
// hides the Bot API behind a normalized message stream so the pipeline can
// run against a fake in tests.
type Transport interface {
	// Connect establishes the bot session. An invalid credential surfaces
	// here as an error, never as a panic.
	Connect(ctx context.Context) error
	// Updates returns the push stream of normalized messages. Valid only
	// after a successful Connect.
	Updates() (<-chan entity.RawMessage, error)
	// Poll checks one channel on demand and returns any messages fetched.
	Poll(ctx context.Context, channelID string) ([]entity.RawMessage, error)
	// Close stops the update stream.
	Close()
}

type botTransport struct {
	token     string
	bot       *tgbotapi.BotAPI
	out       chan entity.RawMessage
	pumpOnce  sync.Once
	closeOnce sync.Once
}

// NewTransport creates a Bot API transport. The token is validated on
// Connect, not here.
func NewTransport(token string) Transport {
	return &botTransport{token: token}
}

func (t *botTransport) Connect(_ context.Context) error {
	if t.token == "" {
		return fmt.Errorf("telegram bot token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	t.bot = bot
	return nil
}

func (t *botTransport) Updates() (<-chan entity.RawMessage, error) {
	if t.bot == nil {
		return nil, fmt.Errorf("transport not connected")
	}

	t.pumpOnce.Do(func() {
		t.out = make(chan entity.RawMessage)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := t.bot.GetUpdatesChan(u)

		go func() {
			defer close(t.out)
			for update := range updates {
				msg := update.Message
				if msg == nil {
					msg = update.ChannelPost
				}
				if msg == nil {
					continue
				}
				t.out <- Normalize(msg)
			}
		}()
	})

	return t.out, nil
}

// Poll probes a channel's chat for reachability. The Bot API exposes no
// history fetch, so a healthy probe yields no messages; a failing one is a
// transport error for the caller to report.
func (t *botTransport) Poll(_ context.Context, channelID string) ([]entity.RawMessage, error) {
	if t.bot == nil {
		return nil, fmt.Errorf("transport not connected")
	}
	_, err := t.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: channelID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to poll channel %s: %w", channelID, err)
	}
	return nil, nil
}

func (t *botTransport) Close() {
	t.closeOnce.Do(func() {
		if t.bot != nil {
			t.bot.StopReceivingUpdates()
		}
	})
}

// Normalize converts a Bot API message into the pipeline's raw shape. Text
// falls back to the caption and is never left unset.
func Normalize(msg *tgbotapi.Message) entity.RawMessage {
	raw := entity.RawMessage{
		ID:        int64(msg.MessageID),
		Text:      msg.Text,
		Timestamp: msg.Time(),
	}
	if raw.Text == "" {
		raw.Text = msg.Caption
	}
	if msg.Chat != nil {
		raw.Channel = msg.Chat.Title
		if raw.Channel == "" {
			raw.Channel = msg.Chat.UserName
		}
		raw.ChannelType = msg.Chat.Type
	}
	if msg.From != nil {
		raw.UserID = msg.From.ID
		raw.UserName = msg.From.UserName
	}
	if msg.ReplyToMessage != nil {
		raw.ReplyToMessageID = int64(msg.ReplyToMessage.MessageID)
	}
	return raw
}
