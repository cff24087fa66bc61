// Package notify delivers feed items as text messages.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram limits a message to 4096 characters.
const maxMessageLen = 4096

// Sender delivers a text message to a chat.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	api telegramAPI
	log *slog.Logger
}

// NewTelegram creates a Telegram sender for the bot with the given token.
func NewTelegram(token string, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, log: log}, nil
}

// SendMessage sends a text message to the given chat.
func (t *Telegram) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, truncate(text, maxMessageLen-3))
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("send message", "chat_id", chatID, "error", err)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Writer is a Sender printing messages to an io.Writer, separated by blank
// lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer sender on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SendMessage writes text followed by a separator. chatID is ignored.
func (w *Writer) SendMessage(_ int64, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "%s\n\n", text); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
