package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIBase is the Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// ErrDelivery is returned when the messaging API rejects a message.
var ErrDelivery = errors.New("message delivery failed")

// Sender delivers one message to the announcement channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender posts messages through the Telegram Bot API sendMessage call.
type TelegramSender struct {
	apiBase string
	token   string
	chat    string
	client  *http.Client
}

// NewTelegramSender creates a sender for chat using the bot token.
func NewTelegramSender(apiBase, token, chat string, timeout time.Duration) *TelegramSender {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &TelegramSender{
		apiBase: strings.TrimRight(apiBase, "/"),
		token:   token,
		chat:    chat,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send posts text as a Markdown message with link previews disabled.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	params := url.Values{}
	params.Set("chat_id", s.chat)
	params.Set("text", text)
	params.Set("parse_mode", "Markdown")
	params.Set("disable_web_page_preview", "yes")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage?%s", s.apiBase, s.token, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// The request URL carries the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to reach telegram: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: telegram returned %s", ErrDelivery, resp.Status)
	}
	return nil
}
