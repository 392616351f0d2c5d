package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ligmir-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const defaultAPIURL = "https://api.telegram.org"

// Client sends replies through the bot API.
type Client struct {
	http   *resty.Client
	apiURL string
}

// NewClient creates a sender. `apiURL` overrides the bot API host,
// pass "" outside of tests.
func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "ligmir.services.telegram")

	return &Client{
		http:   client,
		apiURL: apiURL,
	}
}

// SendMessage replies to the message identified by the source, using
// the given bot token.
func (c *Client) SendMessage(ctx context.Context, token string, source Source, text string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chat_id":             strconv.FormatInt(source.ChatID, 10),
			"text":                text,
			"reply_to_message_id": strconv.FormatInt(source.MessageID, 10),
		}).
		Get(fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, token))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("send message: %s", res.Status())
	}
	return nil
}
