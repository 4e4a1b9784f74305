// internal/adapters/out/whatsapp/client.go
package whatsapp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HydraRosario/vibeshoes/internal/adapters/out/httpout"
	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// Client sends text messages through the WhatsApp Cloud API.
type Client struct {
	http    *httpout.Client
	phoneID string
}

var _ uc.MessageSender = (*Client)(nil)

func NewClient(token, phoneID, baseURL string, timeout time.Duration, maxRetries int) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpout.New("whatsapp", baseURL, token, timeout, maxRetries),
		phoneID: strings.TrimSpace(phoneID),
	}
}

type textBody struct {
	Body string `json:"body"`
}

type messageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// SendText returns the decoded provider response. Message sends are not
// idempotent, so only rate-limited attempts are retried.
func (c *Client) SendText(ctx context.Context, to, text string) (any, error) {
	var data map[string]any
	err := c.http.Do(ctx, httpout.Request{
		Method: http.MethodPost,
		Path:   "/" + url.PathEscape(c.phoneID) + "/messages",
		Body: messageRequest{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             textBody{Body: text},
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
