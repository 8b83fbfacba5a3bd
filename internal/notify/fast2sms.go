package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMSClient sends outbound SMS through the Fast2SMS bulk gateway using
// the quick-message route.
type Fast2SMSClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewFast2SMSClient(apiKey string) *Fast2SMSClient {
	return &Fast2SMSClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fast2smsResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}

// Send delivers one message to a 10-digit number. A non-success gateway
// response is returned as an error; the caller decides whether it matters.
func (c *Fast2SMSClient) Send(ctx context.Context, numbers, message string) error {
	if c.apiKey == "" {
		return errors.New("fast2sms api key is not set")
	}

	q := url.Values{}
	q.Set("authorization", c.apiKey)
	q.Set("route", "q")
	q.Set("message", message)
	q.Set("language", "english")
	q.Set("flash", "0")
	q.Set("numbers", numbers)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if !body.Return {
		return fmt.Errorf("gateway rejected message: %s", body.Message)
	}
	return nil
}
