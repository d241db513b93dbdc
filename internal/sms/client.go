// Package sms sends text messages through a Fast2SMS-compatible bulk gateway.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("sms gateway not configured")

// Client is a minimal bulk SMS gateway client.
type Client struct {
	baseURL  string
	apiKey   string
	route    string
	language string
	client   *http.Client
}

// NewClient creates a gateway client. Empty route/language fall back to "q"/"english".
func NewClient(baseURL, apiKey, route, language string) *Client {
	if strings.TrimSpace(route) == "" {
		route = "q"
	}
	if strings.TrimSpace(language) == "" {
		language = "english"
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		route:    route,
		language: language,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type gatewayResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// Send delivers message to every number in one gateway request.
func (c *Client) Send(ctx context.Context, numbers []string, message string) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	if len(numbers) == 0 {
		return errors.New("no recipients")
	}

	q := url.Values{}
	q.Set("authorization", c.apiKey)
	q.Set("message", message)
	q.Set("language", c.language)
	q.Set("route", c.route)
	q.Set("numbers", strings.Join(numbers, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "build sms request")
	}
	req.Header.Set("cache-control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send sms")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gr gatewayResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return errors.Wrap(err, "decode sms response")
	}
	if !gr.Return {
		return fmt.Errorf("sms gateway rejected message: %s", string(gr.Message))
	}
	return nil
}
