// Package ocr extracts text from identity document images through an
// OCR.space-compatible HTTP API.
package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client posts base64 images to the OCR endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates an OCR client
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ExtractText returns the text recognised in image
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	form := url.Values{}
	form.Set("base64Image", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(image))
	form.Set("language", "eng")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build ocr request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ocr request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr status %d", resp.StatusCode)
	}

	var pr parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", errors.Wrap(err, "decode ocr response")
	}
	if pr.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr failed: %s", string(pr.ErrorMessage))
	}

	var sb strings.Builder
	for i, r := range pr.ParsedResults {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.ParsedText)
	}
	return sb.String(), nil
}
