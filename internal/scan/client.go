// Package scan calls the external receipt-inference service. The service
// proposes a candidate item/fee breakdown from a receipt image. The result
// is advisory, never financially authoritative: users review and edit it
// before a receipt is recorded.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-flash-latest"
)

// prompt asks for a flat quantity-1 item list: a "2x Burger $20" line comes
// back as two 10.00 items, so item prices divide cleanly per person later.
const prompt = `Analyze this receipt image and extract the following details in strict JSON format:
1. List of individual items ordered (name, price, quantity).
   - IMPORTANT: If an item has a quantity > 1 (e.g., "x6", "qty 6"), YOU MUST return that many SEPARATE entries for the item, each with its unit price and quantity 1.
2. Delivery fee (if any).
3. Tax amount.
4. Service charge / tip (if any).
5. Subtotal and Total.

Return ONLY raw JSON with this structure, no markdown:
{
  "items": [{ "name": "Burger", "price": 10.50, "quantity": 1 }],
  "delivery": 5.00,
  "tax": 2.50,
  "service": 3.00,
  "subtotal": 50.00,
  "total": 60.50
}`

// Item is one proposed line item, always quantity 1.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Result is the proposed breakdown for one scanned receipt.
type Result struct {
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Delivery float64 `json:"delivery"`
	Tax      float64 `json:"tax"`
	Service  float64 `json:"service"`
	Total    float64 `json:"total"`
}

// Client talks to the inference API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// New creates a scan client with the given API key.
func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
	}
}

// request/response shapes for the generateContent endpoint.
type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// ScanReceipt sends a base64-encoded receipt image for analysis and parses
// the proposed breakdown out of the reply.
func (c *Client) ScanReceipt(ctx context.Context, imageBase64, mimeType string) (*Result, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []contentPart{
				{Text: prompt},
				{InlineData: &inlineData{MimeType: mimeType, Data: imageBase64}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal scan request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, respBody)
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("inference response has no candidates")
	}

	return parseResult(gen.Candidates[0].Content.Parts[0].Text)
}

// parseResult extracts the breakdown JSON from the model's reply, tolerating
// markdown fences around it, and mints an ID per proposed item.
func parseResult(text string) (*Result, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("parse scan result: %w", err)
	}

	for i := range result.Items {
		result.Items[i].ID = uuid.New().String()
		if result.Items[i].Quantity == 0 {
			result.Items[i].Quantity = 1
		}
	}
	return &result, nil
}
