package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Recommender turns a query plus trimmed history into places and a summary.
type Recommender interface {
	Recommend(ctx context.Context, query string, history []HistoryMessage) (*Result, error)
}

type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://some-place.onrender.com/"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Recommend(ctx context.Context, query string, history []HistoryMessage) (*Result, error) {
	if c.Client == nil {
		return nil, errors.New("recommend: http client is nil")
	}
	query, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []HistoryMessage{}
	}

	b, err := json.Marshal(recommendReq{Query: query, History: history})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/recommend", strings.TrimRight(c.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[Recommend] request query=%q history=%d", query, len(history))

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("recommend: status %d: %s", resp.StatusCode, msg)
	}

	var decoded backendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("recommend: decode response: %w", err)
	}

	out := adapt(decoded)
	log.Printf("[Recommend] response message=%q places=%d", decoded.Message, len(out.Places))
	return out, nil
}
