// Package hostsync pushes canonical lesson text and annotation anchors to
// the host's storage service. Persistence itself is the host's concern; this
// client only delivers the values the core produces.
package hostsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/lessonscript/internal/annotate"
)

// Client communicates with the host storage HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// lessonRequest is the body for PUT /lessons/{id}.
type lessonRequest struct {
	Text string `json:"text"`
}

// lessonResponse is the response from GET /lessons/{id}.
type lessonResponse struct {
	Text string `json:"text"`
}

// PutLesson stores the canonical text for a lesson.
func (c *Client) PutLesson(ctx context.Context, id, text string) error {
	body, err := json.Marshal(lessonRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal lesson: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/lessons/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put lesson: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put lesson %s: status %d: %s", id, resp.StatusCode, string(respBody))
	}
	return nil
}

// GetLesson retrieves the stored text for a lesson. A missing lesson returns
// ok=false rather than an error.
func (c *Client) GetLesson(ctx context.Context, id string) (text string, ok bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lessons/"+id, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", false, fmt.Errorf("get lesson: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("get lesson %s: status %d: %s", id, resp.StatusCode, string(respBody))
	}

	var lr lessonResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", false, fmt.Errorf("decode lesson: %w", err)
	}
	return lr.Text, true, nil
}

// PutAnchor hands an annotation anchor to the host's annotation store.
func (c *Client) PutAnchor(ctx context.Context, lessonID string, a annotate.Anchor) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal anchor: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lessons/"+lessonID+"/anchors", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put anchor: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put anchor for %s: status %d: %s", lessonID, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
