package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the server surface the flow talks to. Kept as an interface so the
// stage-gate logic can run against a fake in tests.
type API interface {
	Participants(ctx context.Context) ([]string, error)
	Match(ctx context.Context, name string) (string, error)
	Message(ctx context.Context, name string) (string, error)
	MessageForMatch(ctx context.Context, name string) (message, from string, err error)
	SubmitMessage(ctx context.Context, from, message string) error
}

// HTTPClient talks to the exchange server over its JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Participants(ctx context.Context) ([]string, error) {
	var out struct {
		Participants []string `json:"participants"`
	}
	if err := c.getJSON(ctx, "/api/participants", &out); err != nil {
		return nil, err
	}
	return out.Participants, nil
}

func (c *HTTPClient) Match(ctx context.Context, name string) (string, error) {
	var out struct {
		Match string `json:"match"`
	}
	if err := c.getJSON(ctx, "/api/match/"+url.PathEscape(name), &out); err != nil {
		return "", err
	}
	return out.Match, nil
}

func (c *HTTPClient) Message(ctx context.Context, name string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.getJSON(ctx, "/api/message/"+url.PathEscape(name), &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) MessageForMatch(ctx context.Context, name string) (string, string, error) {
	var out struct {
		Message string `json:"message"`
		From    string `json:"from"`
	}
	if err := c.getJSON(ctx, "/api/message-for-match/"+url.PathEscape(name), &out); err != nil {
		return "", "", err
	}
	return out.Message, out.From, nil
}

func (c *HTTPClient) SubmitMessage(ctx context.Context, from, message string) error {
	payload := map[string]string{"from": from, "message": message}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/message", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return apiError(resp)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server status %d", resp.StatusCode)
}
