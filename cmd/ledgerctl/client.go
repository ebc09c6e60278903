package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Transaction mirrors the server's transaction response model.
type Transaction struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type History struct {
	Transactions []Transaction `json:"transactions"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
}

type Preferences struct {
	User       string   `json:"user"`
	Categories []string `json:"categories"`
}

type AuditEvent struct {
	Seq       int64           `json:"seq"`
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Subject   string          `json:"subject"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"createdAt"`
}

type AuditPage struct {
	Events []AuditEvent `json:"events"`
	Next   int64        `json:"next"`
}

// APIError is the problem+json body returned by the server.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

// Client talks to the ledger HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) RecordTransaction(ctx context.Context, id, txType, amount, description string) error {
	body := map[string]string{"id": id, "type": txType, "amount": amount}
	if description != "" {
		body["description"] = description
	}
	return c.do(ctx, http.MethodPost, "/v1/transaction", body, nil)
}

func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/v1/transaction/"+url.PathEscape(id)+"/status", map[string]string{"status": status}, nil)
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/v1/transaction/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) History(ctx context.Context, user string, page, pageSize int, txType, status string) (*History, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if txType != "" {
		q.Set("type", txType)
	}
	if status != "" {
		q.Set("status", status)
	}

	var h History
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(user)+"/transactions?"+q.Encode(), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) SetPreferences(ctx context.Context, categories []string, enabled bool) (*Preferences, error) {
	body := map[string]any{"categories": categories, "enabled": enabled}
	var p Preferences
	if err := c.do(ctx, http.MethodPut, "/v1/preferences", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetPreferences(ctx context.Context, user string) (*Preferences, error) {
	var p Preferences
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(user)+"/preferences", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AuditEvents(ctx context.Context, after int64, limit int) (*AuditPage, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(after, 10))
	q.Set("limit", strconv.Itoa(limit))

	var page AuditPage
	if err := c.do(ctx, http.MethodGet, "/v1/audit?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
