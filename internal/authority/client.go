// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authority is the HTTP/JSON client for the remote access-control
// authority that owns users, permissions, balances, and gatekeeping rules.
//
// Every operation is a single request/response. Idempotent lookups are
// retried on 5xx and rate limiting with exponential backoff; calls that
// change state (process access, transfer, authenticate) are never retried.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the authority's development address.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every request, including retries.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the number of attempts for idempotent lookups.
	DefaultMaxRetries = 3

	// SearchLimit is the page size requested from user search.
	SearchLimit = 20

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 4 * 1024 * 1024

	retryBaseDelay = 250 * time.Millisecond
	retryMaxDelay  = 4 * time.Second

	defaultUserAgent = "shepard-terminal/1.0"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError is a non-success response from the authority.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("authority error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("authority error (HTTP %d)", e.Status)
}

// errorBody is the authority's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client talks to the authority over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries sets the attempt count for idempotent lookups.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the authority at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxRetries: DefaultMaxRetries,
		userAgent:  defaultUserAgent,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured authority address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// VerifyAccess asks whether the badge may pass, without side effects.
func (c *Client) VerifyAccess(ctx context.Context, barcode, terminalKey string) (*GatekeepingResponse, error) {
	var out GatekeepingResponse
	body := GatekeepingRequest{Barcode: barcode, TerminalKey: terminalKey}
	if err := c.post(ctx, "/api/gatekeeping/verify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessAccess admits the badge and debits any configured charge.
func (c *Client) ProcessAccess(ctx context.Context, barcode, terminalKey string) (*GatekeepingResponse, error) {
	var out GatekeepingResponse
	body := GatekeepingRequest{Barcode: barcode, TerminalKey: terminalKey}
	if err := c.post(ctx, "/api/gatekeeping/process", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate checks an operator's credentials.
func (c *Client) Authenticate(ctx context.Context, barcode, password string) (*User, error) {
	var out User
	body := struct {
		Barcode  string `json:"barcode"`
		Password string `json:"password"`
	}{barcode, password}
	if err := c.post(ctx, "/api/users/authenticate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByBarcode fetches the user holding a badge.
func (c *Client) GetUserByBarcode(ctx context.Context, barcode string) (*User, error) {
	var out User
	if err := c.get(ctx, "/api/users/barcode/"+url.PathEscape(barcode), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByAccount fetches the user owning an account number.
func (c *Client) GetUserByAccount(ctx context.Context, account string) (*User, error) {
	var out User
	if err := c.get(ctx, "/api/users/account/"+url.PathEscape(account), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers runs a free-text search. An empty query lists all users.
func (c *Client) SearchUsers(ctx context.Context, query string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprint(SearchLimit))
	var out SearchResult
	if err := c.get(ctx, "/api/users/search", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBalance fetches an account's balance summary.
func (c *Client) GetBalance(ctx context.Context, account string) (*Balance, error) {
	var out Balance
	if err := c.get(ctx, "/api/currency/balance/"+url.PathEscape(account), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer moves currency between accounts.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*Transaction, error) {
	body := struct {
		FromAccountNumber string      `json:"from_account_number"`
		ToAccountNumber   string      `json:"to_account_number"`
		Amount            json.Number `json:"amount"`
		Description       *string     `json:"description,omitempty"`
		TerminalKey       *string     `json:"terminal_key,omitempty"`
	}{
		FromAccountNumber: req.FromAccount,
		ToAccountNumber:   req.ToAccount,
		Amount:            json.Number(req.Amount.String()),
		Description:       req.Description,
		TerminalKey:       req.TerminalKey,
	}
	var out Transaction
	if err := c.post(ctx, "/api/currency/transfer", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		err = c.do(req, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends one request and decodes a 2xx body into out. Only the method,
// path, status, and timing are logged; bodies carry credentials.
func (c *Client) do(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("authority request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"duration", duration,
			"error", err,
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("authority request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", duration,
	)

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse maps a non-2xx status to a Go error.
func handleErrorResponse(status int, body []byte) error {
	detail := ""
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		detail = envelope.Detail
	}

	switch status {
	case http.StatusNotFound:
		if detail == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	return &APIError{Status: status, Detail: detail}
}

// isRetryable reports whether an idempotent lookup should be attempted again.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before the given attempt.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
