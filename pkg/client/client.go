// Package client talks to the remote document service: candidate lookup,
// document generation and the health probe.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/contract"
	"github.com/goliatone/go-careforms/pkg/model"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	lookupPath = "/get_candidates_by_name"
	healthPath = "/health"
)

// Client is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	logger    zerolog.Logger
	contract  *contract.Contract
	timeout   time.Duration
	policy    *bluemonday.Policy
	requestID func() string
}

// GenerateRequest is the body posted to a generation endpoint.
type GenerateRequest struct {
	SelectedFields  []string `json:"selected_fields"`
	CandidateName   string   `json:"candidate_name"`
	SelectedProfile string   `json:"selected_profile"`
}

// Document is a generated file as returned by the service.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Health mirrors the /health payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type lookupRequest struct {
	CandidateName string `json:"candidate_name"`
}

type lookupResponse struct {
	Candidates []model.Profile `json:"candidates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBaseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	c := &Client{
		base:      parsed,
		http:      http.DefaultClient,
		logger:    zerolog.Nop(),
		timeout:   DefaultTimeout,
		policy:    bluemonday.StrictPolicy(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CandidatesByName looks up profiles matching name. Display texts are
// stripped of markup before they reach the caller.
func (c *Client) CandidatesByName(ctx context.Context, name string) ([]model.Profile, error) {
	payload, err := json.Marshal(lookupRequest{CandidateName: name})
	if err != nil {
		return nil, fmt.Errorf("client: encode lookup: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, lookupPath, payload)
	if err != nil {
		return nil, err
	}
	if err := resp.serverError(); err != nil {
		return nil, err
	}
	if err := c.validate(http.MethodPost, lookupPath, resp); err != nil {
		return nil, err
	}

	var out lookupResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	profiles := make([]model.Profile, 0, len(out.Candidates))
	for _, profile := range out.Candidates {
		profile.DisplayText = c.sanitize(profile.DisplayText)
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Generate posts req to endpoint and returns the produced document. A JSON
// body is always treated as an error, even with a success status.
func (c *Client) Generate(ctx context.Context, endpoint string, req GenerateRequest) (*Document, error) {
	if req.SelectedFields == nil {
		req.SelectedFields = []string{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("client: encode generate: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}
	if err := resp.serverError(); err != nil {
		return nil, err
	}
	if contract.IsJSON(resp.contentType) {
		return nil, resp.errorFromBody()
	}
	if err := c.validate(http.MethodPost, endpoint, resp); err != nil {
		return nil, err
	}

	return &Document{
		Filename:    attachmentName(resp.disposition),
		ContentType: resp.contentType,
		Data:        resp.body,
	}, nil
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return Health{}, err
	}
	if err := resp.serverError(); err != nil {
		return Health{}, err
	}
	if err := c.validate(http.MethodGet, healthPath, resp); err != nil {
		return Health{}, err
	}
	var out Health
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return Health{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out, nil
}

type response struct {
	status      int
	contentType string
	disposition string
	body        []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r response) serverError() error {
	if r.ok() {
		return nil
	}
	return r.errorFromBody()
}

func (r response) errorFromBody() error {
	serverErr := &ServerError{Status: r.status}
	if contract.IsJSON(r.contentType) {
		var payload errorResponse
		if err := json.Unmarshal(r.body, &payload); err == nil && payload.Error != "" {
			serverErr.Message = payload.Error
			serverErr.FromBody = true
		}
	}
	return serverErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (response, error) {
	if c.contract != nil && method != http.MethodGet {
		if err := c.contract.ValidateRequest(method, path, payload); err != nil {
			return response{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := *c.base
	target.Path = c.base.Path + "/" + strings.TrimPrefix(path, "/")

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target.String(), body)
	if err != nil {
		return response{}, fmt.Errorf("client: build request: %w", err)
	}
	requestID := c.requestID()
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("service request failed")
		return response{}, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("client: read response: %w", err)
	}
	out := response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		disposition: resp.Header.Get("Content-Disposition"),
		body:        data,
	}

	logger.Debug().
		Int("status", out.status).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(started)).
		Msg("service request")

	return out, nil
}

func (c *Client) validate(method, path string, resp response) error {
	if c.contract == nil {
		return nil
	}
	if err := c.contract.ValidateResponse(method, path, resp.status, resp.contentType, resp.body); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Int("status", resp.status).Msg("response violates contract")
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(text)))
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
