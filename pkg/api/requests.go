package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/grammar"
	log "github.com/sirupsen/logrus"
)

// APIError is returned by the Client for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request returned status code %d: %s", e.StatusCode, e.Message)
}

// Client talks to a remote addrmatch server
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient returns a client for the server at baseURL. An empty token sends no Authorization header.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Parse parses a single address remotely. It returns grammar.ErrNoMatch if no rule matched.
func (c *Client) Parse(ctx context.Context, address string) (*ParseResponse, error) {
	var resp ParseResponse
	if err := c.doAPIRequest(ctx, http.MethodPost, PathParse, ParseRequest{Address: address}, &resp); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, grammar.ErrNoMatch
		}
		return nil, err
	}
	return &resp, nil
}

// ParseBatch parses many addresses in one request
func (c *Client) ParseBatch(ctx context.Context, addresses []string) (*ParseBatchResponse, error) {
	var resp ParseBatchResponse
	if err := c.doAPIRequest(ctx, http.MethodPost, PathParse, ParseRequest{Addresses: addresses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Match matches an ad-hoc pattern remotely
func (c *Client) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	var resp MatchResponse
	if err := c.doAPIRequest(ctx, http.MethodPost, PathMatch, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rules lists the rules registered on the server
func (c *Client) Rules(ctx context.Context) ([]RuleResponse, error) {
	var resp []RuleResponse
	if err := c.doAPIRequest(ctx, http.MethodGet, PathRules, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doAPIRequest(ctx context.Context, method, path string, in, out interface{}) error {
	// ensure leading slash on path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	parsedURL, err := url.Parse(c.BaseURL + path)
	if err != nil {
		log.Errorf("Failed to parse request URL '%s'", path)
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, parsedURL.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
