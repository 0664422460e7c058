// Package api is the HTTP client of the distrobuild REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"distrotui/internal/domain"
)

const (
	// userAgent is the User-Agent header value sent with all API requests.
	userAgent = "distrotui/1.0"

	contentTypeJSON = "application/json"

	// headerRequestID correlates a request with server logs.
	headerRequestID = "X-Request-ID"
)

// Client talks to the distrobuild API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	authenticated bool
}

// NewClient creates a client from config. A non-empty token makes every
// request carry it as a bearer token.
func NewClient(config *Config) (*Client, error) {
	return NewClientWithHTTPClient(config, nil)
}

// NewClientWithHTTPClient creates a client that sends requests through
// httpClient. If httpClient is nil one is built from config.
func NewClientWithHTTPClient(config *Config, httpClient *http.Client) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if config.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token}))
		authed.Timeout = config.Timeout
		httpClient = authed
	}

	return &Client{
		baseURL:       strings.TrimRight(config.APIURL, "/"),
		httpClient:    httpClient,
		authenticated: config.Token != "",
	}, nil
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// doRequest performs one API call. A non-nil body is sent as JSON; a non-nil
// result receives the decoded JSON response. Non-2xx answers become *Error
// carrying the server's detail message.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &Error{Code: ErrCodeDecode, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Code: ErrCodeTransport, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, &Error{
			Code:   codeForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: parseDetail(data),
		}
	}
	return resp, nil
}

func withParams(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// List reads one page of any collection. params are sent as given; pages
// are zero-based on the wire.
func List[T any](ctx context.Context, c *Client, collection domain.Collection, params url.Values) (domain.Page[T], error) {
	var page domain.Page[T]
	if err := c.doRequest(ctx, http.MethodGet, withParams(collection.Path(), params), nil, &page); err != nil {
		return domain.Page[T]{}, err
	}
	return page, nil
}

// Get reads one entity of a collection.
func Get[T any](ctx context.Context, c *Client, collection domain.Collection, id domain.ID) (*T, error) {
	var out T
	if err := c.doRequest(ctx, http.MethodGet, collection.ItemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
