package reader

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
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public IBB traffic data API.
const DefaultBaseURL = "https://tkmservices.ibb.gov.tr/web/api/TrafficData/v1"

const defaultTimeout = 30 * time.Second

// Record is a single entry returned by the traffic API.
type Record map[string]interface{}

// Response is the normalized result of an API call.
type Response struct {
	StatusCode int
	Records    []Record
	Message    string
}

// OK reports whether the response carries a 2xx status code.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err promotes a non-2xx response to a typed error. It returns nil for
// successful responses.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{
		Kind:       KindHTTP,
		StatusCode: r.StatusCode,
		Message:    r.Message,
	}
}

// Client talks to the IBB traffic data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the given base URL. A trailing slash on the base
// URL is stripped.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request against the given endpoint. The endpoint is
// joined to the base URL; a leading slash is allowed but not required.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	u := c.endpointURL(endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Message: "building request", Err: err}
	}

	return c.do(req)
}

// Post performs a POST request with a JSON body against the given endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindParsing, Message: "encoding request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: KindConnection, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do executes the request and normalizes the response.
func (c *Client) do(req *http.Request) (*Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(err)
	}

	return c.handleResponse(req, resp.StatusCode, body), nil
}

// handleResponse normalizes the response body into a record list.
func (c *Client) handleResponse(req *http.Request, status int, body []byte) *Response {
	if status < 200 || status >= 300 {
		c.logger.Error("API request failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", status))
		return &Response{
			StatusCode: status,
			Records:    []Record{},
			Message:    string(body),
		}
	}

	c.logger.Info("API request successful",
		zap.String("url", req.URL.String()),
		zap.Int("status", status))

	records, err := decodeRecords(body)
	if err != nil {
		c.logger.Warn("response is not valid JSON",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &Response{StatusCode: status, Records: []Record{}}
	}

	return &Response{StatusCode: status, Records: records}
}

// decodeRecords parses a JSON body as a list of records. A single object is
// wrapped into a one-element list.
func decodeRecords(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	if trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decoding record list: %w", err)
		}
		return records, nil
	}

	var record Record
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return []Record{record}, nil
}

// transportError classifies request failures into timeout or connection
// errors.
func (c *Client) transportError(err error) error {
	kind := KindConnection
	if isTimeout(err) {
		kind = KindTimeout
	}

	c.logger.Error("API request error",
		zap.String("kind", string(kind)),
		zap.Error(err))

	return &Error{Kind: kind, Message: "request failed", Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}
