package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiVersion     = "7.1"
	jsonPatchMedia = "application/json-patch+json"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
)

// Common errors
var (
	ErrMissingOrgURL    = errors.New("organization URL is required")
	ErrMissingPAT       = errors.New("personal access token is required")
	ErrWorkItemNotFound = errors.New("work item not found")
	ErrUnauthorized     = errors.New("authentication failed")
	ErrRequestFailed    = errors.New("request failed")
)

// Client talks to the Azure DevOps REST API. It implements both
// WorkItemService and FieldService.
type Client struct {
	orgURL     string // https://dev.azure.com/{org}
	pat        string
	httpClient *http.Client
	retry      RetryConfig
}

// ClientOption adjusts a Client at construction time.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries overrides how many attempts a transient failure gets.
// Non-positive values keep the default.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.retry.MaxRetries = n
		}
	}
}

// NewClient creates a REST client for the given organization URL and
// personal access token.
func NewClient(orgURL, pat string, opts ...ClientOption) (*Client, error) {
	if orgURL == "" {
		return nil, ErrMissingOrgURL
	}
	if pat == "" {
		return nil, ErrMissingPAT
	}

	c := &Client{
		orgURL: strings.TrimRight(orgURL, "/"),
		pat:    pat,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		retry: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetWorkItem fetches a work item by id, projecting only the requested
// fields to keep the payload minimal.
func (c *Client) GetWorkItem(ctx context.Context, project string, id int, fields []string) (*WorkItem, error) {
	u := fmt.Sprintf("%s/%s/_apis/wit/workitems/%d?api-version=%s",
		c.orgURL, url.PathEscape(project), id, apiVersion)
	if len(fields) > 0 {
		u += "&fields=" + url.QueryEscape(strings.Join(fields, ","))
	}

	var item WorkItem
	if err := c.doJSON(ctx, http.MethodGet, u, "", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateWorkItem creates a work item of the given type from a patch document.
func (c *Client) CreateWorkItem(ctx context.Context, project, workItemType string, ops []PatchOp) (*WorkItem, error) {
	u := fmt.Sprintf("%s/%s/_apis/wit/workitems/$%s?api-version=%s",
		c.orgURL, url.PathEscape(project), url.PathEscape(workItemType), apiVersion)

	var item WorkItem
	if err := c.doJSON(ctx, http.MethodPost, u, jsonPatchMedia, ops, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWorkItem applies a patch document to an existing work item.
func (c *Client) UpdateWorkItem(ctx context.Context, project string, id int, ops []PatchOp) (*WorkItem, error) {
	u := fmt.Sprintf("%s/%s/_apis/wit/workitems/%d?api-version=%s",
		c.orgURL, url.PathEscape(project), id, apiVersion)

	var item WorkItem
	if err := c.doJSON(ctx, http.MethodPatch, u, jsonPatchMedia, ops, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddTestCasesToSuite issues the combined suite association call. All ids
// are joined into a single request; the service silently ignores invalid
// ones, so only a whole-call failure is reportable.
func (c *Client) AddTestCasesToSuite(ctx context.Context, project string, planID, suiteID int, ids []int) error {
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.Itoa(id)
	}
	u := fmt.Sprintf("%s/%s/_apis/test/Plans/%d/suites/%d/testcases/%s?api-version=%s",
		c.orgURL, url.PathEscape(project), planID, suiteID, strings.Join(joined, ","), apiVersion)

	return c.doJSON(ctx, http.MethodPost, u, "", nil, nil)
}

// ListFields returns the field definitions of a work item type.
func (c *Client) ListFields(ctx context.Context, project, workItemType string) ([]FieldDefinition, error) {
	u := fmt.Sprintf("%s/%s/_apis/wit/workitemtypes/%s/fields?api-version=%s",
		c.orgURL, url.PathEscape(project), url.PathEscape(workItemType), apiVersion)

	var resp fieldListResponse
	if err := c.doJSON(ctx, http.MethodGet, u, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// doJSON performs one authenticated request with retry on transient
// failures, decoding the response body into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, rawURL, contentType string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	_, err := retryWithBackoff(ctx, c.retry, func() (struct{}, bool, error) {
		transient, doErr := c.doOnce(ctx, method, rawURL, contentType, payload, out)
		return struct{}{}, transient, doErr
	})
	return err
}

// doOnce performs a single round trip. The bool return reports whether the
// failure is transient and worth retrying.
func (c *Client) doOnce(ctx context.Context, method, rawURL, contentType string, payload []byte, out any) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	// PAT auth: empty user, token as password.
	req.SetBasicAuth("", c.pat)
	if payload != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures are transient.
		return true, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrWorkItemNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("%w: %s returned %d", ErrRequestFailed, method, resp.StatusCode)
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("%w: %s returned %d: %s", ErrRequestFailed, method, resp.StatusCode, summarizeBody(detail))
	}

	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

// summarizeBody extracts the service's error message from a failure body,
// falling back to the raw text.
func summarizeBody(body []byte) string {
	var wire struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		return wire.Message
	}
	return strings.TrimSpace(string(body))
}
