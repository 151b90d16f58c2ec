package auditapi

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

	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/utils/safe"
)

// DefaultTimeout is the per-request timeout when the caller does not supply
// its own http.Client.
const DefaultTimeout = 15 * time.Second

// Client is an authenticated audit API client. It is the capability object
// handed to the usecases instead of any ambient credential storage.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ interfaces.AuditAPI = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates an audit API client for the given base URL. The token is sent
// as a bearer credential on every request; it may be empty for unauthenticated
// development backends.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("audit API base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid audit API base URL", goerr.V("base_url", baseURL))
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StartExecution requests a new or resumed execution for one lab and category.
func (c *Client) StartExecution(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error) {
	body := startRequest{
		LabID:    labID,
		Category: category,
	}
	var resp model.AuditExecution
	path := fmt.Sprintf("/api/v1/assignments/%s/start", url.PathEscape(assignmentID.String()))
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateItem persists one checklist item mutation.
func (c *Client) UpdateItem(ctx context.Context, executionID types.ExecutionID, itemID types.ItemID, update model.ItemUpdate) (*model.ChecklistItem, error) {
	var resp model.ChecklistItem
	path := fmt.Sprintf("/api/v1/executions/%s/items/%s",
		url.PathEscape(executionID.String()), url.PathEscape(itemID.String()))
	if err := c.do(ctx, http.MethodPut, path, update, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteExecution closes an execution with the auditor's closing notes.
func (c *Client) CompleteExecution(ctx context.Context, executionID types.ExecutionID, observations, recommendations string) (*model.AuditExecution, error) {
	body := completeRequest{
		Observations:    observations,
		Recommendations: recommendations,
	}
	var resp model.AuditExecution
	path := fmt.Sprintf("/api/v1/executions/%s/complete", url.PathEscape(executionID.String()))
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAssignment retrieves an assignment by ID.
func (c *Client) GetAssignment(ctx context.Context, id types.AssignmentID) (*model.Assignment, error) {
	var resp model.Assignment
	path := fmt.Sprintf("/api/v1/assignments/%s", url.PathEscape(id.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListExecutions retrieves the executions recorded for an assignment.
func (c *Client) ListExecutions(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error) {
	var resp []*model.AuditExecution
	path := fmt.Sprintf("/api/v1/executions/assignment/%s", url.PathEscape(assignmentID.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

const maxErrorBody = 4 << 10

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "audit API request failed",
			goerr.V("method", method),
			goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return goerr.New("audit API returned an error",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(raw))))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode audit API response",
			goerr.V("method", method),
			goerr.V("path", path))
	}
	return nil
}
