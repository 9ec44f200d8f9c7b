// Package pmclient is an HTTP client for the workflow alerts API.
package pmclient

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

	"github.com/rotisserie/eris"
)

// ErrNoSession is returned when a client is built without a bearer token.
var ErrNoSession = eris.New("no authenticated session")

// Client talks to the alerts API on behalf of one signed-in user.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient = &http.Client{Timeout: d} }
}

// New requires an explicit token; there is no anonymous mode.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token is the bearer token the client authenticates with.
func (c *Client) Token() string {
	return c.token
}

// APIError wraps non-2xx responses. Message is the server's "message" or
// "error" field when the body carries one.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ServerMessage extracts the server-provided message from err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// ListAlerts returns the alerts matching query (status, userId, projectId, priority).
func (c *Client) ListAlerts(ctx context.Context, query url.Values) ([]Alert, error) {
	endpoint := "api/alerts"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var alerts []Alert
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &alerts); err != nil {
		return nil, eris.Wrap(err, "list alerts")
	}
	return alerts, nil
}

func (c *Client) AcknowledgeAlert(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPatch, alertPath(id, "acknowledge"), nil, nil); err != nil {
		return eris.Wrapf(err, "acknowledge alert %s", id)
	}
	return nil
}

func (c *Client) DismissAlert(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPatch, alertPath(id, "dismiss"), nil, nil); err != nil {
		return eris.Wrapf(err, "dismiss alert %s", id)
	}
	return nil
}

// AssignAlert reassigns the alert to userID.
func (c *Client) AssignAlert(ctx context.Context, id, userID string) error {
	body := map[string]string{"assignedTo": userID}
	if err := c.do(ctx, http.MethodPatch, alertPath(id, "assign"), body, nil); err != nil {
		return eris.Wrapf(err, "assign alert %s", id)
	}
	return nil
}

// CompleteAlert completes the project line item behind an alert and closes it.
func (c *Client) CompleteAlert(ctx context.Context, id string, in CompleteAlertInput) error {
	if err := c.do(ctx, http.MethodPost, alertPath(id, "complete"), in, nil); err != nil {
		return eris.Wrapf(err, "complete alert %s", id)
	}
	return nil
}

// CompleteWorkflowStep marks a workflow step complete.
func (c *Client) CompleteWorkflowStep(ctx context.Context, workflowID, stepID string, in StepCompletion) (*StepCompletionResult, error) {
	endpoint := fmt.Sprintf("api/workflows/%s/steps/%s/complete", url.PathEscape(workflowID), url.PathEscape(stepID))
	var resp StepCompletionResult
	if err := c.do(ctx, http.MethodPost, endpoint, in, &resp); err != nil {
		return nil, eris.Wrapf(err, "complete step %s/%s", workflowID, stepID)
	}
	return &resp, nil
}

func (c *Client) GetProjectWorkflow(ctx context.Context, projectID string) (*ProjectWorkflow, error) {
	var resp ProjectWorkflow
	if err := c.do(ctx, http.MethodGet, "api/workflows/project/"+url.PathEscape(projectID), nil, &resp); err != nil {
		return nil, eris.Wrapf(err, "get workflow for project %s", projectID)
	}
	return &resp, nil
}

// UpdateProjectWorkflowStep sets the checklist flag of one project step.
func (c *Client) UpdateProjectWorkflowStep(ctx context.Context, projectID, stepID string, completed bool) error {
	endpoint := fmt.Sprintf("api/workflows/project/%s/workflow/%s", url.PathEscape(projectID), url.PathEscape(stepID))
	body := map[string]bool{"completed": completed}
	if err := c.do(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return eris.Wrapf(err, "update project %s step %s", projectID, stepID)
	}
	return nil
}

// GetTaxonomy returns the raw taxonomy document served by the API.
func (c *Client) GetTaxonomy(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "api/taxonomy", nil, &raw); err != nil {
		return nil, eris.Wrap(err, "get taxonomy")
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return eris.Wrap(err, "encode request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/"+strings.TrimLeft(endpoint, "/"), &buf)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "%s %s", method, endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: messageFrom(b), Body: string(b)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return eris.Wrap(err, "decode response")
		}
	}
	return nil
}

func messageFrom(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func alertPath(id, action string) string {
	return fmt.Sprintf("api/alerts/%s/%s", url.PathEscape(id), action)
}
