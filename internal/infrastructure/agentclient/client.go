package agentclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/infrastructure/metrics"
)

// Client implements the agent.Client interface against the agent backend's
// HTTP API. Every method makes exactly one outbound call bounded by the
// configured timeout; retry policy belongs to callers.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{httpClient: httpClient}
}

// SendTurn forwards one chat turn. Per-agent requests route to the agent's
// endpoint; everything else goes to the coordinator.
func (c *Client) SendTurn(ctx context.Context, req agent.TurnRequest) (*agent.TurnReply, error) {
	endpoint := "/v1/chat"
	if req.AgentID != nil && *req.AgentID != "" {
		endpoint = fmt.Sprintf("/v1/agents/%s/chat", *req.AgentID)
	}

	var reply agent.TurnReply
	started := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&reply).
		Post(endpoint)
	c.recordCall(endpoint, resp, err, started)

	if err != nil {
		return nil, &agent.BackendError{Err: err}
	}
	if resp.IsError() {
		return nil, backendError(resp)
	}
	return &reply, nil
}

// ListAgents fetches the backend's agent catalog.
func (c *Client) ListAgents(ctx context.Context) ([]agent.Agent, error) {
	var agents []agent.Agent
	started := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&agents).
		Get("/v1/agents")
	c.recordCall("/v1/agents", resp, err, started)

	if err != nil {
		return nil, &agent.BackendError{Err: err}
	}
	if resp.IsError() {
		return nil, backendError(resp)
	}
	return agents, nil
}

// Ensure interface compliance.
var _ agent.Client = (*Client)(nil)

func (c *Client) recordCall(endpoint string, resp *resty.Response, err error, started time.Time) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	metrics.RecordUpstreamCall(endpoint, status, time.Since(started).Seconds())
}

// backendError maps a non-2xx backend answer to a typed failure, preserving
// the backend's status and its error detail when the body parses.
func backendError(resp *resty.Response) *agent.BackendError {
	detail := fmt.Sprintf("agent backend returned status %d", resp.StatusCode())

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && strings.TrimSpace(body.Detail) != "" {
		detail = strings.TrimSpace(body.Detail)
	}

	return &agent.BackendError{
		StatusCode: resp.StatusCode(),
		Detail:     detail,
	}
}
