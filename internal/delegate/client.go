// internal/delegate/client.go
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	commonhttp "sponsor-insights/internal/common/http"
	"sponsor-insights/internal/common/logger"
)

const (
	DefaultMaxToolCalls = 2
	agentPath           = "/api/ai/agent"
)

var (
	ErrDelegateTimeout = errors.New("DELEGATE_TIMEOUT")
	ErrDelegateFailed  = errors.New("DELEGATE_FAILED")
)

// Tool is a named action the agent may request.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Toolbox executes the actions offered to an agent.
type Toolbox interface {
	Tools() []Tool
	Call(ctx context.Context, name, input string) (string, error)
}

type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxToolCalls int
	MaxRetries   int
}

// Doer sends one request. *commonhttp.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Client)

// WithHTTPClient routes agent calls through d, normally the shared rate-limited client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.client = d }
}

// Client drives a remote tool-calling agent. Each round trip sends the
// query, the tool catalogue and the observations so far; the service
// answers with either a final output or one tool request.
type Client struct {
	config Config
	client Doer
	logger logger.Logger
}

func NewClient(config Config, log logger.Logger, opts ...Option) *Client {
	if config.MaxToolCalls <= 0 {
		config.MaxToolCalls = DefaultMaxToolCalls
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	c := &Client{
		config: config,
		client: commonhttp.NewClient(0),
		logger: log.WithFields(map[string]interface{}{"component": "delegate"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type step struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

type agentRequest struct {
	RequestID string `json:"request_id"`
	Query     string `json:"query"`
	Tools     []Tool `json:"tools"`
	Steps     []step `json:"steps,omitempty"`
	FinalOnly bool   `json:"final_only"`
}

type agentResponse struct {
	Output string `json:"output"`
	Action *struct {
		Tool  string `json:"tool"`
		Input string `json:"input"`
	} `json:"action,omitempty"`
}

// Run returns the agent's final text. After MaxToolCalls tool requests the
// service is asked for a final answer from what it has observed.
func (c *Client) Run(ctx context.Context, query string, tools Toolbox) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req := agentRequest{
		RequestID: uuid.NewString(),
		Query:     query,
		Tools:     tools.Tools(),
	}
	log := c.logger.WithFields(map[string]interface{}{"requestId": req.RequestID})

	for {
		req.FinalOnly = len(req.Steps) >= c.config.MaxToolCalls

		resp, err := c.post(ctx, &req)
		if err != nil {
			log.Warn("agent round trip failed", map[string]interface{}{"error": err, "steps": len(req.Steps)})
			return "", err
		}
		if resp.Action == nil || req.FinalOnly {
			log.Info("agent finished", map[string]interface{}{"steps": len(req.Steps)})
			return strings.TrimSpace(resp.Output), nil
		}

		out, err := tools.Call(ctx, resp.Action.Tool, resp.Action.Input)
		if err != nil {
			out = fmt.Sprintf("tool %s failed: %v", resp.Action.Tool, err)
		}
		log.Debug("tool called", map[string]interface{}{"tool": resp.Action.Tool, "input": resp.Action.Input})
		req.Steps = append(req.Steps, step{Tool: resp.Action.Tool, Input: resp.Action.Input, Output: out})
	}
}

func (c *Client) post(ctx context.Context, payload *agentRequest) (*agentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelegateFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrDelegateTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+agentPath, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDelegateFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", payload.RequestID)
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
			resp = nil
			if !retry {
				break
			}
		}

		if ctx.Err() != nil {
			return nil, ErrDelegateTimeout
		}
	}

	if lastErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrDelegateTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrDelegateFailed, lastErr)
	}
	defer resp.Body.Close()

	var out agentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrDelegateFailed, err)
	}
	return &out, nil
}
