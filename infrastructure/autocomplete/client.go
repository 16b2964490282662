// Package autocomplete is the HTTP client for the external LLM bridge
// that suggests intermediate research steps.
package autocomplete

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"planner-backend/application/ports"
	pkgerrors "planner-backend/pkg/errors"
)

// Client posts step requests to the bridge endpoint. Each invocation
// is a single fire-once request; a circuit breaker short-circuits
// calls while the bridge is down but nothing is ever retried.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewClient creates the bridge client.
func NewClient(endpoint, apiKey string, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "autocomplete-bridge",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 90 * time.Second},
		breaker:  breaker,
		logger:   logger,
	}
}

// GenerateSteps implements ports.AutocompleteClient.
func (c *Client) GenerateSteps(ctx context.Context, req ports.StepsRequest) ([]ports.StepSuggestion, error) {
	if c.endpoint == "" {
		return nil, pkgerrors.NewExternalError("autocomplete endpoint is not configured")
	}
	if c.apiKey == "" {
		return nil, pkgerrors.NewExternalError("autocomplete API key is not configured")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, pkgerrors.NewExternalError("autocomplete bridge is unavailable").WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	return result.([]ports.StepSuggestion), nil
}

func (c *Client) post(ctx context.Context, req ports.StepsRequest) ([]ports.StepSuggestion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.NewInternalError("serialize step request").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewInternalError("build step request").WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.NewExternalError("autocomplete request failed").WithCause(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.NewExternalError("read autocomplete response").WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrors.NewExternalError(
			fmt.Sprintf("autocomplete bridge answered %d", resp.StatusCode),
		)
	}

	var steps []ports.StepSuggestion
	if err := json.Unmarshal(payload, &steps); err != nil {
		return nil, pkgerrors.NewExternalError("autocomplete response is not a step list").WithCause(err)
	}
	return steps, nil
}
