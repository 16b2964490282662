// Package calendar is the HTTP client for the external calendar
// service consuming dated nodes. OAuth token acquisition happens
// outside this process; the client only carries the bearer token it
// was configured with.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"planner-backend/domain/core/entities"
	pkgerrors "planner-backend/pkg/errors"
)

// Client implements ports.CalendarClient against a REST events API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates the calendar client.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type eventPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Day         string `json:"day"`
}

type eventResponse struct {
	ID string `json:"id"`
}

// SyncNode creates a calendar event for the node and returns its id.
func (c *Client) SyncNode(ctx context.Context, node *entities.Node) (string, error) {
	if node.Day == nil {
		return "", pkgerrors.NewValidationError("node has no day to sync")
	}
	var created eventResponse
	err := c.do(ctx, http.MethodPost, "/events", c.payload(node), &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateNode updates the node's existing calendar event.
func (c *Client) UpdateNode(ctx context.Context, node *entities.Node, eventID string) error {
	if node.Day == nil {
		return pkgerrors.NewValidationError("node has no day to sync")
	}
	return c.do(ctx, http.MethodPut, "/events/"+eventID, c.payload(node), nil)
}

// DeleteNode removes a calendar event.
func (c *Client) DeleteNode(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+eventID, nil, nil)
}

func (c *Client) payload(node *entities.Node) *eventPayload {
	return &eventPayload{
		Title:       node.Title,
		Description: node.Description,
		Day:         node.Day.Format("2006-01-02"),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.baseURL == "" {
		return pkgerrors.NewExternalError("calendar service is not configured")
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.NewInternalError("serialize calendar event").WithCause(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.NewInternalError("build calendar request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewExternalError("calendar request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.NewExternalError(
			fmt.Sprintf("calendar service answered %d", resp.StatusCode),
		)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.NewExternalError("calendar response is malformed").WithCause(err)
		}
	}
	return nil
}
