// Package backend implements the HTTP client that submits subscription
// records to the persistence backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"citapush/config"
	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
)

// submitResponse is the backend envelope: {success:true} or
// {success:false, error}.
type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client posts subscription records to the backend subscribe path. One
// best-effort attempt per call; the request is bounded by the configured
// submit timeout instead of stalling indefinitely.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend submission client from config.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		url:        strings.TrimRight(cfg.Push.BackendURL, "/") + cfg.Push.SubscribePath,
		httpClient: &http.Client{Timeout: cfg.Push.SubmitTimeout},
		logger:     logger,
	}
}

// Submit posts the record as JSON. Network failures, any non-2xx status
// and application-level rejections all map to BACKEND_SUBMISSION_FAILED
// so the caller can retry later; the flag stays unset upstream.
func (c *Client) Submit(ctx context.Context, record *entity.SubscriptionRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return domainerrors.ErrBackendSubmissionFailed.WithDetails(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domainerrors.ErrBackendSubmissionFailed.WithDetails(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Subscription submission failed", slog.Any("error", err))

		return domainerrors.ErrBackendSubmissionFailed.WithDetails(err.Error())
	}
	defer resp.Body.Close()

	// Non-2xx is failure even when the body parses
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domainerrors.ErrBackendSubmissionFailed.WithDetails(resp.Status)
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domainerrors.ErrBackendSubmissionFailed.WithDetails(err.Error())
	}
	if !parsed.Success {
		return domainerrors.ErrBackendSubmissionFailed.WithDetails(parsed.Error)
	}

	c.logger.Info("Subscription stored by backend",
		slog.String("subscriber_id", record.SubscriberID),
	)

	return nil
}
