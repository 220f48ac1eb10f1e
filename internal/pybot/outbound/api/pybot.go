package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/entity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PathSlackUpdate is where pybot accepts Slack user updates.
const PathSlackUpdate = "/pybot/api/v1/slack/update"

const maxErrorBody = 1 << 10

// StatusError is a non-2xx answer from pybot.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pybot responded %d: %s", e.StatusCode, e.Body)
}

// Unwrap classifies the status for errors.Is against entity.ErrPybotUnavailable
// and entity.ErrPybotRejected.
func (e *StatusError) Unwrap() error {
	if e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests {
		return entity.ErrPybotUnavailable
	}
	return entity.ErrPybotRejected
}

type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

type Pybot struct {
	endpoint  string
	authToken string
	client    *http.Client
	ins       instrument.Instrumentation
}

func NewPybot(cfg Config, ins instrument.Instrumentation) *Pybot {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Pybot{
		endpoint:  strings.TrimRight(cfg.BaseURL, "/") + PathSlackUpdate,
		authToken: cfg.AuthToken,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		ins: ins,
	}
}

type slackUpdateRequest struct {
	SlackID        string `json:"slack_id"`
	MilitaryStatus string `json:"military_status"`
}

// UpdateSlackUser posts one update. Transport failures wrap
// entity.ErrPybotUnavailable; non-2xx answers are *StatusError.
func (p *Pybot) UpdateSlackUser(ctx context.Context, in entity.SlackUpdate) (err error) {
	ctx, span := p.ins.Tracer("pybot.outbound.api").Start(ctx, "UpdateSlackUser")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("task_id", in.TaskID))

	body, err := json.Marshal(slackUpdateRequest{
		SlackID:        in.SlackID,
		MilitaryStatus: in.MilitaryStatus,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		req.Header.Set("X-Correlation-ID", cID)
	}
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrPybotUnavailable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
}
