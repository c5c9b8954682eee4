// Package pipelinehook notifies the upstream analysis pipeline when a
// match has been fully reconciled.
package pipelinehook

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitchlens/match-engine/internal/platform/logging"
	"github.com/pitchlens/match-engine/internal/platform/resilience"
)

var errHookTransient = crerr.New("pipeline hook transient failure")

// Notification is the completion payload posted to the pipeline.
type Notification struct {
	MatchID        string   `json:"match_id"`
	Version        string   `json:"version"`
	EventCount     int      `json:"event_count"`
	ClipCount      int      `json:"clip_count"`
	StatCount      int      `json:"stat_count"`
	AssistCount    int      `json:"assist_count"`
	TacticalMerged bool     `json:"tactical_merged"`
	SummaryMerged  bool     `json:"summary_merged"`
	Warnings       []string `json:"warnings,omitempty"`
}

type PublisherConfig struct {
	URL            string
	Token          string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Publisher struct {
	client         *http.Client
	url            string
	token          string
	retries        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		retries:        cfg.Retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// NotifyCompleted posts the notification, retrying transient failures
// up to the configured retry budget. The match id doubles as the
// idempotency key so the receiver can drop duplicate deliveries.
func (p *Publisher) NotifyCompleted(ctx context.Context, n Notification) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "pipeline hook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("pipeline hook is temporarily unavailable: %w", err)
		}
	}

	hookURL, err := validateHTTPURL(p.url)
	if err != nil {
		return crerr.Wrap(err, "invalid WEBHOOK_URL")
	}
	if strings.TrimSpace(n.MatchID) == "" {
		return crerr.New("match id is required")
	}

	body, err := sonic.Marshal(n)
	if err != nil {
		return crerr.Wrap(err, "marshal notification payload")
	}
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildCurlPreview(hookURL, n.MatchID, bodyText, p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("pipelinehook.url", hookURL),
			attribute.String("pipelinehook.match_id", n.MatchID),
			attribute.String("pipelinehook.request_body", bodyText),
			attribute.String("pipelinehook.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "pipeline hook request", "match_id", n.MatchID, "url", hookURL, "curl_preview", curlPreview)

	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		lastErr = p.post(ctx, hookURL, n.MatchID, body)
		if lastErr == nil {
			p.logger.InfoContext(ctx, "pipeline hook delivered", "match_id", n.MatchID, "attempt", attempt+1)
			p.recordCircuitResult(nil)
			return nil
		}
		if !stderrors.Is(lastErr, errHookTransient) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	p.recordCircuitResult(lastErr)
	return lastErr
}

func (p *Publisher) post(ctx context.Context, hookURL, matchID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create pipeline hook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", matchID)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post pipeline hook url=%s: %v", errHookTransient, hookURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post pipeline hook status=%d url=%s body=%s",
				errHookTransient, resp.StatusCode, hookURL, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("post pipeline hook status=%d url=%s body=%s",
			resp.StatusCode, hookURL, strings.TrimSpace(string(raw)))
	}

	return nil
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildCurlPreview(hookURL, matchID, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(hookURL))
	appendFlagHeader("Content-Type: application/json")
	appendFlagHeader("X-Idempotency-Key: " + matchID)
	if withToken {
		appendFlagHeader("Authorization: Bearer ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *Publisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errHookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
