package remote

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/epl-insights/internal/platform/logging"
	"github.com/riskibarqy/epl-insights/internal/platform/resilience"
	"github.com/riskibarqy/epl-insights/internal/usecase"
	"github.com/valyala/fasthttp"
)

type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	MaxBodyBytes int
	Circuit      resilience.CircuitBreakerConfig
}

// Client downloads CSV bodies over HTTP. Failures against the same origin
// trip a shared circuit breaker so a dead host cannot hold every upload
// request for the full retry budget.
type Client struct {
	http       *fasthttp.Client
	timeout    time.Duration
	maxRetries int
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 32 << 20
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Circuit.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Circuit)
		breaker = resilience.NewCircuitBreaker(normalized.FailureThreshold, normalized.OpenTimeout, normalized.HalfOpenMaxReq)
	}

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxResponseBodySize: cfg.MaxBodyBytes,
		},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "fetch rejected"), usecase.ErrDependencyUnavailable)
		}
	}

	body, err := c.fetchWithRetries(ctx, url)
	if c.breaker != nil {
		if err != nil && !errors.Is(err, usecase.ErrInvalidInput) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return body, err
}

func (c *Client) fetchWithRetries(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "fetch cancelled")
		}
		if attempt > 0 {
			if err := sleepContext(ctx, time.Duration(attempt)*250*time.Millisecond); err != nil {
				return nil, errors.Wrap(err, "fetch cancelled")
			}
		}

		body, retryable, err := c.fetchOnce(url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.logger.WarnContext(ctx, "dataset fetch attempt failed",
			"url", url,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, errors.Mark(lastErr, usecase.ErrDependencyUnavailable)
}

func (c *Client) fetchOnce(url string) (body []byte, retryable bool, err error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	if err := c.http.DoRedirects(req, resp, 3); err != nil {
		return nil, true, errors.Wrap(err, "request dataset")
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		out := make([]byte, len(resp.Body()))
		copy(out, resp.Body())
		return out, false, nil
	case status >= 500:
		return nil, true, errors.Newf("remote returned status %d", status)
	default:
		return nil, false, errors.Mark(errors.Newf("remote returned status %d", status), usecase.ErrInvalidInput)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
