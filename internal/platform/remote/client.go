package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/sethvargo/go-retry"
)

const maxResponseBytes = 1 << 20

// ClientConfig configures a collaborator client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RetryBase is the first backoff interval; it doubles on each retry.
	RetryBase time.Duration
}

// client is the JSON-over-HTTP plumbing shared by the collaborator clients.
type client struct {
	base       *url.URL
	http       *http.Client
	maxRetries uint64
	retryBase  time.Duration
	logger     *slog.Logger
}

func newClient(cfg ClientConfig, component string, log *slog.Logger) (*client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q for %s", cfg.BaseURL, component)
	}
	if log == nil {
		log = slog.Default()
	}

	httpClient := cleanhttp.DefaultPooledClient()
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = 100 * time.Millisecond
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &client{
		base:       base,
		http:       httpClient,
		maxRetries: uint64(maxRetries),
		retryBase:  retryBase,
		logger:     log.With(slog.String("component", component)),
	}, nil
}

func (c *client) resolve(segments ...string) string {
	return c.base.JoinPath(segments...).String()
}

// getJSON fetches target and decodes the body into out, retrying transport
// failures and 5xx responses with exponential backoff.
func (c *client) getJSON(ctx context.Context, target, credential string, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	attempt := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.do(ctx, http.MethodGet, target, credential, nil, out)
		if err != nil && isRetryable(err) {
			log.Warn("remote read failed, retrying",
				slog.String("url", target),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
}

// putJSON sends body to target once.
func (c *client) putJSON(ctx context.Context, target, credential string, body any) error {
	return c.do(ctx, http.MethodPut, target, credential, body, nil)
}

func (c *client) do(ctx context.Context, method, target, credential string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, target, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, target, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w: %w", method, target, ErrUnavailable, ctxErr)
		}
		return fmt.Errorf("%s %s: %w: %v", method, target, ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return statusError(method, target, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: %w: empty body", method, target, ErrInvalidResponse)
		}
		return fmt.Errorf("%s %s: %w: %v", method, target, ErrInvalidResponse, err)
	}
	return nil
}
