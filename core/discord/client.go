package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "DiscordBot (presence-sync, 1.0)"

// Client is a minimal Discord REST client covering guilds, channels and
// members. Calls are paced by a token bucket shared by all goroutines.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a REST client from cfg.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord: bot token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://discord.com/api/v10"
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger.With(zap.String("component", "discord")),
	}, nil
}

type errorBody struct {
	Code       int     `json:"code"`
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
}

// do performs one API call, retrying rate-limited responses up to maxRetries
// times. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	for attempt := 0; ; attempt++ {
		err := c.once(ctx, method, path, payload, out)

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.RateLimited() || attempt >= c.maxRetries {
			return err
		}

		c.logger.Debug("Rate limited, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("retry_after", apiErr.RetryAfter),
		)
		timer := time.NewTimer(apiErr.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func (c *Client) once(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("discord: %w", err)
	}

	agent.Set(fiber.HeaderAuthorization, "Bot "+c.token)
	agent.UserAgent(userAgent)
	agent.Timeout(timeout)
	if payload != nil {
		agent.JSON(payload)
	}

	start := time.Now()
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("discord: %s %s: %w", method, path, errors.Join(errs...))
	}

	c.logger.Debug("Discord call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", code),
		zap.Duration("duration", time.Since(start)),
	)

	if code < 200 || code >= 300 {
		apiErr := &APIError{Status: code}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Code = eb.Code
			apiErr.Message = eb.Message
			apiErr.RetryAfter = time.Duration(eb.RetryAfter * float64(time.Second))
		}
		return apiErr
	}

	if out == nil || code == http.StatusNoContent || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("discord: decode %s %s: %w", method, path, err)
	}
	return nil
}
