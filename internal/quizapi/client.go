// Package quizapi is a read-only client for the hackathon quiz API.
package quizapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
)

const DefaultBaseURL = "https://hack-genai.azurewebsites.net"

const (
	EndpointTeams     = "teams"
	EndpointQuiz      = "quiz"
	EndpointAnswers   = "answers"
	EndpointJudgments = "judgments"
)

var validate = validator.New()

type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit paces outbound requests with a token bucket.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  slog.Default(),
		tracer:  otel.Tracer("quizapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Teams(ctx context.Context, quizID string) ([]results.Team, error) {
	var teams []results.Team
	if err := c.get(ctx, EndpointTeams, quizID, &teams, "api", "teams", "getByQuiz"); err != nil {
		return nil, err
	}
	return keepValid(c.logger, EndpointTeams, teams), nil
}

// Quiz returns the quiz record. The API answers with a list holding zero
// or one quiz; an empty list is reported as ErrNotFound.
func (c *Client) Quiz(ctx context.Context, quizID string) (results.Quiz, error) {
	var quizzes []results.Quiz
	if err := c.get(ctx, EndpointQuiz, quizID, &quizzes, "api", "quizzes", "getQuizById"); err != nil {
		return results.Quiz{}, err
	}
	if len(quizzes) == 0 {
		return results.Quiz{}, fmt.Errorf("quiz %q: %w", quizID, ErrNotFound)
	}
	return quizzes[0], nil
}

func (c *Client) Answers(ctx context.Context, quizID string) ([]results.Answer, error) {
	var body struct {
		Answers []results.Answer `json:"answers"`
	}
	if err := c.get(ctx, EndpointAnswers, quizID, &body, "api", "answers", "getAll"); err != nil {
		return nil, err
	}
	if body.Answers == nil {
		return nil, fmt.Errorf("failed to fetch %s: response has no answers field", EndpointAnswers)
	}
	return body.Answers, nil
}

func (c *Client) Judgments(ctx context.Context, quizID string) ([]results.Judgment, error) {
	var judgments []results.Judgment
	if err := c.get(ctx, EndpointJudgments, quizID, &judgments, "api", "judgements", "getAll"); err != nil {
		return nil, err
	}
	return keepValid(c.logger, EndpointJudgments, judgments), nil
}

// Check reports whether the API host answers HTTP at all. Any status
// counts as reachable.
func (c *Client) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reaching quiz api: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, quizID string, v any, path ...string) (err error) {
	if quizID == "" {
		return ErrEmptyQuizID
	}

	ctx, span := c.tracer.Start(ctx, "quizapi."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("quiz.id", quizID),
			attribute.String("quizapi.endpoint", endpoint),
		),
	)
	start := time.Now()
	defer func() {
		c.metrics.observe(endpoint, outcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	u := c.baseURL.JoinPath(append(path, url.PathEscape(quizID))...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}

	c.logger.Debug("fetched from quiz api", "endpoint", endpoint, "quiz_id", quizID)
	return nil
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &se):
		return strconv.Itoa(se.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// keepValid drops records that cannot be joined on. They are logged and
// otherwise ignored.
func keepValid[T any](logger *slog.Logger, endpoint string, items []T) []T {
	out := items[:0]
	for _, it := range items {
		if err := validate.Struct(it); err != nil {
			logger.Warn("dropping invalid record", "endpoint", endpoint, "error", err)
			continue
		}
		out = append(out, it)
	}
	return out
}
