package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"eskimo_admin/internal/config"
	"eskimo_admin/internal/session"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderStore     = "X-Store"
	HeaderRequestID = "X-Request-ID"
)

var (
	ErrUnauthorized = errors.New("backend unauthorized")
	ErrForbidden    = errors.New("backend forbidden")
	ErrNotFound     = errors.New("backend resource not found")
	ErrMissingID    = errors.New("id is required")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend api error: %s", e.Status)
	}
	return fmt.Sprintf("backend api error: %s: %s", e.Status, e.Body)
}

// SessionSource supplies the credentials attached to every request.
type SessionSource interface {
	Token() string
	SelectedStore() string
}

type Client struct {
	http     *resty.Client
	sessions SessionSource
	logger   *zap.Logger
}

func NewClient(cfg config.Config, sessions *session.Manager, logger *zap.Logger) *Client {
	return New(cfg, sessions, logger)
}

func New(cfg config.Config, sessions SessionSource, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}

	c := &Client{
		sessions: sessions,
		logger:   logger.Named("api"),
	}
	c.http = resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		OnBeforeRequest(c.injectSession)

	return c
}

type storeKey struct{}

// WithStore overrides the selected store for requests made with ctx.
func WithStore(ctx context.Context, store string) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

func (c *Client) injectSession(_ *resty.Client, r *resty.Request) error {
	r.Header.Set(HeaderRequestID, uuid.NewString())

	if token := strings.TrimSpace(c.sessions.Token()); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	store := c.sessions.SelectedStore()
	if override, ok := r.Context().Value(storeKey{}).(string); ok && strings.TrimSpace(override) != "" {
		store = override
	}
	if store = strings.TrimSpace(store); store != "" {
		r.Header.Set(HeaderStore, store)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Error())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
	default:
		return apiErr
	}
}

func requireID(id ID) error {
	if id.IsZero() {
		return ErrMissingID
	}
	return nil
}
