package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eskimo_admin/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrBridgeOffline = errors.New("print bridge offline")

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("print bridge error: %s", e.Status)
	}
	return fmt.Sprintf("print bridge error: %s: %s", e.Status, e.Body)
}

// Client talks to the print bridge running next to the shop's thermal
// printer.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.PrinterURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultPrinterURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(cfg.Timeout),
		baseURL: baseURL,
		logger:  logger.Named("printer"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status never fails: an unreachable bridge is reported as offline.
func (c *Client) Status(ctx context.Context) Status {
	var status Status
	err := c.do(ctx, resty.MethodGet, "/status", nil, &status)
	if err != nil {
		c.logger.Debug("bridge status failed", zap.Error(err))
		return Status{Online: false, Message: err.Error()}
	}
	status.Online = true
	return status
}

func (c *Client) Config(ctx context.Context) (Config, error) {
	var cfg Config
	if err := c.do(ctx, resty.MethodGet, "/config", nil, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Client) SaveConfig(ctx context.Context, cfg Config) (Config, error) {
	var saved Config
	if err := c.do(ctx, resty.MethodPost, "/config", cfg, &saved); err != nil {
		return Config{}, err
	}
	if saved == (Config{}) {
		saved = cfg
	}
	return saved, nil
}

func (c *Client) TestPrint(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/test-print", map[string]string{"text": testTicket}, nil)
}

const testTicket = "Eskimó Sorvetes\nTeste de impressão\n"

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
		return fmt.Errorf("%w: %v", ErrBridgeOffline, err)
	}
	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}
	return nil
}
