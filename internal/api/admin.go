package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

var ErrMissingCredentials = errors.New("email and password are required")

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResponse{}, ErrMissingCredentials
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return LoginResponse{}, ErrUnauthorized
	}
	return resp, nil
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	if err := c.doGet(ctx, "/settings", nil, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	var updated Settings
	if err := c.do(ctx, http.MethodPut, "/settings", settings, &updated); err != nil {
		return Settings{}, err
	}
	return updated, nil
}

func (c *Client) ListPaymentConfigs(ctx context.Context) ([]PaymentConfig, error) {
	var configs []PaymentConfig
	if err := c.doGet(ctx, "/paymentconfigs", nil, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (c *Client) GetPaymentConfig(ctx context.Context, store string) (PaymentConfig, error) {
	if strings.TrimSpace(store) == "" {
		return PaymentConfig{}, ErrMissingID
	}
	var cfg PaymentConfig
	if err := c.doGet(ctx, "/paymentconfigs/"+url.PathEscape(store), nil, &cfg); err != nil {
		return PaymentConfig{}, err
	}
	return cfg, nil
}

// SavePaymentConfig upserts the whole record of cfg.Store.
func (c *Client) SavePaymentConfig(ctx context.Context, cfg PaymentConfig) (PaymentConfig, error) {
	if strings.TrimSpace(cfg.Store) == "" {
		return PaymentConfig{}, ErrMissingID
	}
	var saved PaymentConfig
	if err := c.do(ctx, http.MethodPut, "/paymentconfigs/"+url.PathEscape(cfg.Store), cfg, &saved); err != nil {
		return PaymentConfig{}, err
	}
	return saved, nil
}

func (c *Client) DeletePaymentConfig(ctx context.Context, store string) error {
	if strings.TrimSpace(store) == "" {
		return ErrMissingID
	}
	return c.do(ctx, http.MethodDelete, "/paymentconfigs/"+url.PathEscape(store), nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.doGet(ctx, "/user", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u User) (User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/user", u, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

func (c *Client) UpdateUser(ctx context.Context, u User) (User, error) {
	if err := requireID(u.ID); err != nil {
		return User{}, err
	}
	var updated User
	if err := c.do(ctx, http.MethodPut, "/user/"+url.PathEscape(u.ID.String()), u, &updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/user/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) KeepaliveStatus(ctx context.Context) (KeepaliveStatus, error) {
	var status KeepaliveStatus
	if err := c.doGet(ctx, "/keepalive/status", nil, &status); err != nil {
		return KeepaliveStatus{}, err
	}
	return status, nil
}

func (c *Client) SetKeepalive(ctx context.Context, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	return c.do(ctx, http.MethodPost, "/keepalive/"+action, nil, nil)
}
