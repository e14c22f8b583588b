package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dailydose/internal/platform/httpclient"
	"dailydose/internal/ports/auth"
)

var (
	ErrSupabaseNotConfigured = errors.New("supabase client not configured")
	ErrSupabaseUnauthorized  = errors.New("supabase unauthorized")
	ErrSupabaseUpstream      = errors.New("supabase upstream error")
)

// Config del cliente de Supabase Auth (GoTrue).
// URL y AnonKey vienen del proyecto de Supabase (env vars en main).
type Config struct {
	BaseURL string
	AnonKey string

	// Timeout HTTP (default 5s).
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    hc,
		anonKey: strings.TrimSpace(cfg.AnonKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.anonKey != ""
}

// GetUser resuelve el usuario dueño de un access token contra GoTrue.
// GET /auth/v1/user con apikey + Authorization.
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrSupabaseUnauthorized
	}

	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}

	headers := map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + token,
	}

	if err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user", headers, nil, &out); err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrSupabaseUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrSupabaseUpstream, he.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrSupabaseUpstream, err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, errors.New("supabase response missing user id")
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}
