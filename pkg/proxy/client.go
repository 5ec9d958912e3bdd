package proxy

import (
	"context"
	"fmt"
	"time"

	"github.com/carlmjohnson/requests"
	"golang.org/x/time/rate"

	"github.com/webgrab/webgrab/pkg/httpretry"
)

// Client obtains proxy credentials from a provisioning API.
type Client struct {
	endpoint    string
	apiKey      string
	rateLimiter *rate.Limiter
}

func New(endpoint, apiKey string, requestsPerSecond float64) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		rateLimiter: rate.NewLimiter(
			rate.Every(time.Duration(float64(time.Second)/requestsPerSecond)),
			1,
		),
	}
}

func (c *Client) Fresh(ctx context.Context) (*Credential, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	var resp struct {
		IP       string `json:"ip"`
		Port     int    `json:"port"`
		HTTPUser string `json:"http_user"`
		HTTPPass string `json:"http_pass"`
	}
	err := requests.URL(c.endpoint).
		Client(httpretry.Client).
		Path("/api/v1/proxy").
		Param("apikey", c.apiKey).
		CheckStatus(200).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Decode the response.
	if resp.IP == "" {
		return nil, fmt.Errorf("missing proxy address")
	}
	if resp.Port < 1 || resp.Port > 65535 {
		return nil, fmt.Errorf("invalid proxy port: %d", resp.Port)
	}
	return &Credential{
		Host:     resp.IP,
		Port:     resp.Port,
		Username: resp.HTTPUser,
		Password: resp.HTTPPass,
	}, nil
}
