package proxy

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Credential holds proxy access details handed out by a provisioning
// service. A credential is valid for a single request attempt and is never
// cached across attempts.
type Credential struct {
	Host     string
	Port     int
	Username string
	Password string
}

// URL builds the proxy URL for a target of the given scheme. The proxy
// speaks the target's protocol, not one of its own.
func (c *Credential) URL(scheme string) (*url.URL, error) {
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", scheme)
	}
	if c.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	if c.Port < 1 || c.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", c.Port)
	}
	proxyURL := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	if c.Username != "" || c.Password != "" {
		proxyURL.User = url.UserPassword(c.Username, c.Password)
	}
	return proxyURL, nil
}

// Source hands out fresh proxy credentials, one per request attempt.
type Source interface {
	Fresh(ctx context.Context) (*Credential, error)
}
