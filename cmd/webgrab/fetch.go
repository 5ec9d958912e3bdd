package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/webgrab/webgrab/pkg/fetch"
	"github.com/webgrab/webgrab/pkg/proxy"
)

type GetCmd struct {
	URL     string            `arg:""                  help:"URL to fetch."`
	Headers map[string]string `env:"HEADERS"           help:"Additional request headers."`
	Proxy   bool              `env:"PROXY"             help:"Fetch through a rotating proxy."`
	Retries int               `env:"RETRIES" default:"3" help:"Maximum number of attempts."`
	Output  string            `type:"path"             help:"Write the response body to a file instead of stdout."`
}

func (c *GetCmd) Run(logger *zap.Logger, globals *Globals) error {
	resp, err := newClient(logger, globals).Get(context.Background(), &fetch.Request{
		URL:      c.URL,
		Headers:  c.Headers,
		UseProxy: c.Proxy,
		Retries:  c.Retries,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", c.URL, err)
	}
	return writeBody(c.Output, resp.Body)
}

type PostCmd struct {
	URL      string            `arg:""                  help:"URL to fetch."`
	Body     string            `xor:"body"              help:"Request body."`
	BodyFile string            `xor:"body" type:"existingfile" help:"Read the request body from a file."`
	Headers  map[string]string `env:"HEADERS"           help:"Additional request headers."`
	Proxy    bool              `env:"PROXY"             help:"Fetch through a rotating proxy."`
	Retries  int               `env:"RETRIES" default:"3" help:"Maximum number of attempts."`
	Output   string            `type:"path"             help:"Write the response body to a file instead of stdout."`
}

func (c *PostCmd) Run(logger *zap.Logger, globals *Globals) error {
	body := []byte(c.Body)
	if c.BodyFile != "" {
		var err error
		body, err = os.ReadFile(c.BodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
	}
	resp, err := newClient(logger, globals).Post(context.Background(), &fetch.Request{
		URL:      c.URL,
		Headers:  c.Headers,
		Body:     body,
		UseProxy: c.Proxy,
		Retries:  c.Retries,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", c.URL, err)
	}
	return writeBody(c.Output, resp.Body)
}

func newClient(logger *zap.Logger, globals *Globals) *fetch.Client {
	opts := []fetch.Option{
		fetch.WithLogger(logger),
	}
	if globals.ProxyAPIEndpoint != "" {
		opts = append(opts, fetch.WithProxySource(proxy.New(
			globals.ProxyAPIEndpoint,
			globals.ProxyAPIKey,
			globals.ProxyRequestsPerSecond,
		)))
	}
	return fetch.New(globals.UserAgent, opts...)
}

func writeBody(output string, body []byte) error {
	if output == "" {
		_, err := os.Stdout.Write(body)
		return err
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
