// Package network provides the shared HTTP transport: a TLS-fingerprinted
// client with a fixed request timeout and optional proxy rotation.
package network

import (
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// DefaultTimeout bounds every request end to end.
const DefaultTimeout = 30 * time.Second

const userAgent = "sapjobs (+https://github.com/mhartig/sapjobs)"

// Options configure a Client. The zero value is usable.
type Options struct {
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Proxies are rotated across requests when non-empty.
	Proxies []string
	// Cooldown is how long a proxy sits out after the upstream rejects
	// it. Defaults to DefaultCooldown.
	Cooldown time.Duration
}

type Client struct {
	http    tls_client.HttpClient
	rotator *Rotator
}

func NewClient(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(int(timeout/time.Second)),
	)
	if err != nil {
		return nil, err
	}

	var rotator *Rotator
	if len(opts.Proxies) > 0 {
		cooldown := opts.Cooldown
		if cooldown <= 0 {
			cooldown = DefaultCooldown
		}
		rotator, err = NewRotator(opts.Proxies, cooldown)
		if err != nil {
			return nil, err
		}
	}

	return &Client{http: client, rotator: rotator}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	proxy := c.rotateProxy()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != "" {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) rotateProxy() string {
	if c.rotator == nil {
		return ""
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		return ""
	}
	_ = c.http.SetProxy(proxy)
	return proxy
}
