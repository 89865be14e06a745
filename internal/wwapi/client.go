// Package wwapi talks to the upstream game record service and the community rank service.
package wwapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/metrics"
)

// ErrUpstream wraps every transport failure, non-200 status and undecodable body.
var ErrUpstream = errors.New("upstream request failed")

const maxBody = 16 << 20

type Client struct {
	http    *http.Client
	cfg     config.APIConfig
	limiter *rate.Limiter
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(cfg config.APIConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		cfg:     cfg,
		limiter: limiter,
		log:     log.Named("wwapi"),
		metrics: m,
	}
}

// do sends one request and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, endpoint string, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(ErrUpstream, "%s: %v", endpoint, err)
	}
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		c.metrics.Upstream(endpoint, "error")
		return nil, errors.Wrapf(ErrUpstream, "%s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.metrics.Upstream(endpoint, "error")
		return nil, errors.Wrapf(ErrUpstream, "%s: read body: %v", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.Upstream(endpoint, "status")
		c.log.Warn("upstream non-200", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.ByteString("body", truncate(body, 256)))
		return nil, errors.Wrapf(ErrUpstream, "%s: status %d", endpoint, resp.StatusCode)
	}
	c.metrics.Upstream(endpoint, "ok")
	return body, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, url string, in any, header http.Header, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return errors.Wrapf(ErrUpstream, "%s: %v", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	body, err := c.do(ctx, endpoint, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.Upstream(endpoint, "decode")
		return errors.Wrapf(ErrUpstream, "%s: decode: %v", endpoint, err)
	}
	return nil
}

// Download fetches url and returns the raw body.
func (c *Client) Download(ctx context.Context, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "%s: %v", endpoint, err)
	}
	return c.do(ctx, endpoint, req)
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
