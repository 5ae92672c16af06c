package steam

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"steamdash/internal/providers"
	"steamdash/internal/structures"
	"time"
)

const maxBodySize = 8 << 20 // 8 MB

// Source labels used for upstream metrics.
const (
	SourcePublic       = "public"
	SourceAPI          = "api"
	SourceAuxiliary    = "auxiliary"
	SourceAchievements = "achievements"
)

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type TransportInterface interface {
	Get(ctx context.Context, target string, timeout time.Duration, source string) (*Response, error)
}

// Transport sends every request through the relay prefix. Retry policy
// belongs to the caller.
type Transport struct {
	client  *http.Client
	relay   string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewTransport(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) TransportInterface {
	return &Transport{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				ForceAttemptHTTP2:   true,
			},
		},
		relay:   conf.Steam.RelayURL,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *Transport) relayed(target string) string {
	if t.relay == "" {
		return target
	}
	return t.relay + url.QueryEscape(target)
}

// safeURL drops the query string, which carries the API key.
func safeURL(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "invalid-url"
	}
	return u.Scheme + "://" + u.Host + u.Path
}

func (t *Transport) Get(ctx context.Context, target string, timeout time.Duration, source string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logURL := safeURL(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.relayed(target), nil)
	if err != nil {
		return nil, &NetworkError{URL: logURL, Err: err}
	}
	req.Header.Set("Accept", "application/json, text/xml;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.fail(ctx, source, logURL, start, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, t.fail(ctx, source, logURL, start, err)
	}

	outcome := "ok"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "status"
	}
	t.metrics.ObserveUpstream(source, outcome, time.Since(start))
	t.logger.Debugf(providers.TypeFetch, "GET %s -> %d (%d bytes, %s)", logURL, resp.StatusCode, len(body), time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (t *Transport) fail(ctx context.Context, source, logURL string, start time.Time, err error) error {
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	outcome := "error"
	if timedOut {
		outcome = "timeout"
	}
	t.metrics.ObserveUpstream(source, outcome, time.Since(start))
	t.logger.Debugf(providers.TypeFetch, "GET %s failed after %s: %s", logURL, time.Since(start), err)
	return &NetworkError{URL: logURL, Timeout: timedOut, Err: err}
}
