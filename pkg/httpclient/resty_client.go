package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/samvad-hq/scoreboard/internal/cache"
)

const (
	defaultTimeout = 15 * time.Second
	healthPath     = "/health"
	requestIDKey   = "X-Request-ID"
)

// Options configures a RestyClient. Zero values are usable.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Cache     cache.Store
	Logger    Logger
}

// RestyClient adapts resty.Client to the httpclient.Client interface against a fixed base address.
type RestyClient struct {
	baseURL string
	client  *resty.Client
	cache   cache.Store
	log     Logger
}

var _ Client = (*RestyClient)(nil)

// NewRestyClient creates a RestyClient rooted at baseURL.
func NewRestyClient(baseURL string, opts Options) *RestyClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	store := opts.Cache
	if store == nil {
		store, _ = cache.NewStore(cache.TypeNone, cache.Options{})
	}

	c := newRestyBaseClient(timeout)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		c.SetHeader("User-Agent", ua)
	}

	return &RestyClient{
		baseURL: baseURL,
		client:  c,
		cache:   store,
		log:     ensureLogger(opts.Logger),
	}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// BaseURL returns the address every path is appended to.
func (r *RestyClient) BaseURL() string { return r.baseURL }

// Get performs a GET. With useCache a stored response for the same URL is
// reused; without it the network is always hit and the stored copy refreshed.
func (r *RestyClient) Get(ctx context.Context, path string, useCache bool) (Envelope[json.RawMessage], error) {
	url := r.baseURL + path
	if useCache {
		if entry, ok := r.cache.Get(url); ok {
			r.log.DebugObj("http cache hit", "http_cache", map[string]any{"url": url})
			return Envelope[json.RawMessage]{Body: entry.Body, StatusCode: entry.StatusCode}, nil
		}
	}

	headers := map[string]string{}
	if !useCache {
		headers["Cache-Control"] = "no-cache"
	}

	env, err := r.do(ctx, http.MethodGet, path, nil, headers)
	if err != nil {
		return env, err
	}
	r.cache.Put(url, cache.Entry{Body: env.Body, StatusCode: env.StatusCode})
	return env, nil
}

// Post performs a POST with body encoded per applyBody.
func (r *RestyClient) Post(ctx context.Context, path string, body any) (Envelope[json.RawMessage], error) {
	return r.do(ctx, http.MethodPost, path, body, nil)
}

// Put performs a PUT with body encoded per applyBody.
func (r *RestyClient) Put(ctx context.Context, path string, body any) (Envelope[json.RawMessage], error) {
	return r.do(ctx, http.MethodPut, path, body, nil)
}

// Delete performs a DELETE.
func (r *RestyClient) Delete(ctx context.Context, path string) (Envelope[json.RawMessage], error) {
	return r.do(ctx, http.MethodDelete, path, nil, nil)
}

// Health reports whether <base>/health answers with a 2xx. Failures are swallowed.
func (r *RestyClient) Health(ctx context.Context) bool {
	resp, err := r.client.R().SetContext(ctx).Get(r.baseURL + healthPath)
	if err != nil {
		r.log.DebugObj("health check failed", "health_error", err.Error())
		return false
	}
	return resp.IsSuccess()
}

func (r *RestyClient) do(ctx context.Context, method, path string, body any, headers map[string]string) (Envelope[json.RawMessage], error) {
	url := r.baseURL + path
	reqID := uuid.NewString()

	req := r.client.R().
		SetContext(ctx).
		SetHeader(requestIDKey, reqID)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if err := applyBody(req, body); err != nil {
		return Envelope[json.RawMessage]{}, err
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		te := networkError(err)
		r.log.WarnObj("http request failed", "http_error", map[string]any{
			"request_id": reqID,
			"method":     method,
			"url":        url,
			"status":     te.StatusCode,
			"error":      te.Message,
		})
		return Envelope[json.RawMessage]{}, te
	}

	status := resp.StatusCode()
	r.log.DebugObj("http request completed", "http_exchange", map[string]any{
		"request_id": reqID,
		"method":     method,
		"url":        url,
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if !resp.IsSuccess() {
		te := statusError(resp)
		r.log.WarnObj("http request failed", "http_error", map[string]any{
			"request_id": reqID,
			"method":     method,
			"url":        url,
			"status":     te.StatusCode,
			"error":      te.Message,
		})
		return Envelope[json.RawMessage]{}, te
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return Envelope[json.RawMessage]{}, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return Envelope[json.RawMessage]{Body: raw, StatusCode: status}, nil
}
