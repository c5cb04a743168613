package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"moco-web/config"
)

// Client is a preconfigured HTTP client for the upstream API. Every request
// carries the shared API key header and JSON content type.
type Client struct {
	http *resty.Client
}

func NewClient(cfg *config.BackendConfig) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetHeader("x-api-key", cfg.APIKey)

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		log.Debug().Str("method", req.Method).Str("url", req.URL).Msg("Backend request")
		return nil
	})
	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug().Int("status", resp.StatusCode()).Str("url", resp.Request.URL).Msg("Backend response")
		return nil
	})

	return &Client{http: httpClient}
}

// UpsertUser creates or updates the user record keyed by email.
func (c *Client) UpsertUser(ctx context.Context, email, displayName string) (*Envelope, error) {
	return c.post(ctx, "/api/user", map[string]string{
		"email":       email,
		"displayName": displayName,
	})
}

// CheckUploadLimit asks whether email may upload another image today. The
// embedded statusCode is 200 when allowed, 429 when the daily limit is
// reached and 404 when the user is unknown.
func (c *Client) CheckUploadLimit(ctx context.Context, email string) (*Envelope, error) {
	return c.get(ctx, "/api/image/check-upload-limit", map[string]string{"email": email})
}

// RegisterImage associates an uploaded image URL with email. This call is
// the authority on limit enforcement: a 429 here overrides any earlier
// optimistic limit check.
func (c *Client) RegisterImage(ctx context.Context, email, imageLink string) (*Envelope, error) {
	return c.post(ctx, "/api/image/upload-image", map[string]string{
		"email":     email,
		"imageLink": imageLink,
	})
}

// ImagesByUser fetches the user's uploaded image URLs. The envelope result
// is a single comma-separated string.
func (c *Client) ImagesByUser(ctx context.Context, email string) (*Envelope, error) {
	return c.get(ctx, "/api/image/get-images-by-user", map[string]string{"email": email})
}

// get performs a GET and returns the body envelope whenever one could be
// parsed, regardless of the transport status code. Callers branch on the
// embedded StatusCode.
func (c *Client) get(ctx context.Context, path string, query map[string]string) (*Envelope, error) {
	var env Envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&env).
		SetError(&env).
		Get(path)

	return finish(path, resp, &env, err)
}

func (c *Client) post(ctx context.Context, path string, body any) (*Envelope, error) {
	var env Envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&env).
		SetError(&env).
		Post(path)

	return finish(path, resp, &env, err)
}

func finish(path string, resp *resty.Response, env *Envelope, err error) (*Envelope, error) {
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", path, err)
	}

	// The backend always embeds its status in the body; a response without
	// one is not speaking the envelope protocol.
	if env.StatusCode == 0 {
		return nil, fmt.Errorf("backend %s: unexpected response (HTTP %d)", path, resp.StatusCode())
	}

	return env, nil
}
