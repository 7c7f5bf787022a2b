// Package api is the single outbound transport to the CloudBox server:
// a gateway that attaches the bearer credential to every request and
// intercepts authorization failures globally, plus stateless entity
// clients wrapping each endpoint group.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/cloudbox/cloudbox-cli/internal/config"
	"github.com/cloudbox/cloudbox-cli/internal/logging"
	"github.com/cloudbox/cloudbox-cli/internal/session"
)

// Gateway is the chokepoint for all CloudBox API calls. It is the only
// component allowed to react to response statuses with global side
// effects: a 401/403 on any call clears the session store, which in
// turn publishes the session-invalidated event.
type Gateway struct {
	httpClient   *nethttp.Client
	uploadClient *nethttp.Client
	baseURL      string
	sessions     *session.Store
	logger       *logging.Logger
}

// NewGateway creates a gateway for the configured API origin.
func NewGateway(cfg *config.Config, sessions *session.Store, logger *logging.Logger) *Gateway {
	// Retries are user-initiated in this client; the retryable
	// transport is used for its pooled connections only.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	return &Gateway{
		httpClient: retryClient.StandardClient(),
		// The retry round-tripper buffers non-rewindable bodies
		// before sending. Piped upload bodies must reach the wire
		// as they are produced, so they go through the underlying
		// pooled client directly.
		uploadClient: retryClient.HTTPClient,
		baseURL:      strings.TrimSuffix(cfg.APIBaseURL, "/"),
		sessions:     sessions,
		logger:       logger,
	}
}

// BaseURL returns the configured API origin, without a trailing slash.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// do performs an HTTP request with the bearer credential attached.
// Authorization failures are handled here, not by callers.
func (g *Gateway) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*nethttp.Response, error) {
	return g.send(ctx, g.httpClient, method, path, body, contentType)
}

// doUpload is do for requests whose body can only be read once, such as
// a piped multipart stream.
func (g *Gateway) doUpload(ctx context.Context, method, path string, body io.Reader, contentType string) (*nethttp.Response, error) {
	return g.send(ctx, g.uploadClient, method, path, body, contentType)
}

func (g *Gateway) send(ctx context.Context, client *nethttp.Client, method, path string, body io.Reader, contentType string) (*nethttp.Response, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token := g.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if g.logger != nil {
			g.logger.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == nethttp.StatusUnauthorized || resp.StatusCode == nethttp.StatusForbidden {
		apiErr := decodeError(resp)
		resp.Body.Close()
		g.sessions.Clear(session.ReasonAuthFailure)
		if g.logger != nil {
			g.logger.Warn().Str("path", path).Int("status", apiErr.Status).Msg("session invalidated")
		}
		return nil, apiErr
	}

	return resp, nil
}

// doJSON performs a request with an optional JSON body and decodes a
// JSON response into out (which may be nil for empty responses).
func (g *Gateway) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := g.do(ctx, method, path, reqBody, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// stream performs a GET and hands the raw body to the caller, who must
// close it. Used by the download endpoints. The returned name is taken
// from the Content-Disposition header when the server sent one; the
// download endpoint may redirect to signed storage URLs that carry it.
func (g *Gateway) stream(ctx context.Context, path string) (io.ReadCloser, int64, string, error) {
	resp, err := g.do(ctx, nethttp.MethodGet, path, nil, "")
	if err != nil {
		return nil, 0, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		resp.Body.Close()
		return nil, 0, "", apiErr
	}
	return resp.Body, resp.ContentLength, attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// attachmentName extracts the filename parameter from a
// Content-Disposition header value, or returns "".
func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// queryPath builds path?key=value... with proper escaping, omitting
// empty values so optional identifiers are left out of the request
// rather than sent as sentinels.
func queryPath(path string, pairs ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
