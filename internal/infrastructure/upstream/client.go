// Package upstream implements the HTTP client for the remote traceability
// API. Every response is decoded into an explicit domain type at this
// boundary; a 401 on any endpoint except the refresh endpoint triggers
// exactly one refresh-and-replay, with concurrent refreshes collapsed
// into a single flight per session.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/madavola/tracegate/internal/api/metrics"
	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

const (
	refreshPath    = "/auth/refresh"
	defaultTimeout = 15 * time.Second
)

// Client talks to the remote API on behalf of gateway sessions.
type Client struct {
	base    string
	httpc   *http.Client
	store   ports.SessionStore
	refresh singleflight.Group
	log     zerolog.Logger
}

// NewClient builds a Client for the given base URL (e.g.
// http://localhost:8000/api/v1). The session store receives rotated token
// pairs so a refresh on one request is visible to the next.
func NewClient(baseURL string, timeout time.Duration, store ports.SessionStore, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{Timeout: timeout},
		store: store,
		log:   log,
	}
}

// apiDetail is the upstream error envelope: {"detail": <code | {message} |
// [{msg}]>}.
type apiDetail struct {
	Detail json.RawMessage `json:"detail"`
}

// errorCode extracts the machine-readable code from an error body.
func errorCode(body []byte) string {
	var env apiDetail
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var code string
	if json.Unmarshal(env.Detail, &code) == nil {
		return code
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(env.Detail, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(env.Detail, &list) == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}

// do performs one upstream call with the replay-once policy. op is the
// stable operation name used for metrics and decode errors; sess may be
// nil for public endpoints.
func (c *Client) do(ctx context.Context, sess *domain.Session, op, method, path string, query url.Values, body, out any) error {
	status, err := c.once(ctx, sess, op, method, path, query, body, out)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, failureLabel(err)).Inc()
		return err
	}
	if status != http.StatusUnauthorized || path == refreshPath || sess == nil || sess.RefreshToken == "" {
		return c.outcome(op, status, err)
	}

	// One refresh, shared by every concurrent 401 on this session.
	if err := c.refreshTokens(ctx, sess); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "session_expired").Inc()
		return err
	}

	// Replay the original request exactly once with the new token.
	status, err = c.once(ctx, sess, op, method, path, query, body, out)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, failureLabel(err)).Inc()
		return err
	}
	if status == http.StatusUnauthorized {
		// Refreshed token still refused: the session is over.
		c.endSession(ctx, sess)
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "session_expired").Inc()
		return domain.ErrSessionExpired
	}
	return c.outcome(op, status, nil)
}

// once performs a single HTTP exchange. It returns the status code with a
// nil error for any response that was received; transport failures come
// back as ErrUpstreamUnreachable. On success the body is decoded into out.
func (c *Client) once(ctx context.Context, sess *domain.Session, op, method, path string, query url.Values, body, out any) (int, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// 401s are resolved by the caller (refresh-and-replay); other
		// statuses carry a translatable code.
		if resp.StatusCode == http.StatusUnauthorized {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, &domain.APIError{Status: resp.StatusCode, Code: errorCode(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &domain.DecodeError{Endpoint: op, Err: err}
		}
	}
	return resp.StatusCode, nil
}

func failureLabel(err error) string {
	if errors.Is(err, domain.ErrUpstreamUnreachable) {
		return "unreachable"
	}
	return "error"
}

func (c *Client) outcome(op string, status int, err error) error {
	switch {
	case err != nil:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "error").Inc()
	case status >= http.StatusBadRequest:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "error").Inc()
		// A bare 401 reaching here means no refresh was possible.
		if status == http.StatusUnauthorized {
			return domain.ErrSessionExpired
		}
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "ok").Inc()
	}
	return err
}

// refreshTokens exchanges the session's refresh token for a new pair and
// persists it. Concurrent 401s on the same session await one in-flight
// refresh instead of racing their own.
func (c *Client) refreshTokens(ctx context.Context, sess *domain.Session) error {
	result, err, _ := c.refresh.Do(sess.ID, func() (any, error) {
		var pair domain.TokenPair
		status, err := c.once(ctx, nil, "auth.refresh", http.MethodPost, refreshPath, nil,
			map[string]string{"refresh_token": sess.RefreshToken}, &pair)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK || pair.AccessToken == "" {
			return nil, domain.ErrSessionExpired
		}

		sess.AccessToken = pair.AccessToken
		sess.RefreshToken = pair.RefreshToken
		sess.UpdatedAt = time.Now().UTC()
		if c.store != nil {
			if err := c.store.Save(ctx, sess); err != nil {
				c.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to persist rotated tokens")
			}
		}
		metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
		return pair, nil
	})
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrUpstreamUnreachable) {
			return err
		}
		c.endSession(ctx, sess)
		return domain.ErrSessionExpired
	}

	// Sharers of the flight adopt the refreshed pair.
	pair := result.(domain.TokenPair)
	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	return nil
}

// Ping checks upstream reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.once(ctx, nil, "health", http.MethodGet, "/health", nil, nil, nil)
	return err
}

// endSession clears the token pair and drops the stored session.
func (c *Client) endSession(ctx context.Context, sess *domain.Session) {
	sess.ClearTokens()
	if c.store != nil {
		if err := c.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			c.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to drop expired session")
		}
	}
	metrics.SessionsClosedTotal.WithLabelValues("expired").Inc()
	c.log.Info().Str("session_id", sess.ID).Msg("session ended after failed refresh")
}
