package invalidation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultPeerTimeout bounds a single peer notify. On expiry the call is
	// abandoned, not retried.
	DefaultPeerTimeout = 5 * time.Second

	// EndpointPath is where peers expose their invalidation endpoint.
	EndpointPath = "/api/cache/invalidate"
)

// PeerClient tells a sibling deployment to drop its cached copies of data
// this deployment just mutated. Delivery is advisory: every failure mode
// (timeout, refused connection, rejection) is logged at warn level and
// swallowed, so a down peer can never fail or delay an admin mutation.
type PeerClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	logger  zerolog.Logger
}

// NewPeerClient creates a notify client for the peer at baseURL. A
// non-positive timeout falls back to DefaultPeerTimeout.
func NewPeerClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *PeerClient {
	if timeout <= 0 {
		timeout = DefaultPeerTimeout
	}
	return &PeerClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "peer-invalidation").Logger(),
	}
}

// Notify posts {type, id, apiKey} to the peer's invalidation endpoint. It
// always returns normally.
func (c *PeerClient) Notify(ctx context.Context, typ Type, id string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(Request{
		Type:   typ,
		ID:     ID(id),
		APIKey: c.apiKey,
	})
	if err != nil {
		peerNotifications.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Msg("Failed to build peer invalidation request")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointPath, bytes.NewReader(body))
	if err != nil {
		peerNotifications.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("peer", c.baseURL).Msg("Failed to build peer invalidation request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		peerNotifications.WithLabelValues("error").Inc()
		c.logger.Warn().
			Err(err).
			Str("peer", c.baseURL).
			Str("type", string(typ)).
			Str("id", id).
			Msg("Peer cache invalidation failed - peer may not be running")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for the log line; the call stays
		// best-effort either way.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		peerNotifications.WithLabelValues("rejected").Inc()
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("peer", c.baseURL).
			Str("type", string(typ)).
			Str("response", string(detail)).
			Msg("Peer rejected cache invalidation")
		return
	}

	peerNotifications.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Str("peer", c.baseURL).
		Str("type", string(typ)).
		Str("id", id).
		Msg("Peer cache invalidation delivered")
}

// String implements fmt.Stringer for log context.
func (c *PeerClient) String() string {
	return fmt.Sprintf("peer(%s)", c.baseURL)
}
