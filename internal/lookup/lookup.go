// Package lookup resolves invite codes against the remote invite API.
package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/tec9x/invitium/internal/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultBaseURL is the public invite-resolution API.
	DefaultBaseURL = "https://discord.com/api/v9"

	// Timeout bounds a single lookup attempt. There are no retries; a
	// timed-out candidate is terminal.
	Timeout = 7500 * time.Millisecond

	maxBodyBytes = 1 << 20
)

// TransportError is a failed lookup attempt: network error, timeout,
// non-200 status or an unreadable body. Terminal per candidate.
type TransportError struct {
	Code  string
	Cause string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lookup %s: %s", e.Code, e.Cause)
}

// Result is the parsed response for one invite code. Guild identity
// fields may be absent; classification decides what that means.
type Result struct {
	Code string

	// Kind is the invite type; nil when the response carried none.
	// 0 is a server invite.
	Kind *int

	GuildID   string
	GuildName string

	Members       int
	MembersOnline int
	Boosts        int

	// ExpiresAt is nil for permanent invites.
	ExpiresAt *time.Time
}

// HasIdentity reports whether the response carried the fields needed to
// classify it as a real invite. Anything less is a dead invite.
func (r *Result) HasIdentity() bool {
	return r.Kind != nil && r.GuildID != "" && r.GuildName != ""
}

// Permanent reports whether the invite never expires.
func (r *Result) Permanent() bool {
	return r.ExpiresAt == nil
}

type inviteResponse struct {
	Type      *int       `json:"type"`
	ExpiresAt *time.Time `json:"expires_at"`
	Guild     *struct {
		ID                       string `json:"id"`
		Name                     string `json:"name"`
		PremiumSubscriptionCount int    `json:"premium_subscription_count"`
	} `json:"guild"`
	ApproximateMemberCount   int `json:"approximate_member_count"`
	ApproximatePresenceCount int `json:"approximate_presence_count"`
}

type Client struct {
	http      httpx.Doer
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

// NewClient builds a lookup client. requestsPerSecond caps the outbound
// rate across all workers; 0 disables the limiter.
func NewClient(doer httpx.Doer, baseURL string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &Client{
		http:      doer,
		baseURL:   baseURL,
		userAgent: httpx.DefaultUserAgent,
		limiter:   limiter,
	}
}

// Lookup fetches one invite with counts and expiration metadata. A
// *TransportError return means the attempt itself failed; a Result with
// missing identity fields is returned as-is for classification.
func (c *Client) Lookup(ctx context.Context, code string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Code: code, Cause: err.Error()}
		}
	}

	target := fmt.Sprintf("%s/invites/%s?with_counts=true&with_expiration=true", c.baseURL, code)
	req, err := httpx.NewRequest(ctx, http.MethodGet, target, nil, c.userAgent)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", code)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Code: code, Cause: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Code: code, Cause: fmt.Sprintf("unexpected status code %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Code: code, Cause: "read body: " + err.Error()}
	}

	var wire inviteResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &TransportError{Code: code, Cause: "malformed body: " + err.Error()}
	}

	res := &Result{
		Code:          code,
		Kind:          wire.Type,
		ExpiresAt:     wire.ExpiresAt,
		Members:       wire.ApproximateMemberCount,
		MembersOnline: wire.ApproximatePresenceCount,
	}
	if wire.Guild != nil {
		res.GuildID = wire.Guild.ID
		res.GuildName = wire.Guild.Name
		res.Boosts = wire.Guild.PremiumSubscriptionCount
	}
	return res, nil
}
