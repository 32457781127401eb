package helix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"twitchapi/pkg/config"
	apierrors "twitchapi/pkg/errors"
	"twitchapi/pkg/logger"
	"twitchapi/pkg/ratelimit"
)

const (
	// DefaultMaxPoints is the Helix quota for a bearer-token client
	DefaultMaxPoints = 800

	// DefaultWindow is the quota window length
	DefaultWindow = time.Minute

	// defaultTimeout bounds a single HTTP exchange
	defaultTimeout = 30 * time.Second

	// requestCost is the point cost of every endpoint in the current set
	requestCost = 1
)

// Client is a rate-limited Helix API client. It is safe for use from
// multiple goroutines; the limiter is the only shared mutable state.
type Client struct {
	httpClient *http.Client
	clientID   string
	authToken  string
	limiter    ratelimit.Limiter
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a Helix client with the default quota of 800 points
// per minute. Credentials are stored verbatim; nothing is validated and no
// network call is made until the first fetch.
func NewClient(clientID, authToken string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		clientID:   clientID,
		authToken:  authToken,
		limiter:    ratelimit.NewPointWindow(DefaultMaxPoints, DefaultWindow, log),
		baseURL:    BaseURL,
		logger:     log,
	}
}

// NewClientWithConfig creates a Helix client from a full configuration
func NewClientWithConfig(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	limiter := ratelimit.NewPointWindow(cfg.RateLimit.MaxPoints, cfg.RateLimit.Window, log)
	limiter.SetPollInterval(cfg.RateLimit.PollInterval)

	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTP.Timeout},
		clientID:   cfg.Twitch.ClientID,
		authToken:  cfg.Twitch.AuthToken,
		limiter:    limiter,
		baseURL:    BaseURL,
		logger:     log,
	}
}

// SetLimiter replaces the rate limiter, for callers that share one limiter
// across several clients
func (c *Client) SetLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// GetStreams fetches live streams for the given user logins
func (c *Client) GetStreams(ctx context.Context, userLogins ...string) (*StreamListResponse, error) {
	var resp StreamListResponse
	if err := c.getJSON(ctx, StreamsQuery(userLogins), requestCost, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUsers fetches user accounts for the given user logins
func (c *Client) GetUsers(ctx context.Context, userLogins ...string) (*UserListResponse, error) {
	var resp UserListResponse
	if err := c.getJSON(ctx, UsersQuery(userLogins), requestCost, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFollowersFrom fetches the follow edges leaving a user, i.e. the
// channels the user follows
func (c *Client) GetFollowersFrom(ctx context.Context, userID string) (*FollowListResponse, error) {
	var resp FollowListResponse
	if err := c.getJSON(ctx, FollowsFromQuery(userID), requestCost, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFollowersTo fetches the follow edges pointing at a user, i.e. the
// user's followers
func (c *Client) GetFollowersTo(ctx context.Context, userID string) (*FollowListResponse, error) {
	var resp FollowListResponse
	if err := c.getJSON(ctx, FollowsToQuery(userID), requestCost, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFollowRelationship fetches the single directed edge between two users.
// The response data is empty when fromID does not follow toID.
func (c *Client) GetFollowRelationship(ctx context.Context, fromID, toID string) (*FollowListResponse, error) {
	var resp FollowListResponse
	if err := c.getJSON(ctx, FollowRelationshipQuery(fromID, toID), requestCost, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// getJSON reserves quota, performs the GET exchange and decodes the JSON
// body into target. All failures surface as typed errors so callers can
// tell "no data" apart from "request failed".
func (c *Client) getJSON(ctx context.Context, endpoint string, cost int, target interface{}) error {
	if err := c.limiter.Reserve(ctx, cost); err != nil {
		return err
	}

	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.authToken)

	start := time.Now()
	c.logger.DebugWithFields("sending Helix request", map[string]interface{}{
		"endpoint": endpoint,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("Helix request failed", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
			"duration": duration,
		})
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}
	defer resp.Body.Close()

	logger.LogRequest(http.MethodGet, url, resp.StatusCode, float64(duration.Milliseconds()))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := c.checkResponseStatus(resp.StatusCode, endpoint, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse Helix response", map[string]interface{}{
			"endpoint":     endpoint,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps a non-200 status to a typed error, logging the
// status, body and endpoint for diagnosis
func (c *Client) checkResponseStatus(statusCode int, endpoint string, body []byte) error {
	if statusCode == http.StatusOK {
		return nil
	}

	fields := map[string]interface{}{
		"status":   statusCode,
		"endpoint": endpoint,
		"body":     string(body),
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("Helix authentication error", fields)
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeAuth,
			Message: "authentication failed",
			Code:    statusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("Helix resource not found", fields)
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    statusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("Helix rate limit exceeded upstream", fields)
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    statusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("Helix server error", fields)
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeServerError,
			Message: "server error",
			Code:    statusCode,
		}
	default:
		c.logger.ErrorWithFields("unexpected Helix error", fields)
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", statusCode),
			Code:    statusCode,
		}
	}
}
