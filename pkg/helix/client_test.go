package helix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	apierrors "twitchapi/pkg/errors"
	"twitchapi/pkg/logger"
	"twitchapi/pkg/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newMockHTTPClient(handler func(req *http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// newTestClient builds a client whose transport is replaced by handler
func newTestClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client := NewClient("test-client-id", "test-token", logger.NewTestLogger())
	client.httpClient = newMockHTTPClient(handler)
	return client
}

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient("my-id", "my-token", log)

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.limiter)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, "my-id", client.clientID)
	assert.Equal(t, "my-token", client.authToken)
}

func TestRequestHeaders(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newResponse(http.StatusOK, `{"data":[]}`), nil
	})

	_, err := client.GetUsers(context.Background(), "alice")
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "test-client-id", captured.Header.Get("Client-ID"))
	assert.Equal(t, "Bearer test-token", captured.Header.Get("Authorization"))
	assert.Equal(t, http.MethodGet, captured.Method)
}

func TestGetStreams(t *testing.T) {
	body := `{
		"data": [{
			"id": "41375541868",
			"user_id": "459331509",
			"user_login": "alice",
			"user_name": "Alice",
			"game_id": "494131",
			"game_name": "Little Nightmares",
			"type": "live",
			"title": "hablamos y jugamos",
			"viewer_count": 78365,
			"started_at": "2021-03-10T15:04:21Z",
			"language": "es",
			"thumbnail_url": "https://example.com/thumb.jpg"
		}],
		"pagination": {"cursor": "eyJiIjpudWxsfQ"}
	}`

	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newResponse(http.StatusOK, body), nil
	})

	resp, err := client.GetStreams(context.Background(), "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, BaseURL+"streams?user_login=alice&user_login=bob", captured.URL.String())

	require.Len(t, resp.Data, 1)
	stream := resp.Data[0]
	assert.Equal(t, "alice", stream.UserLogin)
	assert.Equal(t, "Little Nightmares", stream.GameName)
	assert.Equal(t, 78365, stream.ViewerCount)
	assert.Equal(t, "2021-03-10T15:04:21Z", stream.StartedAt)
	assert.Equal(t, "eyJiIjpudWxsfQ", resp.Pagination.Cursor)
}

func TestGetUsers(t *testing.T) {
	body := `{
		"data": [{
			"id": "141981764",
			"login": "alice",
			"display_name": "Alice",
			"broadcaster_type": "partner",
			"description": "streams things",
			"profile_image_url": "https://example.com/profile.png",
			"view_count": 5980557,
			"created_at": "2016-12-14T20:32:28Z"
		}]
	}`

	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newResponse(http.StatusOK, body), nil
	})

	resp, err := client.GetUsers(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, BaseURL+"users?login=alice", captured.URL.String())

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "141981764", resp.Data[0].ID)
	assert.Equal(t, "partner", resp.Data[0].BroadcasterType)
	assert.Equal(t, 5980557, resp.Data[0].ViewCount)
}

func TestGetFollows(t *testing.T) {
	body := `{
		"total": 1,
		"data": [{
			"from_id": "123",
			"from_name": "Alice",
			"to_id": "456",
			"to_name": "Bob",
			"followed_at": "2020-08-06T15:04:21Z"
		}],
		"pagination": {}
	}`

	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newResponse(http.StatusOK, body), nil
	})

	t.Run("from", func(t *testing.T) {
		resp, err := client.GetFollowersFrom(context.Background(), "123")
		require.NoError(t, err)
		assert.Equal(t, BaseURL+"users/follows?from_id=123", captured.URL.String())
		assert.Equal(t, 1, resp.Total)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "2020-08-06T15:04:21Z", resp.Data[0].FollowedAt)
	})

	t.Run("to", func(t *testing.T) {
		_, err := client.GetFollowersTo(context.Background(), "456")
		require.NoError(t, err)
		assert.Equal(t, BaseURL+"users/follows?to_id=456", captured.URL.String())
	})

	t.Run("relationship", func(t *testing.T) {
		resp, err := client.GetFollowRelationship(context.Background(), "123", "456")
		require.NoError(t, err)
		assert.Equal(t, BaseURL+"users/follows?from_id=123&to_id=456", captured.URL.String())
		assert.Equal(t, "123", resp.Data[0].FromID)
		assert.Equal(t, "456", resp.Data[0].ToID)
	})
}

func TestErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantType   apierrors.ErrorType
	}{
		{"unauthorized", http.StatusUnauthorized, apierrors.ErrorTypeAuth},
		{"forbidden", http.StatusForbidden, apierrors.ErrorTypeAuth},
		{"not found", http.StatusNotFound, apierrors.ErrorTypeNotFound},
		{"too many requests", http.StatusTooManyRequests, apierrors.ErrorTypeRateLimit},
		{"internal server error", http.StatusInternalServerError, apierrors.ErrorTypeServerError},
		{"bad gateway", http.StatusBadGateway, apierrors.ErrorTypeServerError},
		{"teapot", http.StatusTeapot, apierrors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				return newResponse(tt.statusCode, `{"error":"nope"}`), nil
			})

			_, err := client.GetStreams(context.Background(), "alice")
			require.Error(t, err)

			var apiErr *apierrors.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.statusCode, apiErr.Code)
		})
	}
}

func TestTransportError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := client.GetUsers(context.Background(), "alice")
	require.Error(t, err)

	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.ErrorTypeNetwork, apiErr.Type)
	assert.Equal(t, 0, apiErr.Code)
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, `{"data": [{]`), nil
	})

	_, err := client.GetStreams(context.Background(), "alice")
	require.Error(t, err)

	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.ErrorTypeParsing, apiErr.Type)
}

func TestClientThrottles(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, `{"data":[]}`), nil
	})

	// Two usable points per window of 100ms
	limiter := ratelimit.NewPointWindow(3, 100*time.Millisecond, logger.NewTestLogger())
	limiter.SetPollInterval(5 * time.Millisecond)
	client.SetLimiter(limiter)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.GetUsers(ctx, "alice")
		require.NoError(t, err)
	}

	// The third call had to wait for the window reset
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestReserveCancellation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, `{"data":[]}`), nil
	})

	limiter := ratelimit.NewPointWindow(2, time.Minute, logger.NewTestLogger())
	limiter.SetPollInterval(5 * time.Millisecond)
	client.SetLimiter(limiter)

	_, err := client.GetUsers(context.Background(), "alice")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = client.GetUsers(ctx, "bob")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
