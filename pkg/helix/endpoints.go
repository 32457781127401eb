package helix

import (
	"net/url"
)

const (
	// BaseURL is the base URL for the Helix API
	BaseURL = "https://api.twitch.tv/helix/"

	// StreamsEndpoint lists live streams
	StreamsEndpoint = "streams"

	// UsersEndpoint looks up user accounts
	UsersEndpoint = "users"

	// FollowsEndpoint queries follow relationships
	FollowsEndpoint = "users/follows"

	// MaxLoginsPerRequest is the upstream cap on repeated login parameters
	MaxLoginsPerRequest = 100
)

// StreamsQuery builds the streams endpoint path for a set of user logins.
// Each login becomes a repeated user_login parameter, in input order.
func StreamsQuery(userLogins []string) string {
	params := url.Values{"user_login": userLogins}
	return StreamsEndpoint + "?" + params.Encode()
}

// UsersQuery builds the users endpoint path for a set of user logins
func UsersQuery(userLogins []string) string {
	params := url.Values{"login": userLogins}
	return UsersEndpoint + "?" + params.Encode()
}

// FollowsFromQuery builds the follows path for edges leaving a user
func FollowsFromQuery(userID string) string {
	params := url.Values{}
	params.Set("from_id", userID)
	return FollowsEndpoint + "?" + params.Encode()
}

// FollowsToQuery builds the follows path for edges pointing at a user
func FollowsToQuery(userID string) string {
	params := url.Values{}
	params.Set("to_id", userID)
	return FollowsEndpoint + "?" + params.Encode()
}

// FollowRelationshipQuery builds the follows path for a single directed edge
func FollowRelationshipQuery(fromID, toID string) string {
	params := url.Values{}
	params.Set("from_id", fromID)
	params.Set("to_id", toID)
	return FollowsEndpoint + "?" + params.Encode()
}
