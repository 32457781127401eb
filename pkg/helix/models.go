package helix

// Stream represents a live stream as reported by the streams endpoint
type Stream struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	UserLogin    string   `json:"user_login"`
	UserName     string   `json:"user_name"`
	GameID       string   `json:"game_id"`
	GameName     string   `json:"game_name"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	ViewerCount  int      `json:"viewer_count"`
	StartedAt    string   `json:"started_at"`
	Language     string   `json:"language"`
	ThumbnailURL string   `json:"thumbnail_url"`
	TagIDs       []string `json:"tag_ids"`
}

// User represents a Twitch user account
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Type            string `json:"type"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	OfflineImageURL string `json:"offline_image_url"`
	ViewCount       int    `json:"view_count"`
	CreatedAt       string `json:"created_at"`
}

// Follow represents a directed follow edge between two users
type Follow struct {
	FromID     string `json:"from_id"`
	FromLogin  string `json:"from_login"`
	FromName   string `json:"from_name"`
	ToID       string `json:"to_id"`
	ToLogin    string `json:"to_login"`
	ToName     string `json:"to_name"`
	FollowedAt string `json:"followed_at"`
}

// Pagination carries the cursor for fetching further pages
type Pagination struct {
	Cursor string `json:"cursor"`
}

// StreamListResponse is the response shape of the streams endpoint
type StreamListResponse struct {
	Data       []Stream   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// UserListResponse is the response shape of the users endpoint
type UserListResponse struct {
	Data []User `json:"data"`
}

// FollowListResponse is the response shape of the users/follows endpoint
type FollowListResponse struct {
	Total      int        `json:"total"`
	Data       []Follow   `json:"data"`
	Pagination Pagination `json:"pagination"`
}
