package twitch

import "time"

// Video represents a Twitch VOD as returned by the videos endpoint.
type Video struct {
	ID            string    `json:"id"`
	StreamID      string    `json:"stream_id"`
	UserID        string    `json:"user_id"`
	UserLogin     string    `json:"user_login"`
	UserName      string    `json:"user_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	PublishedAt   time.Time `json:"published_at"`
	URL           string    `json:"url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Viewable      string    `json:"viewable"`
	ViewCount     int       `json:"view_count"`
	Language      string    `json:"language"`
	Type          string    `json:"type"`
	Duration      string    `json:"duration"`
	MutedSegments []struct {
		Duration int `json:"duration"`
		Offset   int `json:"offset"`
	} `json:"muted_segments"`
}

// User represents a Twitch user.
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
}

// ClipRange bounds a download to a section of the VOD. Timecodes are in
// H:MM:SS text form; an empty field means unbounded on that side.
type ClipRange struct {
	Start string
	End   string
}

// videosResponse represents the response from the videos endpoint
type videosResponse struct {
	Data []Video `json:"data"`
}

// usersResponse represents the response from the users endpoint
type usersResponse struct {
	Data []User `json:"data"`
}

// authResponse represents the response from the OAuth token endpoint
type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
