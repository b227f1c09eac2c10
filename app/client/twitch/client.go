package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claytomode/twitch-to-tiktok/app/client/vod_downloader"
	"github.com/claytomode/twitch-to-tiktok/pkg/config"
	"github.com/samber/do"
)

var requestTimeout = 30 * time.Second
var defaultAPIBase = "https://api.twitch.tv/helix"
var defaultAuthURL = "https://id.twitch.tv/oauth2/token"

var defaultThumbnailWidth = 1920
var defaultThumbnailHeight = 1080

// VodDownloader is the external download collaborator.
type VodDownloader interface {
	Download(ctx context.Context, spec vod_downloader.DownloadSpec) error
}

// Client is a Twitch Helix API client with a scoped authenticated session.
// Open acquires the shared connection and an app access token, Close releases
// both. All API and download calls require an open session.
type Client struct {
	clientID     string
	clientSecret string
	apiBase      string
	authURL      string
	downloader   VodDownloader

	mutex      sync.RWMutex
	httpClient *http.Client
	authToken  string
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	apiBase := cfg.Twitch.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	authURL := cfg.Twitch.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}

	return &Client{
		clientID:     cfg.Twitch.ClientID,
		clientSecret: cfg.Twitch.ClientSecret,
		apiBase:      apiBase,
		authURL:      authURL,
		downloader:   do.MustInvoke[*vod_downloader.Downloader](di),
	}, nil
}

// Open authenticates against the OAuth token endpoint and establishes the
// session. A client holds at most one session at a time.
func (c *Client) Open(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.httpClient != nil {
		return ErrSessionOpen
	}

	httpClient := &http.Client{Timeout: requestTimeout}

	token, err := c.getAccessToken(ctx, httpClient)
	if err != nil {
		httpClient.CloseIdleConnections()
		return fmt.Errorf("authentication failed: %w", err)
	}

	c.httpClient = httpClient
	c.authToken = token
	return nil
}

// Close releases the connection pool and discards the token. Safe to call on
// a closed client.
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	c.httpClient = nil
	c.authToken = ""
	return nil
}

// Session runs fn inside an open session and always closes it afterwards,
// whether fn succeeds, fails or panics.
func (c *Client) Session(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx)
}

func (c *Client) getAccessToken(ctx context.Context, httpClient *http.Client) (string, error) {
	data := url.Values{}
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating auth request failed: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("decoding auth response failed: %w", err)
	}

	return authResp.AccessToken, nil
}

// session returns the shared connection and token, or ErrNotInitialized when
// no session is open. The token is immutable for the session's lifetime, so
// concurrent calls may share it freely.
func (c *Client) session() (*http.Client, string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.httpClient == nil {
		return nil, "", ErrNotInitialized
	}
	if c.authToken == "" {
		return nil, "", fmt.Errorf("%w: auth token is not set", ErrNotInitialized)
	}

	return c.httpClient, c.authToken, nil
}

func (c *Client) getJSON(ctx context.Context, path string, queryParams url.Values, out any) error {
	httpClient, token, err := c.session()
	if err != nil {
		return err
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.apiBase, path, queryParams.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("creating request failed: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response failed: %w", err)
	}

	return nil
}

// GetBroadcasterID resolves a login name to its numeric user id.
func (c *Client) GetBroadcasterID(ctx context.Context, login string) (string, error) {
	queryParams := url.Values{}
	queryParams.Set("login", login)

	var usersResp usersResponse
	if err := c.getJSON(ctx, "users", queryParams, &usersResp); err != nil {
		return "", fmt.Errorf("getting user failed: %w", err)
	}

	if len(usersResp.Data) == 0 {
		return "", fmt.Errorf("%w: no user with login %q", ErrNotFound, login)
	}

	return usersResp.Data[0].ID, nil
}

// ListRecentVODs lists the most recent archived broadcasts of a channel,
// newest first as returned by the API. The page size sent upstream is the
// requested limit clamped to [1, 100].
func (c *Client) ListRecentVODs(ctx context.Context, login string, limit int) ([]Video, error) {
	broadcasterID, err := c.GetBroadcasterID(ctx, login)
	if err != nil {
		return nil, err
	}

	queryParams := url.Values{}
	queryParams.Set("user_id", broadcasterID)
	queryParams.Set("type", "archive")
	queryParams.Set("first", strconv.Itoa(clampPageSize(limit)))

	var videosResp videosResponse
	if err := c.getJSON(ctx, "videos", queryParams, &videosResp); err != nil {
		return nil, fmt.Errorf("getting videos failed: %w", err)
	}

	return videosResp.Data, nil
}

// GetVODThumbnailURL looks up a VOD's thumbnail URL template and fills in the
// requested dimensions. Zero or negative dimensions fall back to 1920x1080.
func (c *Client) GetVODThumbnailURL(ctx context.Context, videoID string, width, height int) (string, error) {
	if width <= 0 {
		width = defaultThumbnailWidth
	}
	if height <= 0 {
		height = defaultThumbnailHeight
	}

	queryParams := url.Values{}
	queryParams.Set("id", videoID)

	var videosResp videosResponse
	if err := c.getJSON(ctx, "videos", queryParams, &videosResp); err != nil {
		return "", fmt.Errorf("getting video failed: %w", err)
	}

	if len(videosResp.Data) == 0 {
		return "", fmt.Errorf("%w: no VOD with id %q", ErrNotFound, videoID)
	}

	// The API hands back a template with literal {width}/{height} tokens.
	thumbnailURL := videosResp.Data[0].ThumbnailURL
	thumbnailURL = strings.ReplaceAll(thumbnailURL, "{width}", strconv.Itoa(width))
	thumbnailURL = strings.ReplaceAll(thumbnailURL, "{height}", strconv.Itoa(height))

	return thumbnailURL, nil
}

// DownloadVOD downloads a VOD (or a clipped section of it) to outputPath via
// the external downloader. The call blocks until the tool exits; run it from
// a goroutine if other work must continue meanwhile.
func (c *Client) DownloadVOD(ctx context.Context, videoID, outputPath string, clip ClipRange) error {
	if _, _, err := c.session(); err != nil {
		return err
	}

	return c.downloader.Download(ctx, vod_downloader.DownloadSpec{
		VideoID:    videoID,
		OutputPath: outputPath,
		Format:     vod_downloader.FormatVideo,
		Overwrite:  true,
		StartTime:  clip.Start,
		EndTime:    clip.End,
	})
}

// DownloadVODAudio downloads only the audio track of a VOD (or a clipped
// section of it) to outputPath, extracted into an m4a container.
func (c *Client) DownloadVODAudio(ctx context.Context, videoID, outputPath string, clip ClipRange) error {
	if _, _, err := c.session(); err != nil {
		return err
	}

	return c.downloader.Download(ctx, vod_downloader.DownloadSpec{
		VideoID:      videoID,
		OutputPath:   outputPath,
		Format:       vod_downloader.FormatAudio,
		ExtractAudio: true,
		AudioFormat:  "m4a",
		Overwrite:    true,
		StartTime:    clip.Start,
		EndTime:      clip.End,
	})
}

func clampPageSize(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}
