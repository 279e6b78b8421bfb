// NetEase Cloud Music implementation of [Client]
//
// Endpoints follow the NeteaseCloudMusicApi proxy: https://github.com/Binaryify/NeteaseCloudMusicApi
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ncmx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "http://127.0.0.1:3000"
	defaultUserAgent = "ncmx/0.1"
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5.0
)

// Options configures a [NeteaseService].
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RateLimit  float64      // Requests per second
	HTTPClient *http.Client // Optional; its Jar is replaced with a fresh cookie jar when nil
}

// OptionsFromConfig maps [shared.APIConfig] to [Options].
func OptionsFromConfig(cfg shared.APIConfig) Options {
	return Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RateLimit,
	}
}

// NeteaseService implements [Client] against a NeteaseCloudMusicApi proxy.
type NeteaseService struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNeteaseService creates a client with a fresh cookie jar.
func NewNeteaseService(opts Options) (*NeteaseService, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}

	return &NeteaseService{
		baseURL:    base,
		userAgent:  opts.UserAgent,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}, nil
}

// doRequest performs a rate-limited request against the proxy and decodes the JSON body into result.
//
// GET requests carry params in the query string; POST requests send them form-encoded.
// Non-2xx HTTP statuses are not errors: the proxy mirrors the API code in the body.
func (s *NeteaseService) doRequest(ctx context.Context, method, endpoint string, params url.Values, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	apiURL := s.baseURL.String() + endpoint

	var body io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			apiURL += "?" + params.Encode()
		}
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: failed to decode response (status %d): %v", shared.ErrAPIRequest, resp.StatusCode, err)
	}

	return nil
}

func pageParams(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

func idParams(id int64) url.Values {
	return url.Values{"id": {strconv.FormatInt(id, 10)}}
}

// isPhoneNumber reports whether username should use the cellphone login endpoint.
func isPhoneNumber(username string) bool {
	if username == "" {
		return false
	}
	for _, r := range username {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Login authenticates with a phone number or email. The session cookie is kept in the jar.
func (s *NeteaseService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	params := url.Values{"password": {password}}
	endpoint := "/login"
	if isPhoneNumber(username) {
		endpoint = "/login/cellphone"
		params.Set("phone", username)
	} else {
		params.Set("email", username)
	}

	var response LoginResponse
	if err := s.doRequest(ctx, http.MethodPost, endpoint, params, &response); err != nil {
		return nil, err
	}

	if response.OK() && response.Cookie != "" {
		s.SetCookies(response.Cookie)
	}

	return &response, nil
}

// TopPlaylists returns a page of featured playlists.
func (s *NeteaseService) TopPlaylists(ctx context.Context, limit, offset int) (*TopPlaylistsResponse, error) {
	var response TopPlaylistsResponse
	if err := s.doRequest(ctx, http.MethodGet, "/top/playlist", pageParams(limit, offset), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// NewAlbums returns a page of newly released albums.
func (s *NeteaseService) NewAlbums(ctx context.Context, limit, offset int) (*NewAlbumsResponse, error) {
	var response NewAlbumsResponse
	if err := s.doRequest(ctx, http.MethodGet, "/album/new", pageParams(limit, offset), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Search returns a page of results of the given type.
func (s *NeteaseService) Search(ctx context.Context, query string, kind SearchType, limit, offset int) (*SearchResponse, error) {
	params := pageParams(limit, offset)
	params.Set("keywords", query)
	params.Set("type", strconv.Itoa(int(kind)))

	var response SearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AlbumInfo returns an album with its songs.
func (s *NeteaseService) AlbumInfo(ctx context.Context, id int64) (*AlbumInfoResponse, error) {
	var response AlbumInfoResponse
	if err := s.doRequest(ctx, http.MethodGet, "/album", idParams(id), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AlbumDetail returns extended album fields.
func (s *NeteaseService) AlbumDetail(ctx context.Context, id int64) (*AlbumDetailResponse, error) {
	var response AlbumDetailResponse
	if err := s.doRequest(ctx, http.MethodGet, "/album/detail", idParams(id), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// PlaylistDetail returns a playlist with its tracks.
func (s *NeteaseService) PlaylistDetail(ctx context.Context, id int64) (*PlaylistDetailResponse, error) {
	var response PlaylistDetailResponse
	if err := s.doRequest(ctx, http.MethodGet, "/playlist/detail", idParams(id), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SubscribePlaylist subscribes (t=1) or unsubscribes (t=2) the logged in user.
func (s *NeteaseService) SubscribePlaylist(ctx context.Context, id int64, subscribe bool) (*Response, error) {
	params := idParams(id)
	if subscribe {
		params.Set("t", "1")
	} else {
		params.Set("t", "2")
	}

	var response Response
	if err := s.doRequest(ctx, http.MethodPost, "/playlist/subscribe", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Comments returns a page of comments for a playlist.
func (s *NeteaseService) Comments(ctx context.Context, id int64, limit, offset int) (*CommentsResponse, error) {
	params := pageParams(limit, offset)
	params.Set("id", strconv.FormatInt(id, 10))

	var response CommentsResponse
	if err := s.doRequest(ctx, http.MethodGet, "/comment/playlist", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Cookies returns the session cookies held for the proxy as "name=value; name=value".
func (s *NeteaseService) Cookies() string {
	cookies := s.httpClient.Jar.Cookies(s.baseURL)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// SetCookies stores cookies for the proxy. Accepts both "a=1; b=2" and the proxy's
// Set-Cookie style string ("a=1; Max-Age=...; Path=/;;b=2; ..."). Attributes are dropped.
func (s *NeteaseService) SetCookies(raw string) {
	cookies := parseCookieString(raw)
	if len(cookies) == 0 {
		return
	}
	s.httpClient.Jar.SetCookies(s.baseURL, cookies)
}

var cookieAttributes = map[string]bool{
	"path": true, "domain": true, "expires": true, "max-age": true,
	"httponly": true, "secure": true, "samesite": true,
}

func parseCookieString(raw string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || cookieAttributes[strings.ToLower(name)] {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value), Path: "/"})
	}
	return cookies
}
