package testing

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
)

// Call is a recorded [MockClient] invocation.
type Call struct {
	Method string
	Args   []any
}

// MockClient is a scriptable test double for [services.Client].
//
// Each method delegates to the matching Func field when set and otherwise returns an
// empty 200 response. Calls are recorded before delegating.
type MockClient struct {
	mu      sync.Mutex
	calls   []Call
	cookies string

	LoginFunc          func(ctx context.Context, username, password string) (*services.LoginResponse, error)
	TopPlaylistsFunc   func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error)
	NewAlbumsFunc      func(ctx context.Context, limit, offset int) (*services.NewAlbumsResponse, error)
	SearchFunc         func(ctx context.Context, query string, kind services.SearchType, limit, offset int) (*services.SearchResponse, error)
	AlbumInfoFunc      func(ctx context.Context, id int64) (*services.AlbumInfoResponse, error)
	AlbumDetailFunc    func(ctx context.Context, id int64) (*services.AlbumDetailResponse, error)
	PlaylistDetailFunc func(ctx context.Context, id int64) (*services.PlaylistDetailResponse, error)
	SubscribeFunc      func(ctx context.Context, id int64, subscribe bool) (*services.Response, error)
	CommentsFunc       func(ctx context.Context, id int64, limit, offset int) (*services.CommentsResponse, error)
}

var ok = services.Response{Code: http.StatusOK}

func (m *MockClient) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

// Calls returns the recorded calls to method, or every call when method is empty.
func (m *MockClient) Calls(method string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if method == "" {
		return slices.Clone(m.calls)
	}

	var out []Call
	for _, c := range m.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns the number of recorded calls to method.
func (m *MockClient) CallCount(method string) int {
	return len(m.Calls(method))
}

func (m *MockClient) Login(ctx context.Context, username, password string) (*services.LoginResponse, error) {
	m.record("Login", username, password)
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return &services.LoginResponse{Response: ok, Profile: models.Profile{UserID: 1, Nickname: username}}, nil
}

func (m *MockClient) TopPlaylists(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
	m.record("TopPlaylists", limit, offset)
	if m.TopPlaylistsFunc != nil {
		return m.TopPlaylistsFunc(ctx, limit, offset)
	}
	return &services.TopPlaylistsResponse{Response: ok}, nil
}

func (m *MockClient) NewAlbums(ctx context.Context, limit, offset int) (*services.NewAlbumsResponse, error) {
	m.record("NewAlbums", limit, offset)
	if m.NewAlbumsFunc != nil {
		return m.NewAlbumsFunc(ctx, limit, offset)
	}
	return &services.NewAlbumsResponse{Response: ok}, nil
}

func (m *MockClient) Search(ctx context.Context, query string, kind services.SearchType, limit, offset int) (*services.SearchResponse, error) {
	m.record("Search", query, kind, limit, offset)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, kind, limit, offset)
	}
	return &services.SearchResponse{Response: ok}, nil
}

func (m *MockClient) AlbumInfo(ctx context.Context, id int64) (*services.AlbumInfoResponse, error) {
	m.record("AlbumInfo", id)
	if m.AlbumInfoFunc != nil {
		return m.AlbumInfoFunc(ctx, id)
	}
	return &services.AlbumInfoResponse{Response: ok, Album: models.Album{ID: id, Name: fmt.Sprintf("Album %d", id)}}, nil
}

func (m *MockClient) AlbumDetail(ctx context.Context, id int64) (*services.AlbumDetailResponse, error) {
	m.record("AlbumDetail", id)
	if m.AlbumDetailFunc != nil {
		return m.AlbumDetailFunc(ctx, id)
	}
	return &services.AlbumDetailResponse{Response: ok, Album: models.Album{ID: id}}, nil
}

func (m *MockClient) PlaylistDetail(ctx context.Context, id int64) (*services.PlaylistDetailResponse, error) {
	m.record("PlaylistDetail", id)
	if m.PlaylistDetailFunc != nil {
		return m.PlaylistDetailFunc(ctx, id)
	}
	return &services.PlaylistDetailResponse{Response: ok, Playlist: PlaylistWithTracks(id, 2)}, nil
}

func (m *MockClient) SubscribePlaylist(ctx context.Context, id int64, subscribe bool) (*services.Response, error) {
	m.record("SubscribePlaylist", id, subscribe)
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, id, subscribe)
	}
	return &services.Response{Code: http.StatusOK}, nil
}

func (m *MockClient) Comments(ctx context.Context, id int64, limit, offset int) (*services.CommentsResponse, error) {
	m.record("Comments", id, limit, offset)
	if m.CommentsFunc != nil {
		return m.CommentsFunc(ctx, id, limit, offset)
	}
	return &services.CommentsResponse{Response: ok}, nil
}

func (m *MockClient) Cookies() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cookies
}

func (m *MockClient) SetCookies(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookies = raw
}

// Playlists returns n playlists with consecutive IDs starting at first.
func Playlists(first int64, n int) []models.Playlist {
	out := make([]models.Playlist, n)
	for i := range out {
		id := first + int64(i)
		out[i] = models.Playlist{
			ID:          id,
			Name:        fmt.Sprintf("Playlist %d", id),
			CoverImgURL: fmt.Sprintf("https://p1.music.126.net/%d.jpg", id),
		}
	}
	return out
}

// Albums returns n albums with consecutive IDs starting at first.
func Albums(first int64, n int) []models.Album {
	out := make([]models.Album, n)
	for i := range out {
		id := first + int64(i)
		out[i] = models.Album{
			ID:     id,
			Name:   fmt.Sprintf("Album %d", id),
			PicURL: fmt.Sprintf("https://p1.music.126.net/a%d.jpg", id),
		}
	}
	return out
}

// Tracks returns n tracks with consecutive IDs starting at first.
func Tracks(first int64, n int) []models.Track {
	out := make([]models.Track, n)
	for i := range out {
		id := first + int64(i)
		out[i] = models.Track{
			ID:       id,
			Name:     fmt.Sprintf("Track %d", id),
			Artists:  []models.Artist{{ID: 1, Name: "Artist"}},
			Album:    models.Album{ID: id, Name: "Album", PicURL: fmt.Sprintf("https://p1.music.126.net/t%d.jpg", id)},
			Duration: 180000,
		}
	}
	return out
}

// Comments returns n comments with consecutive IDs starting at first.
func Comments(first int64, n int) []models.Comment {
	out := make([]models.Comment, n)
	for i := range out {
		id := first + int64(i)
		out[i] = models.Comment{CommentID: id, Content: fmt.Sprintf("comment %d", id)}
	}
	return out
}

// PlaylistWithTracks returns a detail record for id carrying n tracks.
func PlaylistWithTracks(id int64, n int) models.Playlist {
	p := Playlists(id, 1)[0]
	p.SubscribedCount = 10
	p.Creator = models.Creator{UserID: 7, Nickname: "curator"}
	p.Tracks = Tracks(id*100, n)
	p.TrackCount = n
	return p
}

// SavedSession is a session recorded by [MockSessionStore].
type SavedSession struct {
	Username string
	Profile  models.Profile
	Cookie   string
}

// MockSessionStore records saved sessions and fails with Err when set.
type MockSessionStore struct {
	mu    sync.Mutex
	saved []SavedSession
	Err   error
}

func (m *MockSessionStore) SaveSession(_ context.Context, username string, profile models.Profile, cookie string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, SavedSession{Username: username, Profile: profile, Cookie: cookie})
	return nil
}

// Saved returns the recorded sessions.
func (m *MockSessionStore) Saved() []SavedSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.saved)
}
