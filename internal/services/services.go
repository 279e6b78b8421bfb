// package services defines interface Client for interacting with the NetEase API
package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/ncmx/internal/models"
)

// Client defines the NetEase API surface consumed by the tasks package.
type Client interface {
	// Login authenticates with a phone number or email and password.
	Login(ctx context.Context, username, password string) (*LoginResponse, error)

	// TopPlaylists returns a page of featured playlists.
	TopPlaylists(ctx context.Context, limit, offset int) (*TopPlaylistsResponse, error)

	// NewAlbums returns a page of newly released albums.
	NewAlbums(ctx context.Context, limit, offset int) (*NewAlbumsResponse, error)

	// Search returns a page of results of the given type.
	Search(ctx context.Context, query string, kind SearchType, limit, offset int) (*SearchResponse, error)

	// AlbumInfo returns an album with its songs.
	AlbumInfo(ctx context.Context, id int64) (*AlbumInfoResponse, error)

	// AlbumDetail returns extended album fields such as the description.
	AlbumDetail(ctx context.Context, id int64) (*AlbumDetailResponse, error)

	// PlaylistDetail returns a playlist with its tracks.
	PlaylistDetail(ctx context.Context, id int64) (*PlaylistDetailResponse, error)

	// SubscribePlaylist subscribes to (or unsubscribes from) a playlist.
	SubscribePlaylist(ctx context.Context, id int64, subscribe bool) (*Response, error)

	// Comments returns a page of comments for a playlist.
	Comments(ctx context.Context, id int64, limit, offset int) (*CommentsResponse, error)

	// Cookies returns the session cookies as a "name=value; name=value" string.
	Cookies() string

	// SetCookies restores session cookies produced by [Client.Cookies].
	SetCookies(raw string)
}

// SearchType is the NetEase search type code.
type SearchType int

const (
	SearchSong     SearchType = 1
	SearchAlbum    SearchType = 10
	SearchArtist   SearchType = 100
	SearchPlaylist SearchType = 1000
)

func (t SearchType) String() string {
	switch t {
	case SearchSong:
		return "song"
	case SearchAlbum:
		return "album"
	case SearchArtist:
		return "artist"
	case SearchPlaylist:
		return "playlist"
	default:
		return ""
	}
}

// Response is the envelope every NetEase payload shares.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the API accepted the request.
func (r Response) OK() bool {
	return r.Code == http.StatusOK
}

// LoginResponse is returned by the login endpoints.
type LoginResponse struct {
	Response
	Profile models.Profile `json:"profile"`
	Cookie  string         `json:"cookie,omitempty"`
}

// TopPlaylistsResponse is a page of featured playlists.
type TopPlaylistsResponse struct {
	Response
	Playlists []models.Playlist `json:"playlists"`
	Total     int               `json:"total"`
	More      bool              `json:"more"`
}

// NewAlbumsResponse is a page of new albums.
type NewAlbumsResponse struct {
	Response
	Albums []models.Album `json:"albums"`
	Total  int            `json:"total"`
}

// HasMore reports whether albums remain past this page.
func (r NewAlbumsResponse) HasMore(offset int) bool {
	return offset+len(r.Albums) < r.Total
}

// SearchResponse wraps search hits.
type SearchResponse struct {
	Response
	Result SearchResult `json:"result"`
}

// SearchResult contains hits and totals per type.
type SearchResult struct {
	Songs         []models.Track    `json:"songs,omitempty"`
	SongCount     int               `json:"songCount,omitempty"`
	Playlists     []models.Playlist `json:"playlists,omitempty"`
	PlaylistCount int               `json:"playlistCount,omitempty"`
	Artists       []models.Artist   `json:"artists,omitempty"`
	ArtistCount   int               `json:"artistCount,omitempty"`
	Albums        []models.Album    `json:"albums,omitempty"`
	AlbumCount    int               `json:"albumCount,omitempty"`
}

// Results converts the hits to [models.SearchResults].
func (r SearchResult) Results() models.SearchResults {
	return models.SearchResults{
		Songs:     r.Songs,
		Playlists: r.Playlists,
		Artists:   r.Artists,
		Albums:    r.Albums,
	}
}

// HasMore reports whether hits of the given type remain past this page.
func (r SearchResult) HasMore(kind SearchType, offset int) bool {
	switch kind {
	case SearchSong:
		return offset+len(r.Songs) < r.SongCount
	case SearchPlaylist:
		return offset+len(r.Playlists) < r.PlaylistCount
	case SearchArtist:
		return offset+len(r.Artists) < r.ArtistCount
	case SearchAlbum:
		return offset+len(r.Albums) < r.AlbumCount
	default:
		return false
	}
}

// AlbumInfoResponse is an album with its songs.
type AlbumInfoResponse struct {
	Response
	Album models.Album   `json:"album"`
	Songs []models.Track `json:"songs"`
}

// AlbumDetailResponse carries the extended album fields.
type AlbumDetailResponse struct {
	Response
	Album models.Album `json:"album"`
}

// PlaylistDetailResponse is a playlist with its tracks.
type PlaylistDetailResponse struct {
	Response
	Playlist models.Playlist `json:"playlist"`
}

// CommentsResponse is a page of playlist comments.
type CommentsResponse struct {
	Response
	Comments    []models.Comment `json:"comments"`
	HotComments []models.Comment `json:"hotComments,omitempty"`
	Total       int              `json:"total"`
	More        bool             `json:"more"`
}
