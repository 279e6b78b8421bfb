package actions

import (
	"fmt"

	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
)

// Type is the routing key of an action.
type Type string

// Action is any event that can be put to the runtime or dispatched to the store.
type Action interface {
	Type() Type
}

// Fixed action types. Search types depend on the kind; see [SearchKind.RequestType].
const (
	TypeLogin          Type = "user/login"
	TypeLoginSucceeded Type = "user/login/success"

	TypeSearchQuery     Type = "search/query"
	TypeSearchActiveTab Type = "search/activeTab"

	TypePlaylistsRefresh Type = "playlists/refresh"
	TypePlaylistsSync    Type = "playlists/sync"
	TypePlaylistsSave    Type = "playlists/save"

	TypeAlbumsRefresh Type = "albums/refresh"
	TypeAlbumsSync    Type = "albums/sync"
	TypeAlbumsSave    Type = "albums/save"
	TypeAlbumDetail   Type = "albums/detail"

	TypePlaylistDetail     Type = "details/playlist"
	TypePlaylistDetailSave Type = "details/playlist/save"
	TypeAlbumDetailSave    Type = "details/album/save"
	TypeSubscribe          Type = "details/playlist/subscribe"

	TypeCommentsSync Type = "comments/sync"
	TypeCommentsSave Type = "comments/sync/save"

	TypeToast Type = "ui/toast"
)

// Scope names a loading flag. Its start and end actions are "<scope>/start" and "<scope>/end".
type Scope string

const (
	ScopeLogin            Scope = "user/login"
	ScopePlaylistsRefresh Scope = "playlists/refresh"
	ScopePlaylistsSync    Scope = "playlists/sync"
	ScopeAlbumsRefresh    Scope = "albums/refresh"
	ScopeAlbumsSync       Scope = "albums/sync"
	ScopeDetails          Scope = "details/playlist"
	ScopeSubscribe        Scope = "details/subscribe"
	ScopeComments         Scope = "comments/sync"
)

// SearchScope is the loading scope of one search tab.
func SearchScope(kind SearchKind) Scope {
	return Scope("search/" + kind.String())
}

// SearchKind is a search tab. Values follow tab order.
type SearchKind int

const (
	SearchSong SearchKind = iota
	SearchPlaylist
	SearchArtist
	SearchAlbum
)

// SearchKinds lists every kind in tab order.
var SearchKinds = []SearchKind{SearchSong, SearchPlaylist, SearchArtist, SearchAlbum}

func (k SearchKind) String() string {
	switch k {
	case SearchSong:
		return "song"
	case SearchPlaylist:
		return "playlist"
	case SearchArtist:
		return "artist"
	case SearchAlbum:
		return "album"
	default:
		return ""
	}
}

// MarshalText encodes the kind by name, so that maps keyed by kind read well as JSON.
func (k SearchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SearchKind) UnmarshalText(text []byte) error {
	kind, err := ParseSearchKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// SearchType maps the tab to the NetEase search type code.
func (k SearchKind) SearchType() services.SearchType {
	switch k {
	case SearchPlaylist:
		return services.SearchPlaylist
	case SearchArtist:
		return services.SearchArtist
	case SearchAlbum:
		return services.SearchAlbum
	default:
		return services.SearchSong
	}
}

// RequestType is "search/<kind>".
func (k SearchKind) RequestType() Type { return Type("search/" + k.String()) }

// MoreType is "search/<kind>/more".
func (k SearchKind) MoreType() Type { return k.RequestType() + "/more" }

// QueryType is "search/<kind>/query".
func (k SearchKind) QueryType() Type { return k.RequestType() + "/query" }

// SaveType is "search/<kind>/save".
func (k SearchKind) SaveType() Type { return k.RequestType() + "/save" }

// ParseSearchKind resolves a kind from its name.
func ParseSearchKind(name string) (SearchKind, error) {
	for _, k := range SearchKinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown search kind %q", shared.ErrInvalidInput, name)
}

// SearchKindAt returns the kind shown on tab. Out of range tabs fall back to songs.
func SearchKindAt(tab int) SearchKind {
	if tab < 0 || tab >= len(SearchKinds) {
		return SearchSong
	}
	return SearchKinds[tab]
}

// ToastKind is the severity of a notification.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastWarning
	ToastError
	ToastInfo
)

func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	case ToastInfo:
		return "info"
	default:
		return ""
	}
}

// MarshalText encodes the kind by name in JSON snapshots.
func (k ToastKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ToastKind) UnmarshalText(text []byte) error {
	for _, kind := range []ToastKind{ToastSuccess, ToastWarning, ToastError, ToastInfo} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: unknown toast kind %q", shared.ErrInvalidInput, text)
}

// Toast messages.
const (
	MsgLoginSucceeded    = "logged in successfully"
	MsgWrongCredentials  = "wrong account or password"
	MsgEmptyCredentials  = "account or password cannot be empty"
	MsgNetworkError      = "network error..."
	MsgNoMoreResources   = "no more resources"
	MsgSessionSaveFailed = "could not save session"
	MsgSubscribeRejected = "subscription change was rejected"
	MsgPlaylistNotLoaded = "playlist details are not loaded yet"
	MsgUnexpectedError   = "something went wrong"
)

// LoginRequested asks the login flow to authenticate.
type LoginRequested struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (LoginRequested) Type() Type { return TypeLogin }

// LoginSucceeded stores the logged in profile.
type LoginSucceeded struct {
	Username string         `json:"username"`
	Profile  models.Profile `json:"profile"`
}

func (LoginSucceeded) Type() Type { return TypeLoginSucceeded }

// SearchQueryChanged carries the text typed into the search box.
type SearchQueryChanged struct {
	Query string `json:"query"`
}

func (SearchQueryChanged) Type() Type { return TypeSearchQuery }

// SearchTabChanged switches the active search tab.
type SearchTabChanged struct {
	Tab int `json:"tab"`
}

func (SearchTabChanged) Type() Type { return TypeSearchActiveTab }

// SearchQueryCommitted copies the typed text into the query of one tab.
type SearchQueryCommitted struct {
	Kind SearchKind `json:"kind"`
}

func (a SearchQueryCommitted) Type() Type { return a.Kind.QueryType() }

// SearchRequested fetches the first page of a tab.
type SearchRequested struct {
	Kind SearchKind `json:"kind"`
}

func (a SearchRequested) Type() Type { return a.Kind.RequestType() }

// SearchMoreRequested appends the next page of a tab.
type SearchMoreRequested struct {
	Kind SearchKind `json:"kind"`
}

func (a SearchMoreRequested) Type() Type { return a.Kind.MoreType() }

// SearchSaved replaces the results of a tab.
type SearchSaved struct {
	Kind    SearchKind           `json:"kind"`
	Query   string               `json:"query"`
	Results models.SearchResults `json:"results"`
	Offset  int                  `json:"offset"`
	More    bool                 `json:"more"`
}

func (a SearchSaved) Type() Type { return a.Kind.SaveType() }

type PlaylistsRefreshRequested struct{}

func (PlaylistsRefreshRequested) Type() Type { return TypePlaylistsRefresh }

type PlaylistsSyncRequested struct{}

func (PlaylistsSyncRequested) Type() Type { return TypePlaylistsSync }

// PlaylistsSaved replaces the top playlists page.
type PlaylistsSaved struct {
	Items  []models.Playlist `json:"items"`
	Offset int               `json:"offset"`
	More   bool              `json:"more"`
}

func (PlaylistsSaved) Type() Type { return TypePlaylistsSave }

type AlbumsRefreshRequested struct{}

func (AlbumsRefreshRequested) Type() Type { return TypeAlbumsRefresh }

type AlbumsSyncRequested struct{}

func (AlbumsSyncRequested) Type() Type { return TypeAlbumsSync }

// AlbumsSaved replaces the new albums page.
type AlbumsSaved struct {
	Items  []models.Album `json:"items"`
	Offset int            `json:"offset"`
	More   bool           `json:"more"`
}

func (AlbumsSaved) Type() Type { return TypeAlbumsSave }

type AlbumDetailRequested struct {
	ID int64 `json:"id"`
}

func (AlbumDetailRequested) Type() Type { return TypeAlbumDetail }

type AlbumDetailSaved struct {
	ID    int64        `json:"id"`
	Album models.Album `json:"album"`
}

func (AlbumDetailSaved) Type() Type { return TypeAlbumDetailSave }

type PlaylistDetailRequested struct {
	ID int64 `json:"id"`
}

func (PlaylistDetailRequested) Type() Type { return TypePlaylistDetail }

type PlaylistDetailSaved struct {
	ID       int64           `json:"id"`
	Playlist models.Playlist `json:"playlist"`
}

func (PlaylistDetailSaved) Type() Type { return TypePlaylistDetailSave }

// SubscribeToggled flips the subscription of a cached playlist.
type SubscribeToggled struct {
	ID int64 `json:"id"`
}

func (SubscribeToggled) Type() Type { return TypeSubscribe }

// CommentsSyncRequested loads the next page of comments.
//
// Loading forces the loading flag on for cached threads; Refresh restarts from the first page.
type CommentsSyncRequested struct {
	ID      int64 `json:"id"`
	Loading bool  `json:"loading,omitempty"`
	Refresh bool  `json:"refresh,omitempty"`
}

func (CommentsSyncRequested) Type() Type { return TypeCommentsSync }

type CommentsSaved struct {
	ID     int64                `json:"id"`
	Thread models.CommentThread `json:"thread"`
}

func (CommentsSaved) Type() Type { return TypeCommentsSave }

// LoadingStarted raises the loading flag of a scope.
type LoadingStarted struct {
	Scope Scope `json:"scope"`
}

func (a LoadingStarted) Type() Type { return Type(a.Scope + "/start") }

// LoadingEnded clears the loading flag of a scope.
type LoadingEnded struct {
	Scope Scope `json:"scope"`
}

func (a LoadingEnded) Type() Type { return Type(a.Scope + "/end") }

// Toast is a user-facing notification.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

func (Toast) Type() Type { return TypeToast }

// NewToast builds a [Toast].
func NewToast(kind ToastKind, message string) Toast {
	return Toast{Kind: kind, Message: message}
}
