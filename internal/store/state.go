package store

import (
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
)

// MaxToasts is how many recent notifications the state keeps.
const MaxToasts = 20

// State is the root of the state tree.
type State struct {
	User      UserState             `json:"user"`
	Playlists Page[models.Playlist] `json:"playlists"`
	Albums    Page[models.Album]    `json:"albums"`
	Search    SearchState           `json:"search"`
	Details   DetailsState          `json:"details"`
	Comments  CommentsState         `json:"comments"`
	Toasts    []actions.Toast       `json:"toasts"`
}

// UserState is the logged in account.
type UserState struct {
	Loading  bool           `json:"loading"`
	LoggedIn bool           `json:"loggedIn"`
	Username string         `json:"username,omitempty"`
	Profile  models.Profile `json:"profile"`
}

// Page is a paginated list with its cursor.
//
// Offset is the offset of the last page fetched. More mirrors the server's flag.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Offset     int  `json:"offset"`
	More       bool `json:"more"`
	Loading    bool `json:"loading"`
	Refreshing bool `json:"refreshing"`
}

// SearchState holds the search box and one result page per tab.
type SearchState struct {
	Input     string                           `json:"input"`
	ActiveTab int                              `json:"activeTab"`
	Tabs      map[actions.SearchKind]SearchTab `json:"tabs"`
}

// Tab returns the state of one tab.
func (s SearchState) Tab(kind actions.SearchKind) SearchTab {
	if tab, ok := s.Tabs[kind]; ok {
		return tab
	}
	return SearchTab{More: true}
}

// SearchTab is the committed query of one tab and its results.
type SearchTab struct {
	Query   string               `json:"query"`
	Results models.SearchResults `json:"results"`
	Offset  int                  `json:"offset"`
	More    bool                 `json:"more"`
	Loading bool                 `json:"loading"`
}

// DetailsState caches playlist and album details by id.
type DetailsState struct {
	Loading     bool                      `json:"loading"`
	Subscribing bool                      `json:"subscribing"`
	Playlists   map[int64]models.Playlist `json:"playlists"`
	Albums      map[int64]models.Album    `json:"albums"`
}

// Playlist returns the cached detail and whether it is populated.
func (d DetailsState) Playlist(id int64) (models.Playlist, bool) {
	p, ok := d.Playlists[id]
	return p, ok && !p.IsEmpty()
}

// Album returns the cached detail and whether it is populated.
func (d DetailsState) Album(id int64) (models.Album, bool) {
	a, ok := d.Albums[id]
	return a, ok && !a.IsEmpty()
}

// CommentsState caches comment threads by playlist id.
type CommentsState struct {
	Loading bool                           `json:"loading"`
	Threads map[int64]models.CommentThread `json:"threads"`
}

// Thread returns the cached thread and whether one exists.
func (c CommentsState) Thread(id int64) (models.CommentThread, bool) {
	t, ok := c.Threads[id]
	return t, ok
}

// NewState returns the initial state: empty caches and every list ready for its first page.
func NewState() State {
	tabs := make(map[actions.SearchKind]SearchTab, len(actions.SearchKinds))
	for _, kind := range actions.SearchKinds {
		tabs[kind] = SearchTab{More: true}
	}

	return State{
		Playlists: Page[models.Playlist]{Items: []models.Playlist{}, More: true},
		Albums:    Page[models.Album]{Items: []models.Album{}, More: true},
		Search:    SearchState{Tabs: tabs},
		Details: DetailsState{
			Playlists: map[int64]models.Playlist{},
			Albums:    map[int64]models.Album{},
		},
		Comments: CommentsState{Threads: map[int64]models.CommentThread{}},
		Toasts:   []actions.Toast{},
	}
}
