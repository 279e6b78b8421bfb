package store

import (
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

// Reduce returns the state after applying a. Actions without a reducer return s unchanged.
//
// s is never mutated: any map or slice that changes is replaced by a copy.
func Reduce(s State, a actions.Action) State {
	switch a := a.(type) {
	case actions.LoadingStarted:
		return setLoading(s, a.Scope, true)
	case actions.LoadingEnded:
		return setLoading(s, a.Scope, false)

	case actions.LoginSucceeded:
		s.User = UserState{
			Loading:  s.User.Loading,
			LoggedIn: true,
			Username: a.Username,
			Profile:  a.Profile,
		}

	case actions.SearchQueryChanged:
		s.Search.Input = a.Query
	case actions.SearchTabChanged:
		s.Search.ActiveTab = clampTab(a.Tab)
	case actions.SearchQueryCommitted:
		tab := s.Search.Tab(a.Kind)
		tab.Query = shared.NormalizeQuery(s.Search.Input)
		s.Search = withTab(s.Search, a.Kind, tab)
	case actions.SearchSaved:
		tab := s.Search.Tab(a.Kind)
		if tab.Query != a.Query {
			return s
		}
		tab.Results = a.Results
		tab.Offset = a.Offset
		tab.More = a.More
		s.Search = withTab(s.Search, a.Kind, tab)

	case actions.PlaylistsSaved:
		s.Playlists.Items = a.Items
		s.Playlists.Offset = a.Offset
		s.Playlists.More = a.More
	case actions.AlbumsSaved:
		s.Albums.Items = a.Items
		s.Albums.Offset = a.Offset
		s.Albums.More = a.More

	case actions.PlaylistDetailSaved:
		playlists := maps.Clone(s.Details.Playlists)
		if playlists == nil {
			playlists = map[int64]models.Playlist{}
		}
		playlists[a.ID] = a.Playlist
		s.Details.Playlists = playlists
	case actions.AlbumDetailSaved:
		albums := maps.Clone(s.Details.Albums)
		if albums == nil {
			albums = map[int64]models.Album{}
		}
		albums[a.ID] = a.Album
		s.Details.Albums = albums

	case actions.CommentsSaved:
		threads := maps.Clone(s.Comments.Threads)
		if threads == nil {
			threads = map[int64]models.CommentThread{}
		}
		threads[a.ID] = a.Thread
		s.Comments.Threads = threads

	case actions.Toast:
		toasts := slices.Concat(s.Toasts, []actions.Toast{a})
		if len(toasts) > MaxToasts {
			toasts = toasts[len(toasts)-MaxToasts:]
		}
		s.Toasts = toasts
	}

	return s
}

func setLoading(s State, scope actions.Scope, on bool) State {
	switch scope {
	case actions.ScopeLogin:
		s.User.Loading = on
	case actions.ScopePlaylistsRefresh:
		s.Playlists.Refreshing = on
	case actions.ScopePlaylistsSync:
		s.Playlists.Loading = on
	case actions.ScopeAlbumsRefresh:
		s.Albums.Refreshing = on
	case actions.ScopeAlbumsSync:
		s.Albums.Loading = on
	case actions.ScopeDetails:
		s.Details.Loading = on
	case actions.ScopeSubscribe:
		s.Details.Subscribing = on
	case actions.ScopeComments:
		s.Comments.Loading = on
	default:
		name, ok := strings.CutPrefix(string(scope), "search/")
		if !ok {
			return s
		}
		kind, err := actions.ParseSearchKind(name)
		if err != nil {
			return s
		}
		tab := s.Search.Tab(kind)
		tab.Loading = on
		s.Search = withTab(s.Search, kind, tab)
	}
	return s
}

func withTab(search SearchState, kind actions.SearchKind, tab SearchTab) SearchState {
	tabs := maps.Clone(search.Tabs)
	if tabs == nil {
		tabs = make(map[actions.SearchKind]SearchTab, 1)
	}
	tabs[kind] = tab
	search.Tabs = tabs
	return search
}

func clampTab(tab int) int {
	return max(0, min(tab, len(actions.SearchKinds)-1))
}
