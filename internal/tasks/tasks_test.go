package tasks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/store"
	tu "github.com/desertthunder/ncmx/internal/testing"
)

var errNetwork = errors.New("connection reset")

type harness struct {
	client *tu.MockClient
	engine *Engine

	mu  sync.Mutex
	log []actions.Action
}

func newHarness(t *testing.T, client *tu.MockClient, sessions SessionStore) *harness {
	t.Helper()
	st := store.New(store.NewState())
	h := &harness{client: client, engine: NewEngine(client, sessions, st, log.New(io.Discard))}
	h.engine.Subscribe(func(a actions.Action, _ store.State) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.log = append(h.log, a)
	})
	h.engine.Start(context.Background())
	t.Cleanup(func() {
		h.engine.Stop()
		st.Close()
	})
	return h
}

// dispatch puts a and waits for every task it started.
func (h *harness) dispatch(t *testing.T, a actions.Action) {
	t.Helper()
	if err := h.engine.Put(context.Background(), a); err != nil {
		t.Fatalf("Put(%s) failed: %v", a.Type(), err)
	}
	settle(t, h.engine)
}

func (h *harness) state() store.State { return h.engine.Select() }

func (h *harness) actions() []actions.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.log)
}

func (h *harness) count(typ actions.Type) int {
	n := 0
	for _, a := range h.actions() {
		if a.Type() == typ {
			n++
		}
	}
	return n
}

func (h *harness) index(match func(actions.Action) bool) int {
	return slices.IndexFunc(h.actions(), match)
}

func (h *harness) lastToast(t *testing.T) actions.Toast {
	t.Helper()
	toasts := h.state().Toasts
	if len(toasts) == 0 {
		t.Fatal("expected a toast")
	}
	return toasts[len(toasts)-1]
}

func assertToast(t *testing.T, got actions.Toast, kind actions.ToastKind, message string) {
	t.Helper()
	if got.Kind != kind || got.Message != message {
		t.Errorf("toast = {%s %q}, want {%s %q}", got.Kind, got.Message, kind, message)
	}
}

func ok() services.Response { return services.Response{Code: http.StatusOK} }

// orderedSessions records how many actions were committed when the session was saved.
type orderedSessions struct {
	h       *harness
	at      int
	cookie  string
	profile models.Profile
	err     error
}

func (s *orderedSessions) SaveSession(_ context.Context, _ string, profile models.Profile, cookie string) error {
	s.at = len(s.h.actions())
	s.cookie = cookie
	s.profile = profile
	return s.err
}

func TestLogin(t *testing.T) {
	t.Run("Success Order", func(t *testing.T) {
		client := &tu.MockClient{}
		client.SetCookies("MUSIC_U=abc")
		sessions := &orderedSessions{}
		h := newHarness(t, client, sessions)
		sessions.h = h

		h.dispatch(t, actions.LoginRequested{Username: " 13800138000 ", Password: "secret"})

		calls := client.Calls("Login")
		if len(calls) != 1 || calls[0].Args[0] != "13800138000" {
			t.Fatalf("expected trimmed username in Login call, got %+v", calls)
		}

		saved := h.index(func(a actions.Action) bool { return a.Type() == actions.TypeLoginSucceeded })
		toast := h.index(func(a actions.Action) bool {
			tt, ok := a.(actions.Toast)
			return ok && tt.Message == actions.MsgLoginSucceeded
		})
		if saved < 0 || toast < 0 {
			t.Fatalf("expected profile save and success toast, got %v", h.actions())
		}
		if !(saved < sessions.at && sessions.at <= toast) {
			t.Errorf("expected profile save (%d) < session save (%d) <= toast (%d)", saved, sessions.at, toast)
		}
		if sessions.cookie != "MUSIC_U=abc" {
			t.Errorf("expected session cookie to be persisted, got %q", sessions.cookie)
		}

		user := h.state().User
		if !user.LoggedIn || user.Username != "13800138000" || user.Loading {
			t.Errorf("unexpected user state %+v", user)
		}
		assertToast(t, h.lastToast(t), actions.ToastSuccess, actions.MsgLoginSucceeded)
	})

	t.Run("Empty Credentials", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
		}{
			{"empty username", "", "secret"},
			{"blank password", "user@163.com", "   "},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := &tu.MockClient{}
				h := newHarness(t, client, nil)

				h.dispatch(t, actions.LoginRequested{Username: tt.username, Password: tt.password})

				if client.CallCount("Login") != 0 {
					t.Error("expected no Login call")
				}
				if h.count(actions.LoadingStarted{Scope: actions.ScopeLogin}.Type()) != 0 {
					t.Error("expected no loading flag")
				}
				assertToast(t, h.lastToast(t), actions.ToastWarning, actions.MsgEmptyCredentials)
			})
		}
	})

	t.Run("Wrong Credentials", func(t *testing.T) {
		client := &tu.MockClient{
			LoginFunc: func(ctx context.Context, username, password string) (*services.LoginResponse, error) {
				return &services.LoginResponse{Response: services.Response{Code: 502, Message: "wrong password"}}, nil
			},
		}
		sessions := &tu.MockSessionStore{}
		h := newHarness(t, client, sessions)

		h.dispatch(t, actions.LoginRequested{Username: "user@163.com", Password: "bad"})

		assertToast(t, h.lastToast(t), actions.ToastWarning, actions.MsgWrongCredentials)
		if h.state().User.LoggedIn {
			t.Error("expected user to stay logged out")
		}
		if len(sessions.Saved()) != 0 {
			t.Error("expected no session to be saved")
		}
	})

	t.Run("Network Error", func(t *testing.T) {
		client := &tu.MockClient{
			LoginFunc: func(ctx context.Context, username, password string) (*services.LoginResponse, error) {
				return nil, errNetwork
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.LoginRequested{Username: "user@163.com", Password: "pw"})

		assertToast(t, h.lastToast(t), actions.ToastError, actions.MsgNetworkError)
		if h.state().User.Loading {
			t.Error("expected loading flag to be lowered")
		}
	})

	t.Run("Session Save Failure", func(t *testing.T) {
		client := &tu.MockClient{}
		h := newHarness(t, client, &tu.MockSessionStore{Err: errors.New("disk full")})

		h.dispatch(t, actions.LoginRequested{Username: "user@163.com", Password: "pw"})

		assertToast(t, h.lastToast(t), actions.ToastError, actions.MsgSessionSaveFailed)
		for _, toast := range h.state().Toasts {
			if toast.Message == actions.MsgLoginSucceeded {
				t.Error("expected no success toast")
			}
		}
		if !h.state().User.LoggedIn {
			t.Error("expected profile to be kept in state")
		}
	})
}

func searchClient(total int) *tu.MockClient {
	return &tu.MockClient{
		SearchFunc: func(ctx context.Context, query string, kind services.SearchType, limit, offset int) (*services.SearchResponse, error) {
			result := services.SearchResult{}
			switch kind {
			case services.SearchSong:
				result.Songs = tu.Tracks(int64(offset+1), limit)
				result.SongCount = total
			case services.SearchPlaylist:
				result.Playlists = tu.Playlists(int64(offset+1), limit)
				result.PlaylistCount = total
			case services.SearchAlbum:
				result.Albums = tu.Albums(int64(offset+1), limit)
				result.AlbumCount = total
			}
			return &services.SearchResponse{Response: ok(), Result: result}, nil
		},
	}
}

func TestSearch(t *testing.T) {
	t.Run("Query Fetches Active Tab", func(t *testing.T) {
		client := searchClient(100)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "  jay   chou "})

		calls := client.Calls("Search")
		if len(calls) != 1 {
			t.Fatalf("expected 1 search, got %d", len(calls))
		}
		if calls[0].Args[0] != "jay chou" || calls[0].Args[1] != services.SearchSong || calls[0].Args[3] != 0 {
			t.Errorf("unexpected search call %+v", calls[0].Args)
		}

		tab := h.state().Search.Tab(actions.SearchSong)
		if tab.Query != "jay chou" || len(tab.Results.Songs) != PageSize || !tab.More || tab.Loading {
			t.Errorf("unexpected tab state %+v", tab)
		}
	})

	t.Run("Unchanged Query Is Not Refetched", func(t *testing.T) {
		client := searchClient(100)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "jay"})
		h.dispatch(t, actions.SearchQueryChanged{Query: " jay "})
		h.dispatch(t, actions.SearchTabChanged{Tab: 0})

		if got := client.CallCount("Search"); got != 1 {
			t.Errorf("expected 1 search, got %d", got)
		}
	})

	t.Run("Empty Query Is Not Fetched", func(t *testing.T) {
		client := searchClient(100)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "   "})
		h.dispatch(t, actions.SearchMoreRequested{Kind: actions.SearchSong})

		if got := client.CallCount("Search"); got != 0 {
			t.Errorf("expected no search, got %d", got)
		}
	})

	t.Run("Tab Switch Searches New Kind", func(t *testing.T) {
		client := searchClient(100)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "jay"})
		h.dispatch(t, actions.SearchTabChanged{Tab: 1})

		calls := client.Calls("Search")
		if len(calls) != 2 || calls[1].Args[1] != services.SearchPlaylist {
			t.Fatalf("expected a playlist search, got %+v", calls)
		}

		playlists := h.state().Search.Tab(actions.SearchPlaylist).Results.Playlists
		if len(playlists) == 0 || !strings.HasSuffix(playlists[0].CoverImgURL, "?param="+CoverParam) {
			t.Errorf("expected sized covers, got %+v", playlists)
		}
	})

	t.Run("More Pages", func(t *testing.T) {
		client := searchClient(20)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "jay"})
		h.dispatch(t, actions.SearchMoreRequested{Kind: actions.SearchSong})

		calls := client.Calls("Search")
		if len(calls) != 2 || calls[1].Args[3] != PageSize {
			t.Fatalf("expected second page at offset %d, got %+v", PageSize, calls)
		}

		tab := h.state().Search.Tab(actions.SearchSong)
		if len(tab.Results.Songs) != 2*PageSize || tab.Offset != PageSize || tab.More {
			t.Errorf("unexpected tab after more: offset=%d more=%v songs=%d", tab.Offset, tab.More, len(tab.Results.Songs))
		}

		h.dispatch(t, actions.SearchMoreRequested{Kind: actions.SearchSong})
		if got := client.CallCount("Search"); got != 2 {
			t.Errorf("expected no fetch when exhausted, got %d calls", got)
		}
		assertToast(t, h.lastToast(t), actions.ToastInfo, actions.MsgNoMoreResources)
	})

	t.Run("Rejected Search Is Silent", func(t *testing.T) {
		client := &tu.MockClient{
			SearchFunc: func(ctx context.Context, query string, kind services.SearchType, limit, offset int) (*services.SearchResponse, error) {
				return &services.SearchResponse{Response: services.Response{Code: 400}}, nil
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SearchQueryChanged{Query: "jay"})

		if len(h.state().Toasts) != 0 {
			t.Errorf("expected no toast, got %+v", h.state().Toasts)
		}
		if h.state().Search.Tab(actions.SearchSong).Loading {
			t.Error("expected loading flag to be lowered")
		}
	})
}

func playlistClient(total int) *tu.MockClient {
	return &tu.MockClient{
		TopPlaylistsFunc: func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
			n := min(limit, max(total-offset, 0))
			return &services.TopPlaylistsResponse{
				Response:  ok(),
				Playlists: tu.Playlists(int64(offset+1), n),
				Total:     total,
				More:      offset+n < total,
			}, nil
		},
		NewAlbumsFunc: func(ctx context.Context, limit, offset int) (*services.NewAlbumsResponse, error) {
			n := min(limit, max(total-offset, 0))
			return &services.NewAlbumsResponse{Response: ok(), Albums: tu.Albums(int64(offset+1), n), Total: total}, nil
		},
	}
}

func TestPlaylists(t *testing.T) {
	t.Run("Refresh", func(t *testing.T) {
		client := playlistClient(40)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.PlaylistsRefreshRequested{})

		page := h.state().Playlists
		if len(page.Items) != PageSize || page.Offset != 0 || !page.More || page.Refreshing {
			t.Errorf("unexpected page %+v", page)
		}
		if !strings.HasSuffix(page.Items[0].CoverImgURL, "?param="+CoverParam) {
			t.Errorf("expected sized cover, got %s", page.Items[0].CoverImgURL)
		}
	})

	t.Run("Sync Empty List Loads First Page", func(t *testing.T) {
		client := playlistClient(40)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.PlaylistsSyncRequested{})

		calls := client.Calls("TopPlaylists")
		if len(calls) != 1 || calls[0].Args[1] != 0 {
			t.Fatalf("expected first page at offset 0, got %+v", calls)
		}
	})

	t.Run("Sync Appends Until Exhausted", func(t *testing.T) {
		client := playlistClient(20)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.PlaylistsRefreshRequested{})
		h.dispatch(t, actions.PlaylistsSyncRequested{})

		page := h.state().Playlists
		if len(page.Items) != 20 || page.Offset != PageSize || page.More || page.Loading {
			t.Errorf("unexpected page: items=%d offset=%d more=%v", len(page.Items), page.Offset, page.More)
		}
		if page.Items[PageSize].ID != PageSize+1 {
			t.Errorf("expected appended page to follow the first, got id %d", page.Items[PageSize].ID)
		}

		h.dispatch(t, actions.PlaylistsSyncRequested{})
		if got := client.CallCount("TopPlaylists"); got != 2 {
			t.Errorf("expected no fetch once exhausted, got %d calls", got)
		}
		assertToast(t, h.lastToast(t), actions.ToastInfo, actions.MsgNoMoreResources)
	})

	t.Run("Refresh Supersedes Running Refresh", func(t *testing.T) {
		var calls atomic.Int32
		entered := make(chan struct{})
		client := &tu.MockClient{
			TopPlaylistsFunc: func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
				if calls.Add(1) == 1 {
					close(entered)
					<-ctx.Done()
					return nil, ctx.Err()
				}
				return &services.TopPlaylistsResponse{Response: ok(), Playlists: tu.Playlists(100, limit), More: true}, nil
			},
		}
		h := newHarness(t, client, nil)

		if err := h.engine.Put(context.Background(), actions.PlaylistsRefreshRequested{}); err != nil {
			t.Fatal(err)
		}
		waitFor(t, entered)
		h.dispatch(t, actions.PlaylistsRefreshRequested{})

		page := h.state().Playlists
		if page.Refreshing {
			t.Error("expected refreshing flag to be lowered")
		}
		if len(page.Items) == 0 || page.Items[0].ID != 100 {
			t.Errorf("expected the latest refresh to win, got %+v", page.Items)
		}
		if len(h.state().Toasts) != 0 {
			t.Errorf("expected the canceled refresh to stay silent, got %+v", h.state().Toasts)
		}
	})

	t.Run("Sync Drops While Busy", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		client := &tu.MockClient{
			TopPlaylistsFunc: func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
				if calls.Add(1) == 1 {
					close(entered)
				}
				<-release
				return &services.TopPlaylistsResponse{Response: ok(), Playlists: tu.Playlists(1, limit), More: true}, nil
			},
		}
		h := newHarness(t, client, nil)

		h.engine.Put(context.Background(), actions.PlaylistsSyncRequested{})
		waitFor(t, entered)
		h.engine.Put(context.Background(), actions.PlaylistsSyncRequested{})
		close(release)
		settle(t, h.engine)

		if got := calls.Load(); got != 1 {
			t.Errorf("expected 1 fetch, got %d", got)
		}
	})

	t.Run("Network Error", func(t *testing.T) {
		client := &tu.MockClient{
			TopPlaylistsFunc: func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
				return nil, errNetwork
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.PlaylistsRefreshRequested{})

		assertToast(t, h.lastToast(t), actions.ToastError, actions.MsgNetworkError)
		if h.state().Playlists.Refreshing {
			t.Error("expected refreshing flag to be lowered")
		}
	})
}

func TestAlbums(t *testing.T) {
	client := playlistClient(18)
	h := newHarness(t, client, nil)

	h.dispatch(t, actions.AlbumsRefreshRequested{})
	page := h.state().Albums
	if len(page.Items) != PageSize || !page.More {
		t.Fatalf("expected a first page with more, got %d items more=%v", len(page.Items), page.More)
	}
	if !strings.HasSuffix(page.Items[0].PicURL, "?param="+CoverParam) {
		t.Errorf("expected sized cover, got %s", page.Items[0].PicURL)
	}

	h.dispatch(t, actions.AlbumsSyncRequested{})
	page = h.state().Albums
	if len(page.Items) != 18 || page.Offset != PageSize || page.More {
		t.Errorf("unexpected page: items=%d offset=%d more=%v", len(page.Items), page.Offset, page.More)
	}
}

func TestPlaylistDetail(t *testing.T) {
	t.Run("Loads And Caches", func(t *testing.T) {
		client := &tu.MockClient{}
		h := newHarness(t, client, nil)
		started := actions.LoadingStarted{Scope: actions.ScopeDetails}.Type()

		h.dispatch(t, actions.PlaylistDetailRequested{ID: 7})

		playlist, cached := h.state().Details.Playlist(7)
		if !cached || len(playlist.Tracks) != 2 {
			t.Fatalf("expected cached playlist with tracks, got %+v", playlist)
		}
		if !strings.HasSuffix(playlist.Tracks[0].Album.PicURL, "?param="+TrackCoverParam) {
			t.Errorf("expected sized track cover, got %s", playlist.Tracks[0].Album.PicURL)
		}
		if h.count(started) != 1 {
			t.Errorf("expected loading for an uncached playlist")
		}

		h.dispatch(t, actions.PlaylistDetailRequested{ID: 7})

		if client.CallCount("PlaylistDetail") != 2 {
			t.Error("expected cached playlists to be refreshed")
		}
		if h.count(started) != 1 {
			t.Error("expected no loading flag for a cached playlist")
		}
		if h.state().Details.Loading {
			t.Error("expected loading flag to be lowered")
		}
	})

	t.Run("Missing Tracks Not Saved", func(t *testing.T) {
		client := &tu.MockClient{
			PlaylistDetailFunc: func(ctx context.Context, id int64) (*services.PlaylistDetailResponse, error) {
				return &services.PlaylistDetailResponse{Response: ok(), Playlist: models.Playlist{ID: id, Name: "x"}}, nil
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.PlaylistDetailRequested{ID: 7})

		if _, cached := h.state().Details.Playlist(7); cached {
			t.Error("expected playlist without tracks not to be cached")
		}
		if len(h.state().Toasts) != 0 {
			t.Error("expected no toast")
		}
	})
}

func TestAlbumDetail(t *testing.T) {
	t.Run("Merges Info And Detail", func(t *testing.T) {
		client := &tu.MockClient{
			AlbumInfoFunc: func(ctx context.Context, id int64) (*services.AlbumInfoResponse, error) {
				return &services.AlbumInfoResponse{Response: ok(), Album: models.Album{ID: id, Name: "Fantasy"}, Songs: tu.Tracks(1, 3)}, nil
			},
			AlbumDetailFunc: func(ctx context.Context, id int64) (*services.AlbumDetailResponse, error) {
				return &services.AlbumDetailResponse{Response: ok(), Album: models.Album{ID: id, Description: "debut"}}, nil
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.AlbumDetailRequested{ID: 3})

		album, cached := h.state().Details.Album(3)
		if !cached {
			t.Fatal("expected album to be cached")
		}
		if album.Name != "Fantasy" || album.Description != "debut" || len(album.Songs) != 3 {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("Partial Failure Saves Nothing", func(t *testing.T) {
		client := &tu.MockClient{
			AlbumDetailFunc: func(ctx context.Context, id int64) (*services.AlbumDetailResponse, error) {
				return nil, errNetwork
			},
		}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.AlbumDetailRequested{ID: 3})

		if _, cached := h.state().Details.Album(3); cached {
			t.Error("expected nothing cached")
		}
		assertToast(t, h.lastToast(t), actions.ToastError, actions.MsgNetworkError)
		if h.state().Details.Loading {
			t.Error("expected loading flag to be lowered")
		}
	})
}

func TestSubscribe(t *testing.T) {
	detail := func(subscribed bool, count int) *tu.MockClient {
		return &tu.MockClient{
			PlaylistDetailFunc: func(ctx context.Context, id int64) (*services.PlaylistDetailResponse, error) {
				p := tu.PlaylistWithTracks(id, 1)
				p.Subscribed = subscribed
				p.SubscribedCount = count
				return &services.PlaylistDetailResponse{Response: ok(), Playlist: p}, nil
			},
		}
	}

	t.Run("Uncached Playlist", func(t *testing.T) {
		client := &tu.MockClient{}
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.SubscribeToggled{ID: 9})

		if client.CallCount("SubscribePlaylist") != 0 {
			t.Error("expected no subscribe call")
		}
		assertToast(t, h.lastToast(t), actions.ToastWarning, actions.MsgPlaylistNotLoaded)
	})

	t.Run("Toggle Round Trip", func(t *testing.T) {
		client := detail(false, 10)
		h := newHarness(t, client, nil)
		h.dispatch(t, actions.PlaylistDetailRequested{ID: 9})

		h.dispatch(t, actions.SubscribeToggled{ID: 9})
		p, _ := h.state().Details.Playlist(9)
		if !p.Subscribed || p.SubscribedCount != 11 {
			t.Errorf("after subscribe: subscribed=%v count=%d", p.Subscribed, p.SubscribedCount)
		}

		h.dispatch(t, actions.SubscribeToggled{ID: 9})
		p, _ = h.state().Details.Playlist(9)
		if p.Subscribed || p.SubscribedCount != 10 {
			t.Errorf("after unsubscribe: subscribed=%v count=%d", p.Subscribed, p.SubscribedCount)
		}

		calls := client.Calls("SubscribePlaylist")
		if len(calls) != 2 || calls[0].Args[1] != true || calls[1].Args[1] != false {
			t.Errorf("unexpected subscribe calls %+v", calls)
		}
		if h.state().Details.Subscribing {
			t.Error("expected subscribing flag to be lowered")
		}
	})

	t.Run("Count Floors At Zero", func(t *testing.T) {
		h := newHarness(t, detail(true, 0), nil)
		h.dispatch(t, actions.PlaylistDetailRequested{ID: 9})

		h.dispatch(t, actions.SubscribeToggled{ID: 9})

		p, _ := h.state().Details.Playlist(9)
		if p.Subscribed || p.SubscribedCount != 0 {
			t.Errorf("subscribed=%v count=%d, want false 0", p.Subscribed, p.SubscribedCount)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		client := detail(false, 10)
		client.SubscribeFunc = func(ctx context.Context, id int64, subscribe bool) (*services.Response, error) {
			return &services.Response{Code: 401}, nil
		}
		h := newHarness(t, client, nil)
		h.dispatch(t, actions.PlaylistDetailRequested{ID: 9})

		h.dispatch(t, actions.SubscribeToggled{ID: 9})

		p, _ := h.state().Details.Playlist(9)
		if p.Subscribed || p.SubscribedCount != 10 {
			t.Errorf("expected playlist unchanged, got subscribed=%v count=%d", p.Subscribed, p.SubscribedCount)
		}
		assertToast(t, h.lastToast(t), actions.ToastWarning, actions.MsgSubscribeRejected)
	})
}

func TestComments(t *testing.T) {
	newClient := func(total int) *tu.MockClient {
		return &tu.MockClient{
			CommentsFunc: func(ctx context.Context, id int64, limit, offset int) (*services.CommentsResponse, error) {
				n := min(limit, max(total-offset, 0))
				resp := &services.CommentsResponse{
					Response: ok(),
					Comments: tu.Comments(int64(offset+1), n),
					Total:    total,
					More:     offset+n < total,
				}
				if offset == 0 {
					resp.HotComments = tu.Comments(1000, 2)
				}
				return resp, nil
			},
		}
	}

	t.Run("Pages Advance By Offset", func(t *testing.T) {
		client := newClient(120)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})

		calls := client.Calls("Comments")
		for i, want := range []int{0, CommentPageSize, 2 * CommentPageSize} {
			if calls[i].Args[2] != want {
				t.Errorf("call %d offset = %v, want %d", i, calls[i].Args[2], want)
			}
		}

		thread, _ := h.state().Comments.Thread(5)
		if len(thread.Comments) != 120 || thread.Offset != 3*CommentPageSize || thread.More || thread.Total != 120 {
			t.Errorf("unexpected thread: comments=%d offset=%d more=%v", len(thread.Comments), thread.Offset, thread.More)
		}
		if len(thread.HotComments) != 2 {
			t.Errorf("expected hot comments to be kept, got %d", len(thread.HotComments))
		}

		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		if len(client.Calls("Comments")) != 3 {
			t.Error("expected no fetch once exhausted")
		}
		assertToast(t, h.lastToast(t), actions.ToastInfo, actions.MsgNoMoreResources)
	})

	t.Run("Refresh Restarts Thread", func(t *testing.T) {
		client := newClient(120)
		h := newHarness(t, client, nil)

		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		h.dispatch(t, actions.CommentsSyncRequested{ID: 5, Refresh: true})

		calls := client.Calls("Comments")
		if got := calls[len(calls)-1].Args[2]; got != 0 {
			t.Errorf("expected refresh at offset 0, got %v", got)
		}
		thread, _ := h.state().Comments.Thread(5)
		if len(thread.Comments) != CommentPageSize || thread.Offset != CommentPageSize {
			t.Errorf("unexpected thread after refresh: comments=%d offset=%d", len(thread.Comments), thread.Offset)
		}
	})

	t.Run("Loading Only When Uncached", func(t *testing.T) {
		h := newHarness(t, newClient(120), nil)
		started := actions.LoadingStarted{Scope: actions.ScopeComments}.Type()

		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		h.dispatch(t, actions.CommentsSyncRequested{ID: 5})
		if h.count(started) != 1 {
			t.Errorf("expected 1 loading start, got %d", h.count(started))
		}

		h.dispatch(t, actions.CommentsSyncRequested{ID: 5, Loading: true})
		if h.count(started) != 2 {
			t.Errorf("expected explicit loading to raise the flag, got %d", h.count(started))
		}
		if h.state().Comments.Loading {
			t.Error("expected loading flag to be lowered")
		}
	})
}

func TestEngineStop(t *testing.T) {
	entered := make(chan struct{})
	client := &tu.MockClient{
		TopPlaylistsFunc: func(ctx context.Context, limit, offset int) (*services.TopPlaylistsResponse, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	h := newHarness(t, client, nil)

	h.engine.Put(context.Background(), actions.PlaylistsRefreshRequested{})
	waitFor(t, entered)
	h.engine.Stop()

	if h.state().Playlists.Refreshing {
		t.Error("expected refreshing flag to be lowered on stop")
	}
	if len(h.state().Toasts) != 0 {
		t.Errorf("expected canceled task to stay silent, got %+v", h.state().Toasts)
	}
}
