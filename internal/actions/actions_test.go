package actions

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
)

func TestSearchKind(t *testing.T) {
	tests := []struct {
		kind       SearchKind
		name       string
		searchType services.SearchType
	}{
		{kind: SearchSong, name: "song", searchType: services.SearchSong},
		{kind: SearchPlaylist, name: "playlist", searchType: services.SearchPlaylist},
		{kind: SearchArtist, name: "artist", searchType: services.SearchArtist},
		{kind: SearchAlbum, name: "album", searchType: services.SearchAlbum},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.kind.String(), tt.name)
			}
			if tt.kind.SearchType() != tt.searchType {
				t.Errorf("SearchType() = %d, want %d", tt.kind.SearchType(), tt.searchType)
			}
			if SearchKindAt(i) != tt.kind {
				t.Errorf("SearchKindAt(%d) = %v, want %v", i, SearchKindAt(i), tt.kind)
			}

			parsed, err := ParseSearchKind(tt.name)
			if err != nil || parsed != tt.kind {
				t.Errorf("ParseSearchKind(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	t.Run("Types", func(t *testing.T) {
		if SearchPlaylist.RequestType() != "search/playlist" {
			t.Errorf("unexpected request type %s", SearchPlaylist.RequestType())
		}
		if SearchPlaylist.MoreType() != "search/playlist/more" {
			t.Errorf("unexpected more type %s", SearchPlaylist.MoreType())
		}
		if SearchPlaylist.QueryType() != "search/playlist/query" {
			t.Errorf("unexpected query type %s", SearchPlaylist.QueryType())
		}
	})

	t.Run("Out Of Range Tab", func(t *testing.T) {
		if SearchKindAt(9) != SearchSong || SearchKindAt(-1) != SearchSong {
			t.Error("expected out of range tabs to fall back to songs")
		}
	})

	t.Run("Unknown Name", func(t *testing.T) {
		if _, err := ParseSearchKind("video"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestLoadingTypes(t *testing.T) {
	if (LoadingStarted{Scope: ScopeComments}).Type() != "comments/sync/start" {
		t.Error("unexpected start type")
	}
	if (LoadingEnded{Scope: SearchScope(SearchAlbum)}).Type() != "search/album/end" {
		t.Error("unexpected end type")
	}
}

func TestToastKindText(t *testing.T) {
	data, err := json.Marshal(NewToast(ToastWarning, MsgWrongCredentials))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"kind":"warning","message":"wrong account or password"}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var toast Toast
	if err := json.Unmarshal(data, &toast); err != nil || toast.Kind != ToastWarning {
		t.Errorf("round trip failed: %+v, %v", toast, err)
	}

	if err := json.Unmarshal([]byte(`{"kind":"fatal"}`), &toast); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		payload string
		want    Action
	}{
		{name: "login", typ: TypeLogin, payload: `{"username":"u","password":"p"}`, want: LoginRequested{Username: "u", Password: "p"}},
		{name: "query", typ: TypeSearchQuery, payload: `{"query":"晴天"}`, want: SearchQueryChanged{Query: "晴天"}},
		{name: "tab", typ: TypeSearchActiveTab, payload: `{"tab":2}`, want: SearchTabChanged{Tab: 2}},
		{name: "playlists sync", typ: TypePlaylistsSync, want: PlaylistsSyncRequested{}},
		{name: "albums refresh", typ: TypeAlbumsRefresh, payload: `null`, want: AlbumsRefreshRequested{}},
		{name: "album detail", typ: TypeAlbumDetail, payload: `{"id":5}`, want: AlbumDetailRequested{ID: 5}},
		{name: "playlist detail", typ: TypePlaylistDetail, payload: `{"id":7}`, want: PlaylistDetailRequested{ID: 7}},
		{name: "subscribe", typ: TypeSubscribe, payload: `{"id":7}`, want: SubscribeToggled{ID: 7}},
		{name: "comments", typ: TypeCommentsSync, payload: `{"id":7,"refresh":true}`, want: CommentsSyncRequested{ID: 7, Refresh: true}},
		{name: "search kind", typ: "search/artist", want: SearchRequested{Kind: SearchArtist}},
		{name: "search more", typ: "search/album/more", want: SearchMoreRequested{Kind: SearchAlbum}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.typ, json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
			if got.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", got.Type(), tt.typ)
			}
		})
	}

	t.Run("Unknown Type", func(t *testing.T) {
		for _, typ := range []Type{"ui/toast", "search/video", "playlists/save"} {
			if _, err := Decode(typ, nil); !errors.Is(err, shared.ErrUnknownAction) {
				t.Errorf("Decode(%s) expected ErrUnknownAction, got %v", typ, err)
			}
		}
	})

	t.Run("Bad Payload", func(t *testing.T) {
		if _, err := Decode(TypeLogin, json.RawMessage(`{"username":1}`)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
