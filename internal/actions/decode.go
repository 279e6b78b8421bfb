package actions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/ncmx/internal/shared"
)

// Decode builds an inbound action from its type and JSON payload.
//
// Only actions that start tasks can be decoded; state patches are produced by tasks alone.
// An empty payload decodes to the zero value.
func Decode(typ Type, payload json.RawMessage) (Action, error) {
	switch typ {
	case TypeLogin:
		return decodeInto[LoginRequested](typ, payload)
	case TypeSearchQuery:
		return decodeInto[SearchQueryChanged](typ, payload)
	case TypeSearchActiveTab:
		return decodeInto[SearchTabChanged](typ, payload)
	case TypePlaylistsRefresh:
		return PlaylistsRefreshRequested{}, nil
	case TypePlaylistsSync:
		return PlaylistsSyncRequested{}, nil
	case TypeAlbumsRefresh:
		return AlbumsRefreshRequested{}, nil
	case TypeAlbumsSync:
		return AlbumsSyncRequested{}, nil
	case TypeAlbumDetail:
		return decodeInto[AlbumDetailRequested](typ, payload)
	case TypePlaylistDetail:
		return decodeInto[PlaylistDetailRequested](typ, payload)
	case TypeSubscribe:
		return decodeInto[SubscribeToggled](typ, payload)
	case TypeCommentsSync:
		return decodeInto[CommentsSyncRequested](typ, payload)
	}

	if rest, ok := strings.CutPrefix(string(typ), "search/"); ok {
		name, more := strings.CutSuffix(rest, "/more")
		if kind, err := ParseSearchKind(name); err == nil {
			if more {
				return SearchMoreRequested{Kind: kind}, nil
			}
			return SearchRequested{Kind: kind}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", shared.ErrUnknownAction, typ)
}

func decodeInto[T Action](typ Type, payload json.RawMessage) (Action, error) {
	var action T
	if len(payload) == 0 || string(payload) == "null" {
		return action, nil
	}
	if err := json.Unmarshal(payload, &action); err != nil {
		return nil, fmt.Errorf("%w: payload for %s: %v", shared.ErrInvalidInput, typ, err)
	}
	return action, nil
}
