package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/store"
)

// resource describes a paginated list kept in the store.
type resource[T any] struct {
	name         string
	refreshScope actions.Scope
	syncScope    actions.Scope

	fetch   func(ctx context.Context, limit, offset int) (items []T, more bool, err error)
	page    func(store.State) store.Page[T]
	save    func(items []T, offset int, more bool) actions.Action
	rewrite func(*T)
}

func (r resource[T]) load(ctx context.Context, offset int) ([]T, bool, error) {
	items, more, err := r.fetch(ctx, PageSize, offset)
	if err != nil {
		return nil, false, err
	}
	if r.rewrite != nil {
		items = slices.Clone(items)
		for i := range items {
			r.rewrite(&items[i])
		}
	}
	return items, more, nil
}

// refreshResource replaces the list with its first page.
func refreshResource[T any](e *Engine, r resource[T]) Handler {
	return func(ctx context.Context, _ actions.Action) {
		e.startLoading(ctx, r.refreshScope)
		defer e.endLoading(ctx, r.refreshScope)

		items, more, err := r.load(ctx, 0)
		if err != nil {
			e.fail(ctx, r.name+" refresh", err)
			return
		}

		e.put(ctx, r.save(items, 0, more))
	}
}

// syncMoreResource appends the next page. An empty list loads its first page instead.
func syncMoreResource[T any](e *Engine, r resource[T]) Handler {
	return func(ctx context.Context, _ actions.Action) {
		e.startLoading(ctx, r.syncScope)
		defer e.endLoading(ctx, r.syncScope)

		prev := r.page(e.runtime.Select())
		if !prev.More {
			e.toast(ctx, actions.ToastInfo, actions.MsgNoMoreResources)
			return
		}

		offset := 0
		if len(prev.Items) > 0 {
			offset = prev.Offset + PageSize
		}

		items, more, err := r.load(ctx, offset)
		if err != nil {
			e.fail(ctx, r.name+" sync", err)
			return
		}

		e.put(ctx, r.save(slices.Concat(prev.Items, items), offset, more))
	}
}

func topPlaylists(client services.Client) resource[models.Playlist] {
	return resource[models.Playlist]{
		name:         "playlists",
		refreshScope: actions.ScopePlaylistsRefresh,
		syncScope:    actions.ScopePlaylistsSync,
		fetch: func(ctx context.Context, limit, offset int) ([]models.Playlist, bool, error) {
			resp, err := client.TopPlaylists(ctx, limit, offset)
			if err != nil {
				return nil, false, err
			}
			if !resp.OK() {
				return nil, false, fmt.Errorf("%w: top playlists returned %d", shared.ErrUnexpectedStatus, resp.Code)
			}
			return resp.Playlists, resp.More, nil
		},
		page: func(s store.State) store.Page[models.Playlist] { return s.Playlists },
		save: func(items []models.Playlist, offset int, more bool) actions.Action {
			return actions.PlaylistsSaved{Items: items, Offset: offset, More: more}
		},
		rewrite: func(p *models.Playlist) {
			p.CoverImgURL = shared.WithImageParam(p.CoverImgURL, CoverParam)
		},
	}
}

func newAlbums(client services.Client) resource[models.Album] {
	return resource[models.Album]{
		name:         "albums",
		refreshScope: actions.ScopeAlbumsRefresh,
		syncScope:    actions.ScopeAlbumsSync,
		fetch: func(ctx context.Context, limit, offset int) ([]models.Album, bool, error) {
			resp, err := client.NewAlbums(ctx, limit, offset)
			if err != nil {
				return nil, false, err
			}
			if !resp.OK() {
				return nil, false, fmt.Errorf("%w: new albums returned %d", shared.ErrUnexpectedStatus, resp.Code)
			}
			return resp.Albums, resp.HasMore(offset), nil
		},
		page: func(s store.State) store.Page[models.Album] { return s.Albums },
		save: func(items []models.Album, offset int, more bool) actions.Action {
			return actions.AlbumsSaved{Items: items, Offset: offset, More: more}
		},
		rewrite: func(a *models.Album) {
			a.PicURL = shared.WithImageParam(a.PicURL, CoverParam)
		},
	}
}
