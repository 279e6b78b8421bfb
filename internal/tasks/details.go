package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
	"golang.org/x/sync/errgroup"
)

// playlistDetail fetches a playlist with its tracks. A cached entry is shown while it
// refreshes, so the loading flag is only raised for uncached playlists.
func (e *Engine) playlistDetail(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.PlaylistDetailRequested)
	if !ok {
		return
	}

	if _, cached := e.runtime.Select().Details.Playlist(req.ID); !cached {
		e.startLoading(ctx, actions.ScopeDetails)
	}
	defer e.endLoading(ctx, actions.ScopeDetails)

	playlist, err := e.fetchPlaylist(ctx, req.ID)
	if errors.Is(err, shared.ErrPlaylistNotFound) {
		e.logger.Warn("playlist detail not saved", "id", req.ID, "err", err)
		return
	}
	if err != nil {
		e.fail(ctx, "playlist detail", err)
		return
	}

	e.put(ctx, actions.PlaylistDetailSaved{ID: req.ID, Playlist: playlist})
}

// fetchPlaylist returns a playlist with its tracks and their thumbnails sized. A non-200
// code or a missing track list wraps [shared.ErrPlaylistNotFound].
func (e *Engine) fetchPlaylist(ctx context.Context, id int64) (models.Playlist, error) {
	resp, err := e.client.PlaylistDetail(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if !resp.OK() || resp.Playlist.Tracks == nil {
		return models.Playlist{}, fmt.Errorf("%w: playlist %d returned %d", shared.ErrPlaylistNotFound, id, resp.Code)
	}

	playlist := resp.Playlist
	playlist.Tracks = slices.Clone(playlist.Tracks)
	for i := range playlist.Tracks {
		playlist.Tracks[i].Album.PicURL = shared.WithImageParam(playlist.Tracks[i].Album.PicURL, TrackCoverParam)
	}
	return playlist, nil
}

// albumDetail fetches album info and album detail in parallel and saves the info album
// with the detail description. Nothing is saved unless both succeed.
func (e *Engine) albumDetail(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.AlbumDetailRequested)
	if !ok {
		return
	}

	if _, cached := e.runtime.Select().Details.Album(req.ID); !cached {
		e.startLoading(ctx, actions.ScopeDetails)
	}
	defer e.endLoading(ctx, actions.ScopeDetails)

	var (
		info   *services.AlbumInfoResponse
		detail *services.AlbumDetailResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = e.client.AlbumInfo(gctx, req.ID)
		return err
	})
	g.Go(func() (err error) {
		detail, err = e.client.AlbumDetail(gctx, req.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		e.fail(ctx, "album detail", err)
		return
	}
	if !info.OK() || !detail.OK() {
		e.fail(ctx, "album detail", fmt.Errorf("%w: album info %d, album detail %d", shared.ErrUnexpectedStatus, info.Code, detail.Code))
		return
	}

	album := info.Album
	if len(info.Songs) > 0 {
		album.Songs = info.Songs
	}
	album.Description = detail.Album.Description

	e.put(ctx, actions.AlbumDetailSaved{ID: req.ID, Album: album})
}

// subscribe flips the subscription of a cached playlist once the server confirms it.
func (e *Engine) subscribe(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.SubscribeToggled)
	if !ok {
		return
	}

	playlist, cached := e.runtime.Select().Details.Playlist(req.ID)
	if !cached {
		e.toast(ctx, actions.ToastWarning, actions.MsgPlaylistNotLoaded)
		return
	}

	e.startLoading(ctx, actions.ScopeSubscribe)
	defer e.endLoading(ctx, actions.ScopeSubscribe)

	resp, err := e.client.SubscribePlaylist(ctx, req.ID, !playlist.Subscribed)
	if err != nil {
		e.fail(ctx, "subscribe", err)
		return
	}
	if !resp.OK() {
		e.logger.Warn("subscribe rejected", "id", req.ID, "code", resp.Code, "message", resp.Message)
		e.toast(ctx, actions.ToastWarning, actions.MsgSubscribeRejected)
		return
	}

	if latest, ok := e.runtime.Select().Details.Playlist(req.ID); ok {
		playlist = latest
	}

	if playlist.Subscribed {
		if playlist.SubscribedCount <= 0 {
			e.logger.Warn("subscribed count would go negative, clamping at 0", "id", req.ID, "count", playlist.SubscribedCount)
			playlist.SubscribedCount = 0
		} else {
			playlist.SubscribedCount--
		}
	} else {
		playlist.SubscribedCount++
	}
	playlist.Subscribed = !playlist.Subscribed

	e.put(ctx, actions.PlaylistDetailSaved{ID: req.ID, Playlist: playlist})
}
