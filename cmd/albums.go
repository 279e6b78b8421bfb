package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumsNew refreshes the newest albums and loads further pages while the server has more.
func (r *Runner) AlbumsNew(ctx context.Context, cmd *cli.Command) error {
	state, err := r.run(ctx, actions.AlbumsRefreshRequested{})
	if err != nil {
		return err
	}
	for page := 1; page < int(cmd.Int("pages")) && state.Albums.More; page++ {
		if state, err = r.run(ctx, actions.AlbumsSyncRequested{}); err != nil {
			return err
		}
	}

	items := state.Albums.Items
	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("New albums (%d)", len(items)))
	for _, a := range items {
		r.writePlain("%-12d %s - %s\n", a.ID, a.Name, a.Artist.Name)
	}
	return nil
}

// AlbumsShow loads an album's info and songs.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	state, err := r.run(ctx, actions.AlbumDetailRequested{ID: id})
	if err != nil {
		return err
	}

	album, ok := state.Details.Album(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("Artist: %s\n", album.Artist.Name)
	if album.PublishTime > 0 {
		r.writePlain("Released: %s\n", time.UnixMilli(album.PublishTime).Format(time.DateOnly))
	}
	if album.Company != "" {
		r.writePlain("Label: %s\n", album.Company)
	}
	r.writePlain("URL: %s\n", shared.AlbumURL(album.ID))

	r.writePlainln("Songs (%d)", len(album.Songs))
	for i, t := range album.Songs {
		r.writePlain("%3d. %s [%s]\n", i+1, t.Name, shared.FormatDuration(t.Duration))
	}
	return nil
}

// AlbumsOpen opens an album in the browser.
func (r *Runner) AlbumsOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return shared.OpenBrowser(shared.AlbumURL(id))
}
