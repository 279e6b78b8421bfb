package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/formatter"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsTop refreshes the top playlists and loads further pages while the server has more.
func (r *Runner) PlaylistsTop(ctx context.Context, cmd *cli.Command) error {
	state, err := r.run(ctx, actions.PlaylistsRefreshRequested{})
	if err != nil {
		return err
	}
	for page := 1; page < int(cmd.Int("pages")) && state.Playlists.More; page++ {
		if state, err = r.run(ctx, actions.PlaylistsSyncRequested{}); err != nil {
			return err
		}
	}

	items := state.Playlists.Items
	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Top playlists (%d)", len(items)))
	for _, p := range items {
		r.writePlain("%-12d %s (%d tracks, %d plays)\n", p.ID, p.Name, p.TrackCount, p.PlayCount)
	}
	return nil
}

// PlaylistsShow loads a playlist detail and prints its tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	state, err := r.run(ctx, actions.PlaylistDetailRequested{ID: id})
	if err != nil {
		return err
	}

	playlist, ok := state.Details.Playlist(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	r.printPlaylist(playlist)
	return nil
}

func (r *Runner) printPlaylist(p models.Playlist) {
	r.writePlainHeader(p.Name)
	r.writePlain("By: %s\n", p.Creator.Nickname)
	r.writePlain("Subscribers: %d (subscribed: %t)\n", p.SubscribedCount, p.Subscribed)
	r.writePlain("URL: %s\n", shared.PlaylistURL(p.ID))
	if p.Description != "" {
		r.writePlainln("%s", p.Description)
	}

	r.writePlainln("Tracks (%d)", len(p.Tracks))
	for i, t := range p.Tracks {
		r.writePlain("%3d. %s - %s [%s]\n", i+1, t.Name, t.ArtistNames(), shared.FormatDuration(t.Duration))
	}
}

// PlaylistsSubscribe toggles the subscription of a playlist, loading its detail first.
func (r *Runner) PlaylistsSubscribe(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	state, err := r.run(ctx, actions.PlaylistDetailRequested{ID: id}, actions.SubscribeToggled{ID: id})
	if err != nil {
		return err
	}

	playlist, ok := state.Details.Playlist(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"id":              playlist.ID,
			"subscribed":      playlist.Subscribed,
			"subscribedCount": playlist.SubscribedCount,
		}, cmd.Bool("pretty"))
	}

	status := "unsubscribed from"
	if playlist.Subscribed {
		status = "subscribed to"
	}
	return r.writePlain("%s %s (%d subscribers)\n", status, playlist.Name, playlist.SubscribedCount)
}

// PlaylistsComments loads comment pages for a playlist.
func (r *Runner) PlaylistsComments(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	state, err := r.run(ctx, actions.CommentsSyncRequested{ID: id, Loading: true})
	if err != nil {
		return err
	}
	thread, _ := state.Comments.Thread(id)
	for page := 1; page < int(cmd.Int("pages")) && thread.More; page++ {
		if state, err = r.run(ctx, actions.CommentsSyncRequested{ID: id}); err != nil {
			return err
		}
		thread, _ = state.Comments.Thread(id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(thread, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Comments (%d of %d)", len(thread.Comments), thread.Total))
	if len(thread.HotComments) > 0 {
		r.writePlainln("Hot")
		for _, c := range thread.HotComments {
			r.writePlain("★ %s: %s (♥ %d)\n", c.User.Nickname, c.Content, c.LikedCount)
		}
		r.writePlainln("Latest")
	}
	for _, c := range thread.Comments {
		r.writePlain("%s: %s (♥ %d)\n", c.User.Nickname, c.Content, c.LikedCount)
	}
	return nil
}

// PlaylistsExport writes playlist details to files, reporting progress as it goes.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one playlist id", shared.ErrMissingArgument)
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.boot(ctx)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, len(ids)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if asJSON {
				r.logger.Debug("export progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
				continue
			}
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := engine.ExportPlaylists(ctx, progress, ids, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if asJSON {
		type row struct {
			ID      int64    `json:"id"`
			Name    string   `json:"name"`
			Success bool     `json:"success"`
			Files   []string `json:"files,omitempty"`
			Error   string   `json:"error,omitempty"`
		}
		rows := make([]row, 0, len(result.Results))
		for _, res := range result.Results {
			rw := row{ID: res.PlaylistID, Name: res.PlaylistName, Success: res.Success, Files: res.Files}
			if res.Error != nil {
				rw.Error = res.Error.Error()
			}
			rows = append(rows, rw)
		}
		return r.writeJSON(map[string]any{
			"outputDirectory": result.OutputDirectory,
			"manifest":        result.ManifestPath,
			"successful":      result.SuccessfulExports,
			"failed":          result.FailedExports,
			"playlists":       rows,
		}, cmd.Bool("pretty"))
	}

	r.writePlainln("Exported %d of %d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("✗ %s: %s\n", res.PlaylistName, res.Error)
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

// PlaylistsOpen opens a playlist in the browser.
func (r *Runner) PlaylistsOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	url := shared.PlaylistURL(id)
	r.logger.Info("opening browser", "url", url)
	return shared.OpenBrowser(url)
}
