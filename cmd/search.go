package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search switches to the requested tab, searches for the query and loads further pages.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	kind, err := actions.ParseSearchKind(cmd.String("tab"))
	if err != nil {
		return err
	}

	state, err := r.run(ctx,
		actions.SearchTabChanged{Tab: int(kind)},
		actions.SearchQueryChanged{Query: query},
	)
	if err != nil {
		return err
	}
	for page := 1; page < int(cmd.Int("pages")) && state.Search.Tab(kind).More; page++ {
		if state, err = r.run(ctx, actions.SearchMoreRequested{Kind: kind}); err != nil {
			return err
		}
	}

	tab := state.Search.Tab(kind)
	if cmd.Bool("json") {
		return r.writeJSON(tab.Results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%q in %ss (%d)", tab.Query, kind, tab.Results.Len()))
	r.printResults(tab.Results)
	return nil
}

func (r *Runner) printResults(res models.SearchResults) {
	for _, t := range res.Songs {
		r.writePlain("%-12d %s - %s [%s]\n", t.ID, t.Name, t.ArtistNames(), shared.FormatDuration(t.Duration))
	}
	for _, p := range res.Playlists {
		r.writePlain("%-12d %s (%d tracks, by %s)\n", p.ID, p.Name, p.TrackCount, p.Creator.Nickname)
	}
	for _, a := range res.Artists {
		r.writePlain("%-12d %s (%d albums)\n", a.ID, a.Name, a.AlbumSize)
	}
	for _, a := range res.Albums {
		r.writePlain("%-12d %s - %s\n", a.ID, a.Name, a.Artist.Name)
	}
}
