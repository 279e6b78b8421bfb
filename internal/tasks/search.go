package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

// requestSearch commits the typed text into the active tab and fetches it when the
// committed query changed.
func (e *Engine) requestSearch(ctx context.Context, _ actions.Action) {
	prev := e.runtime.Select().Search
	kind := actions.SearchKindAt(prev.ActiveTab)

	e.put(ctx, actions.SearchQueryCommitted{Kind: kind})

	query := e.runtime.Select().Search.Tab(kind).Query
	if query != "" && query != prev.Tab(kind).Query {
		e.put(ctx, actions.SearchRequested{Kind: kind})
	}
}

// searchFirstPage replaces the results of a tab with its first page.
func (e *Engine) searchFirstPage(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.SearchRequested)
	if !ok {
		return
	}

	query := e.runtime.Select().Search.Tab(req.Kind).Query
	if query == "" {
		return
	}

	scope := actions.SearchScope(req.Kind)
	e.startLoading(ctx, scope)
	defer e.endLoading(ctx, scope)

	results, more, err := e.search(ctx, req.Kind, query, 0)
	if err != nil {
		e.fail(ctx, "search", err)
		return
	}

	e.put(ctx, actions.SearchSaved{Kind: req.Kind, Query: query, Results: results, Offset: 0, More: more})
}

// searchMore appends the next page of a tab.
func (e *Engine) searchMore(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.SearchMoreRequested)
	if !ok {
		return
	}

	scope := actions.SearchScope(req.Kind)
	e.startLoading(ctx, scope)
	defer e.endLoading(ctx, scope)

	tab := e.runtime.Select().Search.Tab(req.Kind)
	if tab.Query == "" {
		return
	}
	if !tab.More {
		e.toast(ctx, actions.ToastInfo, actions.MsgNoMoreResources)
		return
	}

	offset := 0
	if tab.Results.Len() > 0 {
		offset = tab.Offset + PageSize
	}

	page, more, err := e.search(ctx, req.Kind, tab.Query, offset)
	if err != nil {
		e.fail(ctx, "search more", err)
		return
	}

	e.put(ctx, actions.SearchSaved{
		Kind:    req.Kind,
		Query:   tab.Query,
		Results: appendResults(tab.Results, page),
		Offset:  offset,
		More:    more,
	})
}

func (e *Engine) search(ctx context.Context, kind actions.SearchKind, query string, offset int) (models.SearchResults, bool, error) {
	resp, err := e.client.Search(ctx, query, kind.SearchType(), PageSize, offset)
	if err != nil {
		return models.SearchResults{}, false, err
	}
	if !resp.OK() {
		return models.SearchResults{}, false, fmt.Errorf("%w: search returned %d", shared.ErrUnexpectedStatus, resp.Code)
	}

	results := cloneResults(resp.Result.Results())
	rewriteSearchImages(kind, &results)
	return results, resp.Result.HasMore(kind.SearchType(), offset), nil
}

// rewriteSearchImages sizes the list thumbnail of each hit. Songs have none.
func rewriteSearchImages(kind actions.SearchKind, r *models.SearchResults) {
	switch kind {
	case actions.SearchPlaylist:
		for i := range r.Playlists {
			r.Playlists[i].CoverImgURL = shared.WithImageParam(r.Playlists[i].CoverImgURL, CoverParam)
		}
	case actions.SearchArtist:
		for i := range r.Artists {
			r.Artists[i].Img1v1URL = shared.WithImageParam(r.Artists[i].Img1v1URL, CoverParam)
		}
	case actions.SearchAlbum:
		for i := range r.Albums {
			r.Albums[i].PicURL = shared.WithImageParam(r.Albums[i].PicURL, CoverParam)
		}
	}
}

func cloneResults(r models.SearchResults) models.SearchResults {
	return models.SearchResults{
		Songs:     slices.Clone(r.Songs),
		Playlists: slices.Clone(r.Playlists),
		Artists:   slices.Clone(r.Artists),
		Albums:    slices.Clone(r.Albums),
	}
}

func appendResults(prev, page models.SearchResults) models.SearchResults {
	return models.SearchResults{
		Songs:     slices.Concat(prev.Songs, page.Songs),
		Playlists: slices.Concat(prev.Playlists, page.Playlists),
		Artists:   slices.Concat(prev.Artists, page.Artists),
		Albums:    slices.Concat(prev.Albums, page.Albums),
	}
}
