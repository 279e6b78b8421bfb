package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

// syncComments appends the next page of comments for a playlist.
//
// Pages are fetched at the thread's offset, which then advances by [CommentPageSize].
func (e *Engine) syncComments(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.CommentsSyncRequested)
	if !ok {
		return
	}

	thread, cached := e.runtime.Select().Comments.Thread(req.ID)
	if !cached || req.Refresh {
		thread, cached = models.NewCommentThread(), false
	}
	if !thread.More {
		e.toast(ctx, actions.ToastInfo, actions.MsgNoMoreResources)
		return
	}

	if !cached || req.Loading {
		e.startLoading(ctx, actions.ScopeComments)
	}
	defer e.endLoading(ctx, actions.ScopeComments)

	resp, err := e.client.Comments(ctx, req.ID, CommentPageSize, thread.Offset)
	if err != nil {
		e.fail(ctx, "comments", err)
		return
	}
	if !resp.OK() {
		e.fail(ctx, "comments", fmt.Errorf("%w: comments returned %d", shared.ErrUnexpectedStatus, resp.Code))
		return
	}

	hot := thread.HotComments
	if len(resp.HotComments) > 0 {
		hot = resp.HotComments
	}

	e.put(ctx, actions.CommentsSaved{
		ID: req.ID,
		Thread: models.CommentThread{
			Comments:    slices.Concat(thread.Comments, resp.Comments),
			HotComments: hot,
			Total:       resp.Total,
			Offset:      thread.Offset + CommentPageSize,
			More:        resp.More,
		},
	})
}
