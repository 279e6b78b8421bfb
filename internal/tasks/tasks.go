package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/store"
)

const (
	PageSize        = 15 // Playlists, albums and search results
	CommentPageSize = 50

	CoverParam      = "100y100"
	TrackCoverParam = "50y50"
)

// SessionStore persists the session after a successful login.
type SessionStore interface {
	SaveSession(ctx context.Context, username string, profile models.Profile, cookie string) error
}

// Engine wires every task to a [Runtime] and is the entry point for the UI layers.
type Engine struct {
	client   services.Client
	sessions SessionStore
	store    *store.Store
	runtime  *Runtime
	logger   *log.Logger

	playlists resource[models.Playlist]
	albums    resource[models.Album]
}

// NewEngine creates an engine and registers its watchers. sessions may be nil, in which
// case logins are not persisted.
func NewEngine(client services.Client, sessions SessionStore, st *store.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	e := &Engine{
		client:    client,
		sessions:  sessions,
		store:     st,
		runtime:   NewRuntime(st, logger),
		logger:    logger,
		playlists: topPlaylists(client),
		albums:    newAlbums(client),
	}
	e.register()
	return e
}

func (e *Engine) register() {
	r := e.runtime

	r.Watch(TakeLeading, "login", e.login, actions.TypeLogin)

	r.Watch(TakeLatest, "search", e.requestSearch, actions.TypeSearchQuery, actions.TypeSearchActiveTab)
	for _, kind := range actions.SearchKinds {
		r.Watch(TakeLatest, "search/"+kind.String(), e.searchFirstPage, kind.RequestType())
		r.Watch(TakeLeading, "search/"+kind.String()+"/more", e.searchMore, kind.MoreType())
	}

	r.Watch(TakeLatest, "playlists/refresh", refreshResource(e, e.playlists), actions.TypePlaylistsRefresh)
	r.Watch(TakeLeading, "playlists/sync", syncMoreResource(e, e.playlists), actions.TypePlaylistsSync)

	r.Watch(TakeLatest, "albums/refresh", refreshResource(e, e.albums), actions.TypeAlbumsRefresh)
	r.Watch(TakeLatest, "albums/sync", syncMoreResource(e, e.albums), actions.TypeAlbumsSync)
	r.Watch(TakeEvery, "albums/detail", e.albumDetail, actions.TypeAlbumDetail)

	r.Watch(TakeEvery, "details/playlist", e.playlistDetail, actions.TypePlaylistDetail)
	r.Watch(TakeLeading, "details/subscribe", e.subscribe, actions.TypeSubscribe)
	r.Watch(TakeLeading, "comments/sync", e.syncComments, actions.TypeCommentsSync)
}

// Start begins routing actions to tasks.
func (e *Engine) Start(ctx context.Context) { e.runtime.Start(ctx) }

// Stop cancels running tasks and waits for their cleanup.
func (e *Engine) Stop() { e.runtime.Stop() }

// Put commits a and starts any task watching it.
func (e *Engine) Put(ctx context.Context, a actions.Action) error { return e.runtime.Put(ctx, a) }

// Select returns the latest state snapshot.
func (e *Engine) Select() store.State { return e.runtime.Select() }

// Settle waits until every task started so far, and every task they started, has finished.
func (e *Engine) Settle(ctx context.Context) error { return e.runtime.Settle(ctx) }

// Subscribe registers a store listener.
func (e *Engine) Subscribe(l store.Listener) func() { return e.store.Subscribe(l) }

// put commits a, logging failures. Failures only happen when ctx ends or the store closed.
func (e *Engine) put(ctx context.Context, a actions.Action) {
	if err := e.runtime.Put(ctx, a); err != nil {
		e.logger.Debug("put failed", "action", a.Type(), "err", err)
	}
}

func (e *Engine) toast(ctx context.Context, kind actions.ToastKind, message string) {
	e.put(ctx, actions.NewToast(kind, message))
}

func (e *Engine) startLoading(ctx context.Context, scope actions.Scope) {
	e.put(ctx, actions.LoadingStarted{Scope: scope})
}

// endLoading commits even when ctx is canceled so that a superseded task never leaves a
// loading flag raised.
func (e *Engine) endLoading(ctx context.Context, scope actions.Scope) {
	e.put(context.WithoutCancel(ctx), actions.LoadingEnded{Scope: scope})
}

// fail reports a failed call. Canceled tasks stay silent; non-200 codes are logged only.
func (e *Engine) fail(ctx context.Context, op string, err error) {
	switch {
	case ctx.Err() != nil:
		e.logger.Debug("task canceled", "op", op, "err", err)
	case errors.Is(err, shared.ErrUnexpectedStatus):
		e.logger.Warn("request rejected", "op", op, "err", err)
	default:
		e.logger.Error("request failed", "op", op, "err", err)
		e.toast(ctx, actions.ToastError, actions.MsgNetworkError)
	}
}
