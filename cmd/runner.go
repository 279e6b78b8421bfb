package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/repositories"
	"github.com/desertthunder/ncmx/internal/services"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/store"
	"github.com/desertthunder/ncmx/internal/tasks"
	"github.com/desertthunder/ncmx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sessions is the session persistence the CLI needs. Satisfied by
// [repositories.SessionCacheAdapter].
type Sessions interface {
	tasks.SessionStore
	Restore(ctx context.Context, client repositories.CookieSetter) (bool, error)
	LoadSession(ctx context.Context) (*repositories.StoredSession, error)
	History(ctx context.Context, limit int) ([]*models.LoginRecord, error)
	Clear(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The client, sessions and engine are created lazily by [Runner.boot] so that commands
// like "setup config" run without a database or a reachable API.
type Runner struct {
	config     *shared.Config
	configPath string
	client     services.Client
	sessions   Sessions
	db         *sql.DB
	store      *store.Store
	engine     *tasks.Engine
	logger     *log.Logger
	output     io.Writer
	toasts     io.Writer // nil disables live toast rendering
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     services.Client
	Sessions   Sessions
	Logger     *log.Logger
	Output     io.Writer
	Toasts     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Toasts == nil {
		opts.Toasts = os.Stderr
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		sessions:   opts.Sessions,
		logger:     opts.Logger,
		output:     opts.Output,
		toasts:     opts.Toasts,
	}
}

// SetLogger replaces the logger. It must be called before [Runner.boot].
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// boot creates the API client, opens the session database, restores a saved cookie and
// starts the engine. Later calls return the running engine.
func (r *Runner) boot(ctx context.Context) (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if r.client == nil {
		client, err := services.NewNeteaseService(services.OptionsFromConfig(r.config.API))
		if err != nil {
			return nil, fmt.Errorf("failed to create API client: %w", err)
		}
		r.client = client
	}

	if err := r.ensureSessions(); err != nil {
		return nil, err
	}

	restored, err := r.sessions.Restore(ctx, r.client)
	if err != nil {
		r.logger.Warn("could not restore session", "error", err)
	} else if restored {
		r.logger.Debug("restored saved session")
	}

	r.store = store.New(store.NewState())
	r.engine = tasks.NewEngine(r.client, r.sessions, r.store, r.logger)
	if r.toasts != nil {
		r.engine.Subscribe(r.printToast)
	}
	r.engine.Start(ctx)

	return r.engine, nil
}

// ensureSessions opens the session database unless sessions were injected.
func (r *Runner) ensureSessions() error {
	if r.sessions != nil {
		return nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.sessions = repositories.NewSessionCacheAdapter(db)
	return nil
}

// printToast runs on the store goroutine.
func (r *Runner) printToast(a actions.Action, _ store.State) {
	if t, ok := a.(actions.Toast); ok {
		fmt.Fprintln(r.toasts, ui.RenderToast(t))
	}
}

// Close stops the engine and releases the database. It is safe to call more than once.
func (r *Runner) Close() {
	if r.engine != nil {
		r.engine.Stop()
		r.engine = nil
	}
	if r.store != nil {
		r.store.Close()
		r.store = nil
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
		r.db = nil
	}
}

// run puts each action in order and waits for the work it starts.
func (r *Runner) run(ctx context.Context, acts ...actions.Action) (store.State, error) {
	engine, err := r.boot(ctx)
	if err != nil {
		return store.State{}, err
	}

	for _, a := range acts {
		if err := engine.Put(ctx, a); err != nil {
			return store.State{}, err
		}
		if err := engine.Settle(ctx); err != nil {
			return store.State{}, err
		}
	}
	return engine.Select(), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, albumsCommand, searchCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// parseID reads a numeric NetEase id from a positional argument.
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
