package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/collections"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/services"
	"github.com/desertthunder/skipify/internal/session"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store, session and managers are opened lazily by [Runner.boot] so commands like setup and serve
// never touch on-device storage.
type Runner struct {
	config     *shared.Config
	configPath string
	store      repositories.KeyValueStore
	api        *services.Client
	session    *session.Controller
	library    *collections.Library
	playlists  *collections.Playlists
	favorites  *collections.Favorites
	events     chan collections.Event
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      repositories.KeyValueStore
	API        *services.Client
	Logger     *log.Logger
	Output     io.Writer
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		api:        opts.API,
		events:     make(chan collections.Event, 64),
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the logger; used by the TUI to keep logs off the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "skipify",
		Usage:    "Offline-first music library with server sync",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, playlistsCommand, favoritesCommand,
		exportCommand, apiCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// bootSession opens the store and resolves the persisted session.
func (r *Runner) bootSession(ctx context.Context) error {
	if r.session != nil {
		return nil
	}

	if r.store == nil {
		store, err := repositories.OpenStore(r.config.Storage)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		r.store = store
	}
	if r.api == nil {
		r.api = services.NewClientFromConfig(r.config.API, r.logger)
	}

	r.session = session.NewController(r.store, r.logger, r.config.Session.StartupTimeout)
	r.session.Start(ctx)
	return nil
}

// boot builds the three managers and loads them. Remote fetch failures are logged, not returned, so
// every command keeps working on local data.
func (r *Runner) boot(ctx context.Context) error {
	if r.library != nil {
		return nil
	}
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	library, err := collections.NewLibrary(collections.Config[*models.Song]{
		Store: r.store, Remote: r.api.Songs(), Session: r.session, Logger: r.logger, Events: r.events,
	}, r.config.Library.Extensions)
	if err != nil {
		return err
	}
	playlists, err := collections.NewPlaylists(collections.Config[*models.Playlist]{
		Store: r.store, Remote: r.api.Playlists(), Session: r.session, Logger: r.logger, Events: r.events,
	})
	if err != nil {
		return err
	}
	favorites, err := collections.NewFavorites(collections.Config[*models.FavoriteMark]{
		Store: r.store, Remote: r.api.Favorites(), Session: r.session, Logger: r.logger, Events: r.events,
	})
	if err != nil {
		return err
	}
	r.library, r.playlists, r.favorites = library, playlists, favorites

	if err := errors.Join(library.Initialize(ctx), playlists.Initialize(ctx), favorites.Initialize(ctx)); err != nil {
		r.logger.Warn("remote data unavailable, showing local data only", "error", describe(err))
	}
	return nil
}

// Close releases the local store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

// requireConnected fails fast for commands that only make sense with a server session.
func (r *Runner) requireConnected() error {
	if !r.session.Connected() {
		return shared.Unauthenticated()
	}
	return nil
}

// describe turns failures into a message a user can act on.
func describe(err error) string {
	failure, ok := shared.AsFailure(err)
	if !ok {
		return err.Error()
	}

	switch failure.Kind {
	case shared.FailureTimeout:
		return "the server did not answer in time"
	case shared.FailureUnreachable:
		return "the server is unreachable; run 'skipify auth offline' to keep working locally"
	case shared.FailureUnauthenticated:
		return "not logged in; run 'skipify auth login'"
	case shared.FailureRejected:
		if failure.Detail != "" {
			return fmt.Sprintf("server rejected the request (%d): %s", failure.Status, failure.Detail)
		}
		return fmt.Sprintf("server rejected the request (%d)", failure.Status)
	default:
		return err.Error()
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
