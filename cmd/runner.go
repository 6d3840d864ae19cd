package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/repositories"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and lookup service are opened on first use so commands like `setup config`
// never touch them.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	data       models.DataManager
	lookup     models.MovieLookup
	cache      *services.RedisCache
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Data       models.DataManager
	Lookup     models.MovieLookup
	HTTPClient *http.Client
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
		data:       opts.Data,
		lookup:     opts.Lookup,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the logger used by the runner and everything it opens afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, usersCommand, moviesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "moviweb",
		Usage:   "Track the movies your users love",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

// configure loads the config file named by --config, falling back to defaults when it is missing.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if r.configPath != "" && !cmd.IsSet("config") {
		path = r.configPath
	}

	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, err
	}
	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return ctx, err
	}

	level, err := shared.ParseLogLevel(config.Server.LogLevel)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)

	r.config = config
	r.configPath = path
	r.logger.Debug("configuration loaded", "path", path)
	return ctx, nil
}

// store returns the data manager, opening and migrating the configured database on first use.
func (r *Runner) store() (models.DataManager, error) {
	if r.data != nil {
		return r.data, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	r.db = db
	r.data = repositories.NewSQLiteDataManager(db, r.logger)
	return r.data, nil
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	cfg := r.config.Database
	r.logger.Debug("opening database", "path", cfg.Path)

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, cfg.Path, cfg.MaxOpenConns, cfg.MaxIdleConns)

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied)
	}
	return db, nil
}

// movieLookup returns the lookup service, building the OMDb client (and its optional Redis cache) on first use.
func (r *Runner) movieLookup(ctx context.Context) (models.MovieLookup, error) {
	if r.lookup != nil {
		return r.lookup, nil
	}

	var cache services.LookupCache
	if client := services.NewRedisClient(ctx, r.config.Cache); client != nil {
		ttl, err := r.config.Cache.TTLDuration()
		if err != nil {
			client.Close()
			return nil, err
		}
		r.cache = services.NewRedisCache(client, ttl)
		cache = r.cache
		r.logger.Info("lookup cache enabled", "addr", r.config.Cache.RedisAddr, "ttl", ttl)
	} else if r.config.Cache.Enabled() {
		r.logger.Warn("redis unreachable, running without lookup cache", "addr", r.config.Cache.RedisAddr)
	}

	svc, err := services.NewOMDbService(r.config.OMDb, r.httpClient, cache, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s or [omdb] api_key)", err, shared.OMDbAPIKeyEnv)
	}
	r.lookup = svc
	return r.lookup, nil
}

// Close releases the database and cache connections opened by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
		r.cache = nil
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		r.db = nil
	}
	return errors.Join(errs...)
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
