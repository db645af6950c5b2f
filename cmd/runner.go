package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytcat/internal/formatter"
	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/repositories"
	"github.com/desertthunder/ytcat/internal/services"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/desertthunder/ytcat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	ownCatalog bool // catalog was built from config and follows logger changes
	jobs       *repositories.InsertJobRepository
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Jobs       *repositories.InsertJobRepository // Opened from Config.Database on first use when nil
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
// Without a catalog one is built from the YouTube section of the config.
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
	ownCatalog := opts.Catalog == nil
	if ownCatalog {
		opts.Catalog = newCatalog(opts.Config, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		ownCatalog: ownCatalog,
		jobs:       opts.Jobs,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func newCatalog(config *shared.Config, logger *log.Logger) *services.Client {
	return services.NewClient(services.ClientOpts{
		BaseURL:           config.YouTube.BaseURL,
		Keys:              config.YouTube,
		RequestsPerSecond: config.YouTube.RequestsPerSecond,
		Messages:          shared.NewMessages(config.YouTube.Locale),
		Logger:            logger,
	})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, relatedCommand, songCommand, songsCommand,
		playlistCommand, channelCommand, jobsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, including the one used by a catalog built from config.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.ownCatalog {
		r.catalog = newCatalog(r.config, logger)
	}
}

// jobStore opens the job database on first use.
func (r *Runner) jobStore() (*repositories.InsertJobRepository, error) {
	if r.jobs != nil {
		return r.jobs, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	r.jobs = repositories.NewInsertJobRepository(db)
	return r.jobs, nil
}

// engine builds an import engine. Job recording is skipped when the database is unavailable.
func (r *Runner) engine() *tasks.ImportEngine {
	jobs, err := r.jobStore()
	if err != nil {
		r.logger.Warn("job history disabled", "error", err)
		return tasks.NewImportEngine(r.catalog, nil, r.logger)
	}
	return tasks.NewImportEngine(r.catalog, jobs, r.logger)
}

// Close releases the database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
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

// writeSongs renders songs in the format named by the command's --format flag.
func (r *Runner) writeSongs(cmd *cli.Command, title string, songs models.SongSet, nextPage string) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	return formatter.Write(r.output, format, title, songs, nextPage)
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return 2
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired), errors.Is(err, shared.ErrAuthFailed):
		return 3
	default:
		return 1
	}
}
