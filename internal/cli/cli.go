package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gopher-golf/internal/config"
	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/storage"
	"github.com/pfrederiksen/gopher-golf/internal/tracker"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries the global flags and the state shared by subcommands
type app struct {
	configPath string
	envFile    string
	dbDriver   string
	dbDSN      string
	format     string
	verbose    bool

	cfg   *config.Config
	store *storage.Store
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "gopher",
		Short: "Track golf rounds and compute a handicap index",
		Long: `Gopher records golf rounds, computes score differentials from the
course and slope rating of the tees played, and derives a handicap index
from the lowest differentials.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before reading config")
	flags.StringVar(&a.dbDriver, "db-driver", "", "Database driver: sqlite or postgres")
	flags.StringVar(&a.dbDSN, "db-dsn", "", "Database file path (sqlite) or connection string (postgres)")
	flags.StringVar(&a.format, "format", string(FormatText), "Output format: text or json")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newServeCmd(a),
		newDifferentialCmd(a),
		newHandicapCmd(a),
		newDashboardCmd(a),
		newRecomputeCmd(a),
		newRoundsCmd(a),
		newCoursesCmd(a),
	)

	return cmd
}

// setup loads configuration and applies the global flags on top of it
func (a *app) setup(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(a.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.format)
	}
	a.format = string(format)

	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db-driver") {
		cfg.Database.Driver = a.dbDriver
	}
	if flags.Changed("db-dsn") {
		cfg.Database.DSN = a.dbDSN
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	level, _ := logger.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return nil
}

// service opens the store and builds the tracker service
func (a *app) service() (*tracker.Service, error) {
	if a.store == nil {
		logger.Debug("Opening database", logger.Fields{
			"driver": a.cfg.Database.Driver,
			"dsn":    redactDSN(a.cfg.Database.DSN),
		})
		store, err := storage.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		a.store = store
	}

	opts := tracker.Options{
		PlayerID: a.cfg.Player.ID,
		Policy:   a.cfg.Handicap.Policy(),
		CacheTTL: a.cfg.Cache.TTL,
	}
	if a.cfg.Scrape.Endpoint != "" {
		opts.Fetcher = course.NewClient(a.cfg.Scrape.Endpoint, a.cfg.Scrape.APIKey)
	}

	return tracker.New(a.store, opts), nil
}

// withService runs fn with a service and closes the store afterwards
func (a *app) withService(fn func(*tracker.Service) error) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(svc)
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Warn("Closing database", logger.Fields{"error": err.Error()})
	}
	a.store = nil
}

func (a *app) outputFormat() OutputFormat {
	return OutputFormat(a.format)
}

// write renders v as JSON, or through text when the text format is selected.
func (a *app) write(w io.Writer, v interface{}, text func(io.Writer) error) error {
	if a.outputFormat() == FormatJSON || text == nil {
		return writeJSON(w, v)
	}
	return text(w)
}

// redactDSN hides the password of a postgres URL
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		creds = creds[:i] + ":****"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
