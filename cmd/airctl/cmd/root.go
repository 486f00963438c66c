// Package cmd implements the airctl commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/app"
	"github.com/howstheair/dashboard/internal/config"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// Version is set at compile time via ldflags.
var Version = "dev"

// DefaultActor is recorded in the activity log for CLI mutations.
const DefaultActor = "airctl"

type rootOptions struct {
	configPath string
	jsonOutput bool
	noColor    bool
	actor      string
	verbose    bool

	v   *viper.Viper
	cfg *config.Config
	app *app.App
	out *Renderer
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{v: config.New()}

	root := &cobra.Command{
		Use:     "airctl",
		Short:   "Operate the air-quality dashboard",
		Long:    `airctl manages monitored stations, inspects readings and triggers syncs against the air-quality backend.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.Context(), out)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.app != nil {
				opts.app.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of tables")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable AQI colours")
	flags.StringVar(&opts.actor, "as", DefaultActor, "operator recorded in the activity log")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")
	flags.String("backend", "", "backend base URL (overrides BACKEND_BASE_URL)")
	flags.String("timezone", "", "timezone for day buckets and timestamps (overrides APP_TIMEZONE)")
	_ = opts.v.BindPFlag("backend.base_url", flags.Lookup("backend"))
	_ = opts.v.BindPFlag("app.timezone", flags.Lookup("timezone"))

	root.AddCommand(
		newStationsCommand(opts),
		newReadingsCommand(opts),
		newSyncCommand(opts),
		newDashboardCommand(opts),
		newTokenCommand(opts),
	)
	return root
}

func (o *rootOptions) setup(ctx context.Context, out io.Writer) error {
	if o.configPath != "" {
		o.v.SetConfigFile(o.configPath)
		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := config.FromViper(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	o.out = NewRenderer(out, RendererOptions{
		JSON:     o.jsonOutput,
		Color:    !o.noColor && !color.NoColor,
		Location: cfg.Timezone,
	})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

func (o *rootOptions) dashboard() *dashboard.Service {
	return o.app.Dashboard
}

// parseDay reads a YYYY-MM-DD flag value. Empty means unbounded.
func parseDay(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(airquality.DayKeyLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD", name)
	}
	return t, nil
}

func parseRange(from, to string) (airquality.DateRange, error) {
	start, err := parseDay("from", from)
	if err != nil {
		return airquality.DateRange{}, err
	}
	end, err := parseDay("to", to)
	if err != nil {
		return airquality.DateRange{}, err
	}
	r := airquality.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return airquality.DateRange{}, errors.New("--from must not be after --to")
	}
	return r, nil
}
