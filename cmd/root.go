package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/veezi/config"
	"github.com/s0up4200/veezi/filter"
	"github.com/s0up4200/veezi/veezi"
)

// skipSetup marks commands that run without configuration or a client
const skipSetup = "skip-setup"

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *veezi.Client
	filters *filter.Manager

	// Command flags
	jsonOutput bool
	noCache    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veezi",
	Short: "Browse sessions, films and venue data from the Veezi API",
	Long: `veezi is a CLI for the Veezi cinema ticketing API. It lists sessions and
films, filters them with expressions or presets from the config file, and
shows the site's screens, attributes and film packages.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable response caching")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	_, skip := cmd.Annotations[skipSetup]
	if skip || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		logger = setupLogger(config.LoggingConfig{Level: "info", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	builder := cfg.Builder(logger)
	if noCache {
		builder = builder.WithoutCache()
	}
	client, err = builder.Build()
	if err != nil {
		return fmt.Errorf("failed to create Veezi client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}
	if n := len(cfg.Filter.Presets); n > 0 {
		logger.Debug().Int("presets", n).Msg("Loaded filter presets")
	}

	logger.Debug().
		Str("url", cfg.Veezi.URL).
		Str("cache", client.CachePolicy().Mode.String()).
		Msg("Veezi client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Colour only when stderr is a terminal
	color := cfg.Color && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
