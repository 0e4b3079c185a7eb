package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/config"
	"github.com/roach88/blogql/internal/graph"
	"github.com/roach88/blogql/internal/logging"
	"github.com/roach88/blogql/internal/metrics"
	"github.com/roach88/blogql/internal/model"
	"github.com/roach88/blogql/internal/seed"
	"github.com/roach88/blogql/internal/server"
	"github.com/roach88/blogql/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr            string
	Seed            string
	LogLevel        string
	LogFormat       string
	Metrics         bool
	MaxDepth        int
	ShutdownTimeout time.Duration

	// Logger overrides the logger built from the log settings (for testing).
	Logger *zap.Logger
	// OnListening is called with the bound address once the listener is open (for testing).
	OnListening func(addr net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API over HTTP",
		Long: `Load a dataset into a fresh in-memory store and serve it.

Routes:
  POST /graphql   GraphQL endpoint
  GET  /          GraphiQL playground
  GET  /healthz   liveness check
  GET  /metrics   Prometheus metrics (unless --metrics=false)

Settings come from defaults, then --config, then BLOGQL_* environment
variables (e.g. BLOGQL_ADDR, BLOGQL_LOG_LEVEL), then flags.
All data is lost when the server stops.

Examples:
  blogql serve
  blogql serve --addr :8080 --seed ./testdata/seeds/solo.yaml
  BLOGQL_LOG_FORMAT=json blogql serve --max-depth 8`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":4000", "listen address")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed dataset (.yaml, .yml or .cue); defaults to the demo dataset")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", config.FormatConsole, "log format (console|json)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", true, "expose /metrics")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum query depth (0 = unlimited)")
	cmd.Flags().DurationVar(&opts.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	printer := opts.printer(cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to load config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		if logger, err = logging.New(cfg.Log.Level, cfg.Log.Format); err != nil {
			return exitErrorf(ExitCommandError, "failed to build logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	st, err := openStore(ctx, cfg.Seed, logger)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to open store: %w", err)
	}
	defer st.Close()

	var (
		gatherer prometheus.Gatherer
		recorder graph.Recorder
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec, err := metrics.New(reg, st)
		if err != nil {
			return exitErrorf(ExitCommandError, "failed to set up metrics: %w", err)
		}
		gatherer, recorder = reg, rec
	}

	schema, err := graph.NewSchema(st,
		graph.WithLogger(logger.Named("graph")),
		graph.WithRecorder(recorder),
		graph.WithMaxDepth(cfg.GraphQL.MaxDepth),
	)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to build schema: %w", err)
	}

	srv := server.New(server.Config{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
	}, schema, st, logger, gatherer)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to listen on %s: %w", cfg.Addr, err)
	}

	printer.Debugf("Serving GraphQL at http://%s/graphql", ln.Addr())
	if opts.OnListening != nil {
		opts.OnListening(ln.Addr())
	}

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, ln); err != nil {
		return exitErrorf(ExitFailure, "server failed: %w", err)
	}
	return nil
}

// loadConfig layers defaults, the --config file, environment and explicitly set flags.
func loadConfig(opts *ServeOptions, cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	if err := config.ReadFile(v, opts.Config); err != nil {
		return config.Config{}, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	if opts.Verbose && !cmd.Flags().Changed("log-level") {
		v.SetDefault(config.KeyLogLevel, "debug")
	}
	return config.Load(v)
}

// openStore creates an in-memory store holding the dataset at seedPath,
// or the demo dataset when seedPath is empty.
func openStore(ctx context.Context, seedPath string, logger *zap.Logger, opts ...store.Option) (*store.Store, error) {
	var (
		ds  *model.Dataset
		err error
	)
	if seedPath == "" {
		ds = seed.Default()
	} else if ds, err = seed.LoadFile(seedPath); err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	st, err := store.Open(append([]store.Option{store.WithLogger(logger.Named("store"))}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := st.Load(ctx, ds); err != nil {
		st.Close()
		return nil, err
	}

	logger.Info("store loaded",
		zap.String("seed", seedLabel(seedPath)),
		zap.Int("users", len(ds.Users)),
		zap.Int("posts", len(ds.Posts)),
		zap.Int("comments", len(ds.Comments)),
	)
	return st, nil
}

func seedLabel(path string) string {
	if path == "" {
		return "default"
	}
	return path
}
