package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockwatch/dockwatch/pkg/api"
	"github.com/dockwatch/dockwatch/pkg/config"
	"github.com/dockwatch/dockwatch/pkg/log"
	"github.com/dockwatch/dockwatch/pkg/metrics"
	"github.com/dockwatch/dockwatch/pkg/runtime"
	"github.com/dockwatch/dockwatch/pkg/supervisor"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var flags struct {
	configFile      string
	listen          string
	restartInterval int64
	tickInterval    int64
	unixSocket      string
	dockerURL       string
	logLevel        string
	logJSON         bool
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dockwatch",
	Short: "Dockwatch - Docker health-check exporter and supervisor",
	Long: `Dockwatch watches the health-check status of Docker containers,
exports it as Prometheus metrics, and optionally restarts containers
that stay unhealthy longer than a configurable grace period.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Dockwatch version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	f := rootCmd.Flags()
	f.StringVar(&flags.configFile, "config", "", "Path to YAML config file")
	f.StringVar(&flags.listen, "listen", config.DefaultListenAddress, "Bind address for the metrics endpoint")
	f.Int64Var(&flags.restartInterval, "restart-interval", 0, "Restart containers unhealthy for at least this many milliseconds (0 disables restarts)")
	f.Int64Var(&flags.tickInterval, "tick-interval", config.DefaultTickIntervalMS, "Reconciliation interval in milliseconds")
	f.StringVar(&flags.unixSocket, "unix-socket", "", "Docker daemon unix socket path")
	f.StringVar(&flags.dockerURL, "docker-url", "", "Docker daemon HTTP(S) URL")
	f.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.BoolVar(&flags.logJSON, "log-json", false, "Log in JSON format")
	rootCmd.MarkFlagsMutuallyExclusive("unix-socket", "docker-url")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := runtime.NewDockerRuntime(runtime.Options{
		UnixSocket: cfg.DockerUnixSocket,
		URL:        cfg.DockerURL,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = rt.Ping(pingCtx)
	cancel()
	if err != nil {
		return err
	}

	sink := metrics.NewSink()
	engine := supervisor.New(rt, sink, supervisor.Config{
		TickInterval:    cfg.TickInterval(),
		RestartInterval: cfg.RestartInterval(),
	})

	server := api.NewServer(sink, engine)
	if err := server.Listen(cfg.ListenAddress); err != nil {
		return fmt.Errorf("bind metrics endpoint %s: %w", cfg.ListenAddress, err)
	}
	logger.Info().Str("listen", cfg.ListenAddress).Msg("metrics endpoint listening")

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Serve()
	}()

	engineErrCh := make(chan error, 1)
	go func() {
		engineErrCh <- engine.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
	case err := <-engineErrCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server shutdown failed")
	}
	return nil
}

// applyFlagOverrides copies explicitly set flags over file and environment
// values: flags are the highest-precedence configuration source.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddress = flags.listen
	}
	if cmd.Flags().Changed("restart-interval") {
		cfg.RestartIntervalMS = flags.restartInterval
	}
	if cmd.Flags().Changed("tick-interval") {
		cfg.TickIntervalMS = flags.tickInterval
	}
	if cmd.Flags().Changed("unix-socket") {
		cfg.DockerUnixSocket = flags.unixSocket
	}
	if cmd.Flags().Changed("docker-url") {
		cfg.DockerURL = flags.dockerURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = flags.logJSON
	}
}
