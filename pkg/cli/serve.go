package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
	"github.com/k8s-lovers-korea/test-go-app/pkg/config"
	"github.com/k8s-lovers-korea/test-go-app/pkg/logging"
	"github.com/k8s-lovers-korea/test-go-app/pkg/simulation"
)

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

// serveFlags holds all parsed command-line flags for the serve command.
type serveFlags struct {
	configFile    string
	host          string
	port          int
	readTimeout   int
	writeTimeout  int
	blockDuration int
	maxTimeout    int
	backendURL    string
	logLevel      string
	logFormat     string
	logFile       string
}

// serveCmd represents the serve command, the foreground server entrypoint.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the test application server (foreground)",
	Long: `Start the HTTP server in the foreground and block until SIGINT or
SIGTERM, then shut down gracefully within the configured timeout.

Flags override the configuration file and environment variables; a flag
left at its default does not override a value set elsewhere.`,
	Example: `  # Start with defaults (0.0.0.0:8000)
  testapp serve

  # Start with a config file on a custom port
  testapp serve --config config.yaml --port 9000

  # JSON logs at debug level, teed into a file
  testapp serve --log-level debug --log-format json --log-file testapp.log

  # Point the entity gateway at a different backend
  testapp serve --backend-url http://backend:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to configuration file (YAML or JSON)")
	serveCmd.Flags().StringVar(&f.host, "host", config.DefaultHost, "Interface to bind")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	serveCmd.Flags().IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Request read timeout in seconds")
	serveCmd.Flags().IntVar(&f.writeTimeout, "write-timeout", 0, "Response write timeout in seconds (0 = unlimited)")
	serveCmd.Flags().IntVar(&f.blockDuration, "block-duration", config.DefaultBlockDuration, "How long a blocking worker holds the lock, in seconds")
	serveCmd.Flags().IntVar(&f.maxTimeout, "max-timeout", config.DefaultMaxTimeoutDuration, "Upper bound for timeout simulations, in seconds")
	serveCmd.Flags().StringVar(&f.backendURL, "backend-url", config.DefaultBackendBaseURL, "Base URL of the external backend service")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.Flags().StringVar(&f.logFile, "log-file", "", "File to tee a JSON copy of every log record into")
}

// applyFlags overlays explicitly set flags onto the loaded configuration.
// changed reports whether a flag was set on the command line; defaults do
// not clobber file or environment values.
func applyFlags(cfg *config.Config, f *serveFlags, changed func(string) bool) {
	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("read-timeout") {
		cfg.Server.ReadTimeout = f.readTimeout
	}
	if changed("write-timeout") {
		cfg.Server.WriteTimeout = f.writeTimeout
	}
	if changed("block-duration") {
		cfg.Simulation.DefaultBlockDuration = f.blockDuration
	}
	if changed("max-timeout") {
		cfg.Simulation.MaxTimeoutDuration = f.maxTimeout
	}
	if changed("backend-url") {
		cfg.Backend.BaseURL = f.backendURL
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if changed("log-file") {
		cfg.Logging.File = f.logFile
	}
}

// buildLogger constructs the process logger. When a log file is configured
// a JSON copy of every record is teed into it; the caller owns the returned
// file and must close it on shutdown.
func buildLogger(cfg config.LoggingConfig) (*slog.Logger, *os.File, error) {
	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.Level),
		Format: logging.ParseFormat(cfg.Format),
		Output: os.Stderr,
	}

	if cfg.File == "" {
		return logging.New(logCfg), nil, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.NewTee(logCfg, file), file, nil
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyFlags(cfg, f, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logFile, err := buildLogger(cfg.Logging)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	store := storage.NewInMemoryItemStore()
	controller := simulation.NewController(simulation.Config{
		HoldDuration: cfg.Simulation.HoldDuration(),
		MaxTimeout:   cfg.Simulation.MaxTimeout(),
		Logger:       logger,
	})
	backend := backendclient.New(cfg.Backend.BaseURL,
		backendclient.WithTimeout(time.Duration(cfg.Backend.Timeout)*time.Second))

	srv := api.NewServer(cfg,
		api.WithLogger(logger),
		api.WithStore(store),
		api.WithController(controller),
		api.WithBackendClient(backend),
	)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	printServeStartupMessage(cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	fmt.Println("\nShutting down...")

	if err := srv.Stop(); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	fmt.Println("Server stopped")
	return nil
}

func printServeStartupMessage(cfg *config.Config) {
	addr := cfg.Server.Addr()
	fmt.Printf("%s v%s\n\n", cfg.App.Name, cfg.App.Version)
	fmt.Printf("  API:      http://%s\n", addr)
	fmt.Printf("  OpenAPI:  http://%s/openapi.json\n", addr)
	fmt.Printf("  Health:   http://%s/health\n", addr)
	fmt.Printf("  Metrics:  http://%s/metrics\n", addr)
	fmt.Printf("  Backend:  %s\n\n", cfg.Backend.BaseURL)
	fmt.Println("Press Ctrl+C to stop")
}
