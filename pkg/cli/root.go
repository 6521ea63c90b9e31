package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// jsonOutput switches command results to JSON. Persistent so every
	// subcommand honors it.
	jsonOutput bool

	// Version is injected during build
	Version = "2.0.0"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testapp",
	Short: "HTTP test service for Kubernetes experiments",
	Long: `testapp is an HTTP test service built for poking at Kubernetes
deployments: liveness and readiness behavior, resource limits, and
worker starvation.

It serves an in-memory item CRUD API with search and bulk operations,
blocking and timeout simulation endpoints, Spring Boot style actuator
endpoints, and a gateway to an external backend service.

Configuration can be provided via flags, TESTAPP_* environment
variables, or a YAML or JSON configuration file.`,
	// No Run function here means 'testapp' with no args will print help
	// text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
