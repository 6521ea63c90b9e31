package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/k8s-lovers-korea/test-go-app/pkg/cli/internal/output"
	"github.com/k8s-lovers-korea/test-go-app/pkg/config"
)

var configCmdPath string

// configCmd prints the effective configuration: defaults merged with the
// optional config file and TESTAPP_* environment overrides.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the configuration the server would start with: defaults, then
the optional configuration file, then TESTAPP_* environment variables.
The output is YAML, or JSON with --json.`,
	Example: `  # Effective defaults
  testapp config

  # What a config file resolves to
  testapp config --config config.yaml

  # As JSON
  testapp config --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configCmdPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		if jsonOutput {
			return output.JSON(cfg)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("rendering configuration: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configCmdPath, "config", "c", "", "Path to configuration file (YAML or JSON)")
}
