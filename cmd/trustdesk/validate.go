package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"paythru/trustdesk/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a configuration file without starting the server.

All validation failures are reported, not just the first.

Examples:
  # Validate the default config file
  trustdesk validate

  # Validate a specific file
  trustdesk validate --config /etc/trustdesk/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	_, err := config.LoadConfig(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Println("✗ Configuration invalid:")
			for _, fe := range verr.Errors {
				fmt.Printf("  - %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(verr.Errors))
		}
		return err
	}

	fmt.Println("✓ Configuration valid")
	return nil
}
