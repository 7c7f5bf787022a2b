// Package cli configuration commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration (show, init, set)",
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())

	return configCmd
}

func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}

			fmt.Printf("Config file:   %s\n", path)
			fmt.Printf("API URL:       %s\n", cfg.APIBaseURL)
			fmt.Printf("Notifications: enabled=%t interval=%s\n",
				cfg.Notifications.Enabled, cfg.PollInterval())
			return nil
		},
	}
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}

			if err := config.New().Save(path); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s\n", path)
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' command.
func newConfigSetCmd() *cobra.Command {
	var apiURL string
	var pollSeconds int
	var toasts bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update config file values",
		Long: `Update one or more settings and save the config file.

Example:
  cloudbox config set --api-url https://box.example.com/api
  cloudbox config set --poll-seconds 60 --toasts=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("api-url") {
				cfg.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("poll-seconds") {
				cfg.Notifications.PollIntervalSeconds = pollSeconds
			}
			if cmd.Flags().Changed("toasts") {
				cfg.Notifications.Enabled = toasts
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "API base URL")
	cmd.Flags().IntVar(&pollSeconds, "poll-seconds", 30, "Notification poll interval in seconds")
	cmd.Flags().BoolVar(&toasts, "toasts", true, "Enable desktop notifications")

	return cmd
}
