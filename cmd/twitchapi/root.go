package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"twitchapi/pkg/auth"
	"twitchapi/pkg/config"
	"twitchapi/pkg/helix"
	"twitchapi/pkg/logger"
)

var (
	version = "1.0.0"

	// Global flags
	configFile  string
	logLevel    string
	profileName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twitchapi",
	Short: "A rate-limited command-line client for the Twitch Helix API",
	Long: `twitchapi queries the Twitch Helix API for stream, user and follow data.

All requests are gated by a local rate limiter matching the Helix quota
of 800 points per minute, so bulk queries never trip the upstream limit.

Credentials can come from stored profiles ('twitchapi auth login'),
environment variables (TWITCHAPI_CLIENT_ID / TWITCHAPI_AUTH_TOKEN) or a
configuration file.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.twitchapi.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "stored credential profile to use")
}

// buildClient assembles configuration, resolves credentials and returns a
// ready Helix client
func buildClient() (*helix.Client, *config.Config, error) {
	flags := map[string]interface{}{
		"log-level": logLevel,
	}

	cfg, err := config.LoadUnvalidated(configFile, flags)
	if err != nil {
		return nil, nil, err
	}

	// Fall back to stored credential profiles when the config and
	// environment carry no credentials
	if cfg.Twitch.ClientID == "" || cfg.Twitch.AuthToken == "" {
		if manager, err := auth.NewManager(); err == nil {
			var profile *auth.Profile
			if profileName != "" {
				profile, err = manager.Retrieve(profileName)
			} else {
				profile, err = manager.RetrieveDefault()
			}
			if err == nil && profile != nil {
				cfg.Twitch.ClientID = profile.ClientID
				cfg.Twitch.AuthToken = profile.AuthToken
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("run 'twitchapi auth login' or set TWITCHAPI_CLIENT_ID and TWITCHAPI_AUTH_TOKEN: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, nil, err
	}

	return helix.NewClientWithConfig(cfg, logger.GetLogger()), cfg, nil
}
