package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/client"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored server session",
		Long:  "Ends the session on the server and removes it, with the server URL, from the config file. Request commands use the local store again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if cfg.Session == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			if err := client.New(cfg.ServerURL, cfg.Session).Logout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: ending server session: %v\n", err)
			}

			cfg.Session = ""
			cfg.ServerURL = ""
			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out.")
			return nil
		},
	}
}
