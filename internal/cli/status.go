package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/client"
	"github.com/evcraddock/visitor-pass/internal/config"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where request commands go and who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			server := getServerURL()
			if server == "" {
				return localStatus(out)
			}

			fmt.Fprintf(out, "Server:  %s\n", server)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Session == "" || cfg.ServerURL != server {
				fmt.Fprintln(out, "Status:  not logged in")
				fmt.Fprintln(out, "\nRun 'vp login' to authenticate.")
				return nil
			}

			info, err := client.New(server, cfg.Session).Whoami(cmd.Context())
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				fmt.Fprintln(out, "Status:  ✗ session expired")
				fmt.Fprintln(out, "\nRun 'vp login' to re-authenticate.")
			case err != nil:
				fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
			default:
				fmt.Fprintf(out, "User:    %s (%s)\n", info.Username, info.Role)
				fmt.Fprintln(out, "Status:  ✓ connected and authenticated")
			}
			return nil
		},
	}
}

func localStatus(out io.Writer) error {
	cfg, err := settings()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Store:   %s\n", cfg.Store)
	switch cfg.Store {
	case config.StoreMongo:
		fmt.Fprintf(out, "MongoDB: %s\n", cfg.MongoDB)
	default:
		fmt.Fprintf(out, "DB:      %s\n", cfg.DBPath)
	}
	return nil
}
