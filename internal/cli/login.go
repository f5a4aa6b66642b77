package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/client"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a visitor-pass server",
		Long:  "Log in to a running server and store the session, so request commands go to the server instead of the local store. The password is read from stdin when --password is not given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := getServerURL()
			if server == "" {
				return fmt.Errorf("no server configured; pass --server or run 'vp config set server_url <url>'")
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			c := client.New(server, "")
			info, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				cfg = CLIConfig{}
			}
			cfg.ServerURL = server
			cfg.Session = c.Session()
			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in to %s as %s (%s).\n", server, info.Username, info.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	if err := cmd.MarkFlagRequired("username"); err != nil {
		panic(err)
	}

	return cmd
}
