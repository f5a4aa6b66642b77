package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI defaults",
		Long:  "Show or change the defaults stored in ~/.config/vp/config.yaml. Environment variables override these values.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the CLI config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), cfg)
				}

				keys := make([]string, 0, len(configKeys))
				for k := range configKeys {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				for _, k := range keys {
					v, _ := cfg.field(k)
					fmt.Fprintf(cmd.OutOrStdout(), "%-11s %s\n", k+":", *v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a CLI default",
			Long:  "Set a CLI default. Keys: store, db_path, mongo_url, mongo_db, logo_path, server_url. An empty value clears the key.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				dst, err := cfg.field(args[0])
				if err != nil {
					return err
				}
				*dst = args[1]

				if err := saveConfig(cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s.\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
