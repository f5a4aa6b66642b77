package cli

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visitor request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := openGateway(ctx)
			if err != nil {
				return err
			}
			defer gw.Close(ctx)

			req, err := gw.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), req)
			}
			printRequest(cmd.OutOrStdout(), req)
			return nil
		},
	}
}
