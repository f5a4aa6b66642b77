package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/request"
)

func newListCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visitor requests",
		Long:  "List all visitor requests, or only those submitted by --user. Per-user listings from the local store omit request IDs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := openGateway(ctx)
			if err != nil {
				return err
			}
			defer gw.Close(ctx)

			reqs, err := gw.List(ctx, username)
			if err != nil {
				return err
			}

			if isJSON() {
				if reqs == nil {
					reqs = []*request.VisitorRequest{}
				}
				return printJSON(cmd.OutOrStdout(), reqs)
			}
			return printRequestTable(cmd.OutOrStdout(), reqs)
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "only requests submitted by this user")

	return cmd
}
