package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/request"
)

// newResolveCmd builds the approve or reject command.
func newResolveCmd(action request.Action) *cobra.Command {
	verb := "Approve"
	if action == request.ActionReject {
		verb = "Reject"
	}

	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: verb + " a pending visitor request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := openGateway(ctx)
			if err != nil {
				return err
			}
			defer gw.Close(ctx)

			req, err := gw.Resolve(ctx, args[0], action)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), req)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request %s %s.\n", req.ID, req.Status)
			return nil
		},
	}
}
