package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/request"
)

func newSubmitCmd() *cobra.Command {
	var (
		username string
		d        request.Draft
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a visitor request",
		Long:  "Submit a visitor request. Against the local store --user names the requester; against a server the request is submitted as the logged-in user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := openGateway(ctx)
			if err != nil {
				return err
			}
			defer gw.Close(ctx)

			id, err := gw.Submit(ctx, username, d)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted request %s.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "requesting username (local store only)")
	cmd.Flags().StringVar(&d.VisitorName, "visitor", "", "visitor name")
	cmd.Flags().StringVar(&d.Contact, "contact", "", "visitor contact number")
	cmd.Flags().StringVar(&d.VisitDate, "date", "", "date of visit (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.Purpose, "purpose", "", "purpose of visit")

	return cmd
}
