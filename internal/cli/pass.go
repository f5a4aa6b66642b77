package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPassCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pass <id>",
		Short: "Write the PDF pass of an approved request",
		Long:  "Write the PDF pass of an approved request. The file is named VisitorPass_<id>.pdf unless -o is given; -o - writes to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gw, err := openGateway(ctx)
			if err != nil {
				return err
			}
			defer gw.Close(ctx)

			doc, filename, err := gw.Pass(ctx, args[0])
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(doc)
				return err
			}
			if output == "" {
				output = filename
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("writing pass: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes).\n", output, len(doc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default VisitorPass_<id>.pdf)")

	return cmd
}
