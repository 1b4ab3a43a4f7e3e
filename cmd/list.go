package cmd

import (
	"github.com/spf13/cobra"

	"constscan.dev/pkg/constscan/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List declaration units and their verdicts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			scan, err := scanArgsFromConfig(args)
			if err != nil {
				return err
			}

			wf, err := resolveWorkflow(cmd, cancel)
			if err != nil {
				return err
			}

			return wf.List(ctx, domain.ListArgs{ScanArgs: scan})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
