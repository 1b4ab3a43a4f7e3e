package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the last saved report",
		Long:  "View the report saved by the last check from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			wf, err := resolveWorkflow(cmd, cancel)
			if err != nil {
				return err
			}

			reportsPath := m.Path(viper.GetString(outputFlagName))
			_, err = wf.View(ctx, domain.ViewArgs{Output: reportsPath})

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
