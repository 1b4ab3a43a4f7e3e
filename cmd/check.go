package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

var failOnViolationFlag bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report units that only contain constants",
		Long:  checkLongDescription,
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

			report, err := wf.Check(ctx, domain.CheckArgs{
				ScanArgs: scan,
				Output:   m.Path(viper.GetString(outputFlagName)),
			})
			if err != nil {
				return err
			}

			if report.Summary.Violations > 0 && viper.GetBool(failOnViolationKey) {
				return fmt.Errorf("%w: %d", domain.ErrViolationsFound, report.Summary.Violations)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnViolationFlag, failOnViolationFlagName, defaultFailOnViolation, "exit with an error when violations are found")
	bindFlagToConfig(cmd.Flags().Lookup(failOnViolationFlagName), failOnViolationKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
