package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

var debounceFlag int

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check sources as they change",
		Long:  watchLongDescription,
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

			return wf.Watch(ctx, domain.WatchArgs{
				CheckArgs: domain.CheckArgs{
					ScanArgs: scan,
					Output:   m.Path(viper.GetString(outputFlagName)),
				},
				Debounce: debounceFromConfig(),
			})
		},
	}

	cmd.Flags().IntVar(&debounceFlag, debounceFlagName, defaultDebounceMillis, "milliseconds to wait for changes to settle")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), debounceConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
