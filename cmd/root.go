// Package cmd provides the root command and CLI setup for constscan.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"constscan.dev/pkg/constscan/internal/adapter"
	"constscan.dev/pkg/constscan/internal/controller"
	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var parsers *adapter.ParserRegistry
var analyzer domain.Analyzer

// workflow overrides the per-command workflow when set.
var workflow domain.Workflow

var reportsOutputDirFlag string
var excludePatterns []string
var runParallelFlag int
var languagesFlag []string
var formatFlag string
var verboseFlag bool
var logFileFlag string

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewYAMLReportStore()
	parsers = adapter.NewDefaultParserRegistry()
	analyzer = domain.NewAnalyzer(fsAdapter, parsers)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./app ./lib    scan multiple directories (one level deep)
  - Foo.kt         scan a single file`

const rootLongDescription = `Constscan finds Java and Kotlin classes, objects and files that hold
nothing but constants. Such units only namespace values and can be replaced
by top-level constants.

` + pathPatternsHelp

const checkLongDescription = `Check the given paths (default: ./...) and report every unit that only
contains constants. The report is saved to the output directory.

` + pathPatternsHelp

const listLongDescription = `List every declaration unit with its kind, member counts per role and
verdict.

` + pathPatternsHelp

const watchLongDescription = `Check the given paths, then re-check changed files until interrupted.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "constscan",
		Short:        "Find classes and files that only hold constants",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", defaultReportsDir, "report directory (empty disables the saved report)")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputFlagName)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude paths matching a glob, e.g. **/generated/** (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of files analysed in parallel")
	bindFlagToConfig(flags.Lookup(runParallelFlagName), runParallelConfigKey)

	flags.StringSliceVarP(&languagesFlag, languagesFlagName, "l", defaultLanguages, "languages to analyse")
	bindFlagToConfig(flags.Lookup(languagesFlagName), languagesConfigKey)

	flags.StringVarP(&formatFlag, formatFlagName, "f", defaultFormat, "report format: table, text or yaml")
	bindFlagToConfig(flags.Lookup(formatFlagName), formatConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// commandContext returns the command's context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// resolveWorkflow builds the workflow for cmd. cancel runs when the user
// leaves the interactive view.
func resolveWorkflow(cmd *cobra.Command, cancel context.CancelFunc) (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	format, err := controller.ParseFormat(viper.GetString(formatConfigKey))
	if err != nil {
		return nil, err
	}

	ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()), format, cancel)

	return domain.NewWorkflow(fsAdapter, reportStore, ui, analyzer, parsers), nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// parseLanguages validates language names against the registered parsers.
func parseLanguages(names []string) ([]m.Language, error) {
	known := parsers.Languages()
	langs := make([]m.Language, 0, len(names))

	for _, name := range names {
		lang := m.Language(strings.ToLower(strings.TrimSpace(name)))
		if lang == "" {
			continue
		}

		if !containsLanguage(known, lang) {
			return nil, fmt.Errorf("unsupported language %q (want one of %v)", name, known)
		}

		langs = append(langs, lang)
	}

	return langs, nil
}

func containsLanguage(langs []m.Language, lang m.Language) bool {
	for _, candidate := range langs {
		if candidate == lang {
			return true
		}
	}

	return false
}

// scanArgsFromConfig collects the file selection shared by check, list and watch.
func scanArgsFromConfig(args []string) (domain.ScanArgs, error) {
	langs, err := parseLanguages(viper.GetStringSlice(languagesConfigKey))
	if err != nil {
		return domain.ScanArgs{}, err
	}

	return domain.ScanArgs{
		Paths:     parsePaths(args),
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Languages: langs,
		Parallel:  viper.GetInt(runParallelConfigKey),
	}, nil
}

func debounceFromConfig() time.Duration {
	millis := viper.GetInt(debounceConfigKey)
	if millis <= 0 {
		return adapter.DefaultDebounce
	}

	return time.Duration(millis) * time.Millisecond
}
