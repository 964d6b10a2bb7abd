package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/pkg/common/logger"
)

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	CommitSHA = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
	verbose   bool
	sets      []string

	loaded *settings
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "aarjar",
		Short: "aarjar - repackage Android archives as plain jars",
		Long: `aarjar extracts Android archive packages (.aar) and copies the
compiled classes they carry to standalone .jar files that any JVM build can
consume as a plain library dependency.`,
		Version:       fmt.Sprintf("%s (built: %s, commit: %s)", Version, BuildTime, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, flags)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (text, json)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output (sets log level to debug)")
	pf.StringArrayVar(&flags.sets, "set", nil, "Override a configuration key for this run (key=value, repeatable)")

	rootCmd.AddCommand(newRepackageCmd(flags))
	rootCmd.AddCommand(newInspectCmd(flags))
	rootCmd.AddCommand(newCleanCmd(flags))
	rootCmd.AddCommand(newWatchCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

// setupLogging resolves the log level and format from flags, then
// configuration, then defaults, and installs the result as logger.Default.
func setupLogging(cmd *cobra.Command, flags *globalFlags) error {
	settings, loadErr := flags.load(cmd)
	if loadErr != nil {
		return loadErr
	}

	levelName := settings.typed.LogLevel()
	if flags.logLevel != "" {
		levelName = flags.logLevel
	}
	level, levelErr := logger.ParseLevel(levelName)
	if levelErr != nil {
		return levelErr
	}
	if flags.verbose {
		level = logger.LevelDebug
	}

	formatName := settings.typed.LogFormat()
	if flags.logFormat != "" {
		formatName = flags.logFormat
	}
	format, formatErr := logger.ParseFormat(formatName)
	if formatErr != nil {
		return formatErr
	}

	logger.Default = logger.New(logger.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}
