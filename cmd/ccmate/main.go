package main

import (
	"fmt"
	"os"

	"github.com/ruminaider/ccmate/internal/config"
	"github.com/ruminaider/ccmate/internal/logging"
	"github.com/ruminaider/ccmate/internal/paths"
	"github.com/ruminaider/ccmate/internal/profiles"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	flagHome    string
	flagVerbose bool
	flagDebug   bool

	// Set by setup before any subcommand runs.
	layout paths.Layout
	logger logging.Logger
)

var rootCmd = &cobra.Command{
	Use:               "ccmate",
	Short:             "Manage Claude Code configuration profiles, MCP servers and templates",
	Long:              "ccmate resolves Claude Code configuration across user, plugin, project and local scopes, switches settings profiles, and installs reversible templates.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: list MCP servers for the current directory
		return mcpListCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ccmate %s\n", version)
	},
}

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Show this installation's distinct id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := profiles.NewStore(layout, logger).DistinctID()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

// setup loads ~/.ccconfig/config.yaml and CCMATE_* overrides. Flags win over
// both.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(paths.At(flagHome).ConfigFile())
	if err != nil {
		return err
	}

	home := flagHome
	if home == "" {
		home = cfg.Home
	}
	layout = paths.At(home)
	logger = logging.Logger{
		Verbose: flagVerbose || cfg.Verbose,
		Debug:   flagDebug || cfg.Debug,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}
	logger.Debugf("home %s", layout.Home)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "Home directory to operate on (default: current user's home)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log each file ccmate writes")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log source resolution details")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(idCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(notificationCmd)
}

// execute runs the command line and returns the process exit code.
func execute() int {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute())
}
