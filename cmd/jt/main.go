package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/config"
	"github.com/jtcli/jt/internal/debug"
	"github.com/jtcli/jt/internal/ui"
)

// Version is set at build time with -ldflags.
var Version = "1.0.0"

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
	noPager     bool
	configFile  string

	cfg *config.Config

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

// Command groups shown in help output.
const (
	GroupTickets = "tickets"
	GroupPeople  = "people"
	GroupSprints = "sprints"
	GroupSetup   = "setup"
)

var rootCmd = &cobra.Command{
	Use:           "jt",
	Short:         "jt - Jira tickets from the terminal",
	Long:          `View, list, create and update Jira Cloud tickets without leaving the shell.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(requireCommand())
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		if jsonOutput {
			ui.DisableColor()
		}

		loaded, err := config.Load(config.Options{
			ConfigFile: configFile,
			EnvFile:    config.DefaultEnvFile,
		})
		exitOnError(err)
		cfg = loaded
		debug.Logf("config: file=%q domain=%q cache=%q\n", cfg.File, cfg.Domain, cfg.CacheDir)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noPager, "no-pager", false, "Disable the pager for long output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <user config dir>/jt/config.yaml)")

	rootCmd.AddGroup(&cobra.Group{ID: GroupTickets, Title: "Working With Tickets:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupPeople, Title: "People:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSprints, Title: "Sprints & Estimates:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup:"})

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		if cmd == rootCmd {
			fmt.Fprint(cmd.OutOrStdout(), environmentHelp())
		}
	})
}

// environmentHelp renders the help epilogue listing configuration state.
// Help runs before PersistentPreRun, so config is loaded here if needed.
func environmentHelp() string {
	c := cfg
	if c == nil {
		loaded, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: config.DefaultEnvFile})
		if err != nil {
			return "\n" + ui.RenderWarn("Environment Variables: "+err.Error()) + "\n"
		}
		c = loaded
	}

	var sb strings.Builder
	sb.WriteString("\n" + ui.RenderLabel("Environment Variables:") + "\n")
	for _, line := range c.Status() {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

// requireCommand rejects a bare jt; help is behind --help.
func requireCommand() error {
	return usageErrorf("A command is required. Use --help to see available commands.")
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyVerbosityFlags propagates --verbose and --quiet to the debug package.
func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Flag and argument errors from cobra land here.
		exitOnError(usageErrorf("%v", err))
	}
}
