package main

import (
	"fmt"
	"os"

	"gpause/config"
	"gpause/inspect"
	"gpause/manager"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	showAll  bool
	jsonOut  bool
	loader   = config.NewLoader()
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gpause",
	Short: "Suspend and resume running applications",
	Long: `gpause lists the applications that own a window and freezes or thaws
them by suspending every thread of the process.

Core system processes are never listed. Run elevated to see executable paths
of processes owned by other users.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loader.WithConfigFile(cfgFile).Load()
		if err != nil {
			return err
		}
		settings = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gpause.yaml)")
	rootCmd.PersistentFlags().BoolVar(&showAll, "all", false, "include processes without a window")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().String("procfs", "/proc", "procfs mount to inspect (linux only)")

	_ = loader.Viper().BindPFlag("procfs.root", rootCmd.PersistentFlags().Lookup("procfs"))

	rootCmd.AddCommand(listCmd, namesCmd, suspendCmd, resumeCmd, pauseCmd, unpauseCmd, minimizeCmd, restoreCmd, killCmd, revealCmd)
}

// newManager wires the core over the host backend using the loaded config.
func newManager() (*manager.Manager, error) {
	sys, err := newSystem(settings)
	if err != nil {
		return nil, err
	}
	return manager.New(sys, settings.Policy(),
		inspect.WithDenylist(settings.DenylistSet()),
		inspect.WithRequireWindow(settings.Inspector.RequireWindow && !showAll),
	), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
