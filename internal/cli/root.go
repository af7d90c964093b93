// Package cli provides the cobra command tree for shuttle. This file
// wires the shared dependencies (theme, headless detection, progress
// display) that every command draws on.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/project"
	"github.com/neuroblueprint/shuttle/internal/ui"
	"github.com/neuroblueprint/shuttle/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "shuttle",
	Short: "Standardized folder management and transfer for neuroscience projects",
	Long: `Shuttle creates standardized subject/session project folders, validates
their names against the project-wide conventions, and syncs data between
a local machine and central storage over SSH or a mounted filesystem.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		logFile, _ := cmd.Flags().GetString("log-file")
		return logger.Configure(level, logFile)
	},
}

// Dependencies holds the shared services CLI commands draw on. This is
// the only place where the concrete UI types are instantiated.
type Dependencies struct {
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Progress ui.Progress
}

var deps *Dependencies

// InitDependencies wires the shared services. It is called once at
// startup and again from tests that need a fresh state.
func InitDependencies() {
	theme := ui.NewTheme()
	hm := ui.NewHeadlessManager()
	deps = &Dependencies{
		Theme:    theme,
		Headless: hm,
		Progress: ui.NewProgress(theme, hm),
	}
}

// Execute runs the root command.
func Execute() error {
	InitDependencies()
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("shuttle %s\n", version.GetVersion()))
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also append logs to this file")
}

// projectFromArg loads the project named by the required first
// positional argument.
func projectFromArg(args []string) (*project.Project, error) {
	return project.New(args[0])
}
