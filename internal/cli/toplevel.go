package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
)

var topLevelCmd = &cobra.Command{
	Use:   "top-level",
	Short: "Show or switch the active top level folder",
	Long: fmt.Sprintf(`Show or switch the top level folder that create, validate and transfer
operations act under. The choices are %v; new projects start on
"rawdata".`, config.TopLevelFolders),
}

var topLevelShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Print the active top level folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Settings.TopLevelFolder)
		return nil
	},
}

var topLevelSetCmd = &cobra.Command{
	Use:   "set <project> <folder>",
	Short: "Switch the active top level folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
		if err := p.SetTopLevelFolder(args[1]); err != nil {
			return err
		}
		logger.Info("top level folder switched", "project", p.Name, "folder", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topLevelCmd)
	topLevelCmd.AddCommand(topLevelShowCmd)
	topLevelCmd.AddCommand(topLevelSetCmd)
}
