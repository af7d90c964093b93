package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects set up on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		projects, err := config.ExistingProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No projects found. Run `shuttle init` to set one up.")
			return nil
		}
		for _, name := range projects {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
