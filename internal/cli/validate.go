package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/names"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project>",
	Short: "Check the existing folder names for naming problems",
	Long: `Check every subject and session folder name in the project against the
naming rules: grammar, duplicate ids, zero-padding consistency and the
name templates when they are switched on.

In "error" mode the first problem found aborts with a failure; in
"warn" mode every problem is reported and the command succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("mode", string(names.ModeError), `"error" or "warn"`)
	validateCmd.Flags().Bool("include-central", false, "also scan the central copy of the project")
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := projectFromArg(args)
	if err != nil {
		return err
	}

	mode := names.Mode(cmd.Flag("mode").Value.String())
	includeCentral, _ := cmd.Flags().GetBool("include-central")

	if includeCentral {
		closer, err := connectCentral(cmd.Context(), p)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
	}

	issues, err := p.ValidateProject(cmd.Context(), mode, includeCentral)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		logger.Warn(issue.Message, "kind", issue.Kind)
	}
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No naming problems found.")
	}
	return nil
}
