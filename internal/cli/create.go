package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
)

var createCmd = &cobra.Command{
	Use:   "create <project>",
	Short: "Create standardized subject and session folders",
	Long: `Create standardized subject and session folders under the active top
level folder of the local project.

Names may be passed bare ("001" becomes "sub-001"), may carry extra
key-value pairs ("sub-001_id-5XG"), and may use placeholder tags:

  @DATE@ @TIME@ @DATETIME@   expand against the current clock
  sub-001@TO@005             expands to a run of names

Examples:
  shuttle create my_project --sub 001 --ses 001 --datatype behav
  shuttle create my_project --sub sub-002@TO@005 --ses ses-001_@DATE@`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringSlice("sub", nil, "subject name(s) to create")
	createCmd.Flags().StringSlice("ses", nil, "session name(s) to create within each subject")
	createCmd.Flags().StringSlice("datatype", nil,
		fmt.Sprintf("datatype folder(s) to create within each session, from %v or \"all\"", config.Datatypes))
}

func runCreate(cmd *cobra.Command, args []string) error {
	p, err := projectFromArg(args)
	if err != nil {
		return err
	}

	subs, _ := cmd.Flags().GetStringSlice("sub")
	sess, _ := cmd.Flags().GetStringSlice("ses")
	datatypes, _ := cmd.Flags().GetStringSlice("datatype")

	created, err := p.MakeFolders(cmd.Context(), subs, sess, datatypes)
	if err != nil {
		return err
	}
	for _, path := range created {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
