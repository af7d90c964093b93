package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/names"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show or change the name templates",
	Long: `Name templates are regular expressions that subject and session names
must fully match when template checking is on. They are stored per
project and survive between runs.`,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Print the stored name templates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
		t := p.Templates()
		fmt.Fprintf(cmd.OutOrStdout(), "on: %t\nsub: %s\nses: %s\n", t.On, t.Sub, t.Ses)
		return nil
	},
}

var templatesSetCmd = &cobra.Command{
	Use:   "set <project>",
	Short: "Store new name templates",
	Long: `Store new name templates. Flags that are not passed keep their stored
values, so templates can be changed one at a time:

  shuttle templates set my_project --on --sub 'sub-\d\d\d_id-.?.?.?'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}

		t := p.Templates()
		if cmd.Flags().Changed("on") {
			t.On, _ = cmd.Flags().GetBool("on")
		}
		if cmd.Flags().Changed("sub") {
			t.Sub, _ = cmd.Flags().GetString("sub")
		}
		if cmd.Flags().Changed("ses") {
			t.Ses, _ = cmd.Flags().GetString("ses")
		}

		if err := checkTemplate(t.Sub, names.Sub); err != nil {
			return err
		}
		if err := checkTemplate(t.Ses, names.Ses); err != nil {
			return err
		}

		if err := p.SetNameTemplates(t); err != nil {
			return err
		}
		logger.Info("name templates updated", "project", p.Name, "on", t.On)
		return nil
	},
}

// checkTemplate rejects a template that can never match, by matching a
// probe name and looking for a compile failure rather than a mismatch.
func checkTemplate(pattern string, prefix names.Prefix) error {
	if pattern == "" {
		return nil
	}
	err := names.MatchTemplate("probe", prefix, templatesFor(pattern, prefix))
	var issue *names.Issue
	if err != nil && !errors.As(err, &issue) {
		return err
	}
	return nil
}

func templatesFor(pattern string, prefix names.Prefix) names.Templates {
	t := names.Templates{On: true}
	if prefix == names.Sub {
		t.Sub = pattern
	} else {
		t.Ses = pattern
	}
	return t
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesSetCmd)

	templatesSetCmd.Flags().Bool("on", false, "switch template checking on or off")
	templatesSetCmd.Flags().String("sub", "", "regular expression for subject names")
	templatesSetCmd.Flags().String("ses", "", "regular expression for session names")
}
