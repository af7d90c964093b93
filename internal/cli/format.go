package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/names"
)

var formatCmd = &cobra.Command{
	Use:   "format <project>",
	Short: "Preview how requested names will be formatted",
	Long: `Preview the formatted folder names that "shuttle create" would produce
for the given inputs, without creating anything. Prefixes are added,
tags and ranges expanded, and the names checked against the grammar and
the name templates.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().StringSlice("sub", nil, "subject name(s) to format")
	formatCmd.Flags().StringSlice("ses", nil, "session name(s) to format")
}

func runFormat(cmd *cobra.Command, args []string) error {
	p, err := projectFromArg(args)
	if err != nil {
		return err
	}

	subs, _ := cmd.Flags().GetStringSlice("sub")
	sess, _ := cmd.Flags().GetStringSlice("ses")
	if len(subs) == 0 && len(sess) == 0 {
		return fmt.Errorf("pass at least one name with --sub or --ses")
	}

	batches := []struct {
		prefix names.Prefix
		input  []string
	}{{names.Sub, subs}, {names.Ses, sess}}
	for _, batch := range batches {
		prefix, input := batch.prefix, batch.input
		if len(input) == 0 {
			continue
		}
		formatted, err := names.FormatNames(input, prefix, p.Templates(), time.Now)
		if err != nil {
			return err
		}
		for _, name := range formatted {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	}
	return nil
}
