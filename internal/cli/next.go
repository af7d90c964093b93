package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nextSubCmd = &cobra.Command{
	Use:   "next-sub <project>",
	Short: "Suggest the next unused subject number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
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

		next, err := p.NextSubNumber(cmd.Context(), includeCentral)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	},
}

var nextSesCmd = &cobra.Command{
	Use:   "next-ses <project> <subject>",
	Short: "Suggest the next unused session number for one subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
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

		next, err := p.NextSesNumber(cmd.Context(), args[1], includeCentral)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextSubCmd)
	rootCmd.AddCommand(nextSesCmd)

	nextSubCmd.Flags().Bool("include-central", false, "also scan the central copy of the project")
	nextSesCmd.Flags().Bool("include-central", false, "also scan the central copy of the project")
}
