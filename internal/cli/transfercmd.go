package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/names"
	"github.com/neuroblueprint/shuttle/internal/project"
	"github.com/neuroblueprint/shuttle/internal/remote"
	"github.com/neuroblueprint/shuttle/internal/transfer"
	"github.com/neuroblueprint/shuttle/internal/ui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <project>",
	Short: "Copy local project files to central storage",
	Long: `Copy local project files to central storage. The transfer is additive:
files missing on the central side are copied, existing central files
are only replaced when the local copy is newer and overwrite_old_files
is enabled, and nothing is ever deleted.

By default the active top level folder is transferred; --entire covers
both top level folders. --sub and --ses restrict the transfer to the
named folders; --datatype restricts it to datatype folders.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, args, true)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <project>",
	Short: "Copy central project files to the local machine",
	Long: `Copy central project files to the local machine, with the same additive
semantics as upload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)

	for _, cmd := range []*cobra.Command{uploadCmd, downloadCmd} {
		cmd.Flags().Bool("entire", false, "transfer both top level folders")
		cmd.Flags().StringSlice("sub", nil, "restrict the transfer to these subjects")
		cmd.Flags().StringSlice("ses", nil, "restrict the transfer to these sessions")
		cmd.Flags().StringSlice("datatype", nil, "restrict the transfer to these datatype folders")
		cmd.Flags().Bool("dry-run", false, "report what would be transferred without copying")
	}
}

func runTransfer(cmd *cobra.Command, args []string, upload bool) error {
	p, err := projectFromArg(args)
	if err != nil {
		return err
	}

	entire, _ := cmd.Flags().GetBool("entire")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	subs, _ := cmd.Flags().GetStringSlice("sub")
	sess, _ := cmd.Flags().GetStringSlice("ses")
	datatypes, _ := cmd.Flags().GetStringSlice("datatype")

	filter, err := transferFilter(subs, sess, datatypes)
	if err != nil {
		return err
	}

	local := transfer.LocalEndpoint{}
	central, closer, err := centralEndpoint(cmd.Context(), p)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	opts := transfer.OptionsFromConfig(p.Config, dryRun)
	opts.Filter = filter
	if p.Config.ShowTransferProgress && !dryRun {
		opts.Progress = progressCallback()
	}

	topLevels := []string{p.Settings.TopLevelFolder}
	if entire {
		topLevels = config.TopLevelFolders
	}

	total := &transfer.Stats{}
	for _, topLevel := range topLevels {
		localRoot := local.Join(p.Config.LocalPath, topLevel)
		centralRoot := central.Join(p.Config.CentralPath, topLevel)

		var stats *transfer.Stats
		if upload {
			stats, err = transfer.Sync(local, central, localRoot, centralRoot, opts)
		} else {
			stats, err = transfer.Sync(central, local, centralRoot, localRoot, opts)
		}
		if err != nil {
			return err
		}
		total.Copied += stats.Copied
		total.Updated += stats.Updated
		total.Skipped += stats.Skipped
		total.Bytes += stats.Bytes
	}

	verb := "transferred"
	if dryRun {
		verb = "would transfer"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d file(s) (%d new, %d updated, %d unchanged)\n",
		verb, total.Copied+total.Updated, total.Copied, total.Updated, total.Skipped)
	logger.Debug("transfer finished", "project", p.Name, "bytes", total.Bytes)
	return nil
}

// transferFilter formats the restriction names (prefixes, tags and
// ranges all apply) and builds the path filter. Templates are not
// enforced here: existing folders are transferred as they are named.
func transferFilter(subs, sess, datatypes []string) (func(rel string) bool, error) {
	var err error
	if len(subs) > 0 {
		subs, err = names.FormatNames(subs, names.Sub, names.Templates{}, time.Now)
		if err != nil {
			return nil, err
		}
	}
	if len(sess) > 0 {
		sess, err = names.FormatNames(sess, names.Ses, names.Templates{}, time.Now)
		if err != nil {
			return nil, err
		}
	}
	for _, d := range datatypes {
		if !config.IsDatatype(d) {
			return nil, fmt.Errorf("datatype %q is not recognized, must be one of %v", d, config.Datatypes)
		}
	}
	return transfer.SubSesFilter(subs, sess, datatypes), nil
}

// centralEndpoint returns the endpoint for the central side and, for
// SSH projects, the connection to close afterwards.
func centralEndpoint(ctx context.Context, p *project.Project) (transfer.Endpoint, *remote.Client, error) {
	if p.Config.ConnectionMethod == config.ConnectionSSH {
		keyPath, err := config.SSHKeyPath(p.Name)
		if err != nil {
			return nil, nil, err
		}
		knownHosts, err := config.KnownHostsPath(p.Name)
		if err != nil {
			return nil, nil, err
		}
		client, err := remote.Connect(
			ctx, p.Config.CentralHostID, p.Config.CentralHostUsername, keyPath, knownHosts)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	return transfer.LocalEndpoint{}, nil, nil
}

// progressCallback adapts the transfer's per-file updates to a
// progress bar, created lazily once the total is known.
func progressCallback() transfer.Progress {
	var bar ui.ProgressBar
	return func(rel string, action transfer.Action, done, total int) {
		if bar == nil {
			bar = deps.Progress.Start("transferring", total)
		}
		bar.SetTitle(rel)
		bar.Increment(1)
		if done == total {
			bar.Done()
		}
	}
}
