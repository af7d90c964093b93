package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change a project's configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Print the project configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(p.Config)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <project> <key> <value>",
	Short: "Change one configuration value",
	Long: `Change one configuration value. The key must be one of the canonical
keys shown by "shuttle config show". The full configuration is
re-validated before it is written back.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := projectFromArg(args)
		if err != nil {
			return err
		}
		key, value := args[1], args[2]
		if err := setConfigKey(p.Config, key, value); err != nil {
			return err
		}

		configPath, err := config.ConfigPath(p.Name)
		if err != nil {
			return err
		}
		if err := config.Save(p.Config, configPath, p.Name); err != nil {
			return err
		}
		logger.Info("config updated", "project", p.Name, "key", key)
		return nil
	},
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "local_path":
		cfg.LocalPath = value
	case "central_path":
		cfg.CentralPath = value
	case "connection_method":
		cfg.ConnectionMethod = config.ConnectionMethod(value)
	case "central_host_id":
		cfg.CentralHostID = value
	case "central_host_username":
		cfg.CentralHostUsername = value
	case "overwrite_old_files":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("overwrite_old_files must be true or false, got %q", value)
		}
		cfg.OverwriteOldFiles = b
	case "transfer_verbosity":
		cfg.TransferVerbosity = value
	case "show_transfer_progress":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("show_transfer_progress must be true or false, got %q", value)
		}
		cfg.ShowTransferProgress = b
	default:
		return fmt.Errorf("%w: %q is not a recognized config key, must be one of %v",
			config.ErrUnknownKey, key, config.CanonicalKeys())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
