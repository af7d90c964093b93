package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Set up a new project",
	Long: `Set up a new project: where it lives locally, where its central copy
lives, and how the central copy is reached.

Run without flags for the interactive wizard, or pass everything as
flags for scripted setup:

  shuttle init my_project --connection-method local_filesystem \
      --local-path /data/my_project --central-path /mnt/server/my_project`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("connection-method", "", `how central storage is reached: "ssh" or "local_filesystem"`)
	initCmd.Flags().String("local-path", "", "full path of the local project folder, ending in the project name")
	initCmd.Flags().String("central-path", "", "full path of the central project folder")
	initCmd.Flags().String("central-host-id", "", "address of the central host (ssh only)")
	initCmd.Flags().String("central-host-username", "", "account name on the central host (ssh only)")
	initCmd.Flags().Bool("non-interactive", false, "skip the wizard and use flags only")
	initCmd.Flags().Bool("skip-parent-check", false, "do not require the folders above the project paths to exist")
}

func runInit(cmd *cobra.Command, args []string) error {
	answers, err := initAnswers(cmd, args)
	if err != nil {
		return err
	}

	cfg := config.NewDefaultConfig()
	cfg.LocalPath = answers.LocalPath
	cfg.CentralPath = answers.CentralPath
	cfg.ConnectionMethod = config.ConnectionMethod(answers.ConnectionMethod)
	cfg.CentralHostID = answers.CentralHostID
	cfg.CentralHostUsername = answers.CentralHostUsername

	if err := config.Validate(cfg, answers.ProjectName); err != nil {
		return err
	}
	if skip, _ := cmd.Flags().GetBool("skip-parent-check"); !skip {
		if err := config.CheckParentDirs(cfg); err != nil {
			return err
		}
	}

	configPath, err := config.ConfigPath(answers.ProjectName)
	if err != nil {
		return err
	}
	if err := config.Save(cfg, configPath, answers.ProjectName); err != nil {
		return err
	}

	settingsPath, err := config.SettingsPath(answers.ProjectName)
	if err != nil {
		return err
	}
	if err := config.SaveSettings(config.NewDefaultSettings(), settingsPath); err != nil {
		return err
	}

	logger.Info("project initialized", "project", answers.ProjectName, "config", configPath)
	if cfg.ConnectionMethod == config.ConnectionSSH {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Project %s is set up. Run `shuttle ssh setup %s` to connect to the central host.\n",
			answers.ProjectName, answers.ProjectName)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Project %s is set up.\n", answers.ProjectName)
	}
	return nil
}

// initAnswers collects the setup answers from flags or, when the
// terminal allows, from the wizard. Flags pre-fill the wizard as
// headless defaults.
func initAnswers(cmd *cobra.Command, args []string) (*ui.WizardResult, error) {
	defaults := map[string]string{}
	if len(args) == 1 {
		defaults["project_name"] = args[0]
	}
	for flag, key := range map[string]string{
		"connection-method":     "connection_method",
		"local-path":            "local_path",
		"central-path":          "central_path",
		"central-host-id":       "central_host_id",
		"central-host-username": "central_host_username",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			defaults[key] = v
		}
	}

	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		deps.Headless.ForceHeadless(true)
		defer deps.Headless.ClearForce()
	}
	deps.Headless.SetDefaults(defaults)
	defer deps.Headless.SetDefaults(nil)

	answers, err := ui.NewWizard(deps.Theme, deps.Headless).Run(cmd.Context())
	if err != nil {
		return nil, err
	}
	if answers.ProjectName == "" {
		return nil, fmt.Errorf("a project name is required")
	}
	if answers.ConnectionMethod == "" {
		answers.ConnectionMethod = string(config.ConnectionLocalFilesystem)
	}
	return answers, nil
}
