package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/remote"
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage the SSH connection to the central host",
}

var sshSetupCmd = &cobra.Command{
	Use:   "setup <project>",
	Short: "Set up key-based SSH access to the central host",
	Long: `Set up key-based SSH access to the central host, once per project:

  1. Fetch the host's key and ask you to confirm its fingerprint.
  2. Generate a key pair for this project.
  3. Connect with your password (asked once, never stored) and install
     the public key on the host.

After setup every transfer and scan authenticates with the key.`,
	Args: cobra.ExactArgs(1),
	RunE: runSSHSetup,
}

func init() {
	rootCmd.AddCommand(sshCmd)
	sshCmd.AddCommand(sshSetupCmd)

	sshSetupCmd.Flags().Bool("accept-host-key", false, "trust the host key without the interactive prompt")
}

func runSSHSetup(cmd *cobra.Command, args []string) error {
	p, err := projectFromArg(args)
	if err != nil {
		return err
	}
	if p.Config.ConnectionMethod != config.ConnectionSSH {
		return fmt.Errorf("project %s uses connection method %q, ssh setup is not needed",
			p.Name, p.Config.ConnectionMethod)
	}
	host := p.Config.CentralHostID
	user := p.Config.CentralHostUsername

	hostKey, err := remote.FetchHostKey(cmd.Context(), host)
	if err != nil {
		return err
	}
	accepted, _ := cmd.Flags().GetBool("accept-host-key")
	if !accepted {
		accepted, err = confirmHostKey(host, remote.Fingerprint(hostKey))
		if err != nil {
			return err
		}
	}
	if !accepted {
		return fmt.Errorf("host key for %s was not accepted", host)
	}

	knownHosts, err := config.KnownHostsPath(p.Name)
	if err != nil {
		return err
	}
	if err := remote.SaveHostKey(knownHosts, host, hostKey); err != nil {
		return err
	}

	keyPath, err := config.SSHKeyPath(p.Name)
	if err != nil {
		return err
	}
	publicKey, err := remote.GenerateKeyPair(keyPath)
	if err != nil {
		return err
	}

	password, err := askPassword(user, host)
	if err != nil {
		return err
	}
	client, err := remote.ConnectWithPassword(cmd.Context(), host, user, password, knownHosts)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := client.AddAuthorizedKey(publicKey); err != nil {
		return err
	}

	// Prove the key works before declaring success.
	keyClient, err := remote.Connect(cmd.Context(), host, user, keyPath, knownHosts)
	if err != nil {
		return fmt.Errorf("key was installed but key-based login failed: %w", err)
	}
	keyClient.Close()

	logger.Info("ssh setup complete", "project", p.Name, "host", host)
	fmt.Fprintf(cmd.OutOrStdout(), "SSH access to %s is set up.\n", host)
	return nil
}

func confirmHostKey(host, fingerprint string) (bool, error) {
	if deps.Headless.IsHeadless() {
		return false, fmt.Errorf(
			"cannot confirm the host key without a terminal; verify fingerprint %s and re-run with --accept-host-key",
			fingerprint)
	}

	var accept bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Host %s presents key %s", host, fingerprint)).
		Description("Only accept if this fingerprint matches the one your admin published.").
		Affirmative("Accept").
		Negative("Reject").
		Value(&accept).
		Run()
	return accept, err
}

func askPassword(user, host string) (string, error) {
	if password := os.Getenv("SHUTTLE_SSH_PASSWORD"); password != "" {
		return password, nil
	}
	if deps.Headless.IsHeadless() {
		return "", fmt.Errorf("cannot ask for a password without a terminal; set SHUTTLE_SSH_PASSWORD")
	}

	var password string
	err := huh.NewInput().
		Title(fmt.Sprintf("Password for %s@%s", user, host)).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	return password, err
}
