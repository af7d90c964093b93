// Package remote implements the SSH side of central storage: one-time
// connection setup (host key verification, key pair generation,
// installing the public key) and an SFTP client used for scanning and
// transferring project folders.
package remote

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/neuroblueprint/shuttle/internal/logger"
	"github.com/neuroblueprint/shuttle/internal/resilience"
)

const dialTimeout = 10 * time.Second

// dialPolicy retries flaky dials but gives up immediately on failures
// that will not fix themselves.
var dialPolicy = resilience.Policy{
	MaxRetries:  2,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      true,
	ShouldRetry: isTransient,
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return false
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return false
	}
	return true
}

// Client is an authenticated connection to the central host.
type Client struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

// withPort appends the default SSH port when the host has none.
func withPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "22")
}

// FetchHostKey connects to the host just long enough to capture the
// key it presents. The key is NOT trusted yet; the caller must show
// its fingerprint to the user and only then save it.
func FetchHostKey(ctx context.Context, host string) (ssh.PublicKey, error) {
	var captured ssh.PublicKey
	cfg := &ssh.ClientConfig{
		User: "hostkey-probe",
		HostKeyCallback: func(_ string, _ net.Addr, key ssh.PublicKey) error {
			captured = key
			return nil
		},
		Timeout: dialTimeout,
	}

	err := resilience.Do(ctx, dialPolicy, func() error {
		client, err := ssh.Dial("tcp", withPort(host), cfg)
		if err != nil {
			if captured != nil {
				// Auth fails because no credentials were offered, but
				// the handshake got far enough to see the host key.
				return nil
			}
			return err
		}
		client.Close()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", host, err)
	}
	return captured, nil
}

// Fingerprint renders a host key as the SHA256 fingerprint users are
// asked to confirm.
func Fingerprint(key ssh.PublicKey) string {
	return ssh.FingerprintSHA256(key)
}

// SaveHostKey appends the accepted host key to the project's known
// hosts file.
func SaveHostKey(knownHostsPath, host string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(knownHostsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	line := knownhosts.Line([]string{withPort(host)}, key)
	if _, err := fmt.Fprintln(f, line); err != nil {
		return err
	}
	logger.Info("saved host key", "host", host, "fingerprint", Fingerprint(key))
	return nil
}

// GenerateKeyPair writes a new ed25519 private key to keyPath and
// returns the matching public key in authorized_keys format.
func GenerateKeyPair(keyPath string) (string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generating key pair: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		return "", fmt.Errorf("encoding private key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600); err != nil {
		return "", fmt.Errorf("writing private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub))), nil
}

// ConnectWithPassword opens a connection using password auth. It is
// used once during setup, before the key pair is installed on the
// host. The host key must already be in the known hosts file.
func ConnectWithPassword(ctx context.Context, host, user, password, knownHostsPath string) (*Client, error) {
	return connect(ctx, host, user, ssh.Password(password), knownHostsPath)
}

// Connect opens a connection using the project's private key.
func Connect(ctx context.Context, host, user, keyPath, knownHostsPath string) (*Client, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return connect(ctx, host, user, ssh.PublicKeys(signer), knownHostsPath)
}

func connect(ctx context.Context, host, user string, auth ssh.AuthMethod, knownHostsPath string) (*Client, error) {
	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("loading known hosts: %w", err)
	}

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}
	var sshClient *ssh.Client
	err = resilience.Do(ctx, dialPolicy, func() error {
		var dialErr error
		sshClient, dialErr = ssh.Dial("tcp", withPort(host), cfg)
		return dialErr
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", host, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("starting sftp: %w", err)
	}
	return &Client{ssh: sshClient, sftp: sftpClient}, nil
}

// AddAuthorizedKey installs the public key on the host so future
// connections can authenticate without a password.
func (c *Client) AddAuthorizedKey(publicKey string) error {
	session, err := c.ssh.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	cmd := fmt.Sprintf(
		"mkdir -p ~/.ssh && chmod 700 ~/.ssh && echo %q >> ~/.ssh/authorized_keys && chmod 600 ~/.ssh/authorized_keys",
		publicKey)
	if out, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("installing key on host: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Close shuts the SFTP session and the underlying connection.
func (c *Client) Close() error {
	if c.sftp != nil {
		c.sftp.Close()
	}
	return c.ssh.Close()
}
