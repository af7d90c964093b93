package remote

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerateKeyPair(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "ssh_key")

	pub, err := GenerateKeyPair(keyPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pub, "ssh-ed25519 "), "public key: %s", pub)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	keyData, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	signer, err := ssh.ParsePrivateKey(keyData)
	require.NoError(t, err)

	parsedPub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pub))
	require.NoError(t, err)
	assert.Equal(t, parsedPub.Marshal(), signer.PublicKey().Marshal())
}

func TestSaveHostKeyRoundTrip(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "ssh_key")
	pub, err := GenerateKeyPair(keyPath)
	require.NoError(t, err)
	parsedPub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pub))
	require.NoError(t, err)

	knownHosts := filepath.Join(t.TempDir(), "meta", "known_hosts")
	require.NoError(t, SaveHostKey(knownHosts, "hpc.example.ac.uk", parsedPub))

	data, err := os.ReadFile(knownHosts)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "hpc.example.ac.uk")

	_, hosts, key, _, _, err := ssh.ParseKnownHosts([]byte(line))
	require.NoError(t, err)
	assert.Contains(t, hosts[0], "hpc.example.ac.uk")
	assert.Equal(t, parsedPub.Marshal(), key.Marshal())
}

func TestFingerprintFormat(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "ssh_key")
	pub, err := GenerateKeyPair(keyPath)
	require.NoError(t, err)
	parsedPub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pub))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(Fingerprint(parsedPub), "SHA256:"))
}

func TestWithPort(t *testing.T) {
	assert.Equal(t, "host:22", withPort("host"))
	assert.Equal(t, "host:2222", withPort("host:2222"))
}
