package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessManager() *HeadlessManager {
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	return hm
}

func TestHeadlessManagerForce(t *testing.T) {
	hm := NewHeadlessManager()

	hm.ForceHeadless(true)
	assert.True(t, hm.IsHeadless())

	hm.ForceHeadless(false)
	assert.False(t, hm.IsHeadless())
}

func TestHeadlessManagerEnvOverride(t *testing.T) {
	t.Setenv("SHUTTLE_HEADLESS", "1")

	hm := NewHeadlessManager()
	assert.True(t, hm.IsHeadless())

	// An explicit force still wins over the environment.
	hm.ForceHeadless(false)
	assert.False(t, hm.IsHeadless())
}

func TestHeadlessManagerDefaults(t *testing.T) {
	hm := NewHeadlessManager()
	assert.False(t, hm.HasDefaults())

	hm.SetDefaults(map[string]string{"project_name": "my_project"})
	v, ok := hm.GetDefault("project_name")
	assert.True(t, ok)
	assert.Equal(t, "my_project", v)

	_, ok = hm.GetDefault("central_path")
	assert.False(t, ok)

	hm.SetDefaults(nil)
	assert.False(t, hm.HasDefaults())
}

func TestHeadlessBarOutput(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressImpl(NewTheme(), headlessManager(), &buf)

	bar := p.Start("uploading", 2)
	bar.Increment(1)
	bar.SetTitle("uploading sub-002")
	bar.Done()

	out := buf.String()
	assert.Contains(t, out, "[1/2] uploading")
	assert.Contains(t, out, "[2/2] uploading sub-002")
}

func TestHeadlessSpinnerOutput(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressImpl(NewTheme(), headlessManager(), &buf)

	s := p.Spinner("scanning central storage")
	s.SetTitle("scanning sub-001")
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "scanning central storage")
	assert.Contains(t, out, "scanning sub-001")
}

func TestWizardHeadlessUsesDefaults(t *testing.T) {
	hm := headlessManager()
	hm.SetDefaults(map[string]string{
		"project_name":          "my_project",
		"connection_method":     "ssh",
		"local_path":            "/data/my_project",
		"central_path":          "/central/my_project",
		"central_host_id":       "hpc.example.ac.uk",
		"central_host_username": "jziminski",
	})

	result, err := NewWizard(NewTheme(), hm).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my_project", result.ProjectName)
	assert.Equal(t, "ssh", result.ConnectionMethod)
	assert.Equal(t, "hpc.example.ac.uk", result.CentralHostID)
}

func TestWizardHeadlessWithoutDefaults(t *testing.T) {
	_, err := NewWizard(NewTheme(), headlessManager()).Run(context.Background())
	assert.ErrorIs(t, err, ErrHeadlessNoDefaults)
}

func TestWizardHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWizard(NewTheme(), headlessManager()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
