package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/core"
)

func TestLoadPreferences_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", PreferencesFile)

	policy, err := LoadPreferences(path, nil)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultPolicy(), policy)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "autoSave: true")
	assert.Contains(t, string(data), "alwaysAskToSaveBeforeClosingNote: true")
}

func TestLoadPreferences_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFile)
	want := core.Policy{AutoSave: false, AskBeforeClosing: true}
	require.NoError(t, SavePreferences(path, want))

	got, err := LoadPreferences(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPreferences_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFile)
	require.NoError(t, os.WriteFile(path, []byte("autoSave: false\n"), 0644))

	got, err := LoadPreferences(path, nil)
	require.NoError(t, err)
	assert.False(t, got.AutoSave)
	assert.True(t, got.AskBeforeClosing)
}

func TestLoadPreferences_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFile)
	require.NoError(t, os.WriteFile(path, []byte("autoSave: [\n"), 0644))

	got, err := LoadPreferences(path, nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Equal(t, core.DefaultPolicy(), got)
}
