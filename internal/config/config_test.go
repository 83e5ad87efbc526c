package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("GITGUARD_API_URL", "")
	t.Setenv("GITGUARD_CONFIG_DIR", "")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.Equal(t, filepath.Join(tmpHome, DefaultConfigDir), s.ConfigDir)
	assert.Equal(t, DefaultHTTPTimeout, s.HTTPTimeout)
	assert.False(t, s.APIURLFromEnv)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITGUARD_API_URL", "https://staging.gitguard.net")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.gitguard.net", s.APIURL)
	assert.True(t, s.APIURLFromEnv)
}

func TestLoad_ConfigDirOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("GITGUARD_CONFIG_DIR", filepath.Join(tmp, "custom"))

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmp, "custom"), s.ConfigDir)
}

func TestLoad_TimeoutOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITGUARD_HTTP_TIMEOUT", "30s")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, s.HTTPTimeout)
}

func TestLoad_RejectsInvalidURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITGUARD_API_URL", "not a url")

	_, err := Load()
	assert.Error(t, err)
}
