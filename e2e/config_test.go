//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	configPath := filepath.Join(home, "distrotui.toml")
	env := append(os.Environ(), "HOME="+home, "XDG_CONFIG_HOME="+filepath.Join(home, "config"), "XDG_STATE_HOME="+filepath.Join(home, "state"))

	cmd := exec.Command(binPath, "config", "init", "--config", configPath, "--api-url", "https://distrobuild.example.org/api")
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.FileExists(t, configPath)

	cmd = exec.Command(binPath, "config", "show", "--config", configPath, "-o", "yaml")
	cmd.Env = env
	out, err = cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "https://distrobuild.example.org/api")
}

func TestListCommandAgainstAPI(t *testing.T) {
	t.Parallel()
	api := newFakeAPI(t)
	home := t.TempDir()

	cmd := exec.Command(binPath, "packages", "list", "--api-url", api.URL+"/api", "--modules-only")
	cmd.Env = append(os.Environ(), "HOME="+home, "XDG_STATE_HOME="+filepath.Join(home, "state"))
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "kernel")
	require.True(t, api.Requested("GET /api/packages/?", "modules_only=true"))
}
