package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/survivor/internal/config"
)

const scenario = `
name: cli
world:
  size: {x: 200, y: 200}
items:
  - type: food
    location: {x: 1, y: 0}
    charge: 3
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigEnvVar, filepath.Join(dir, "config"))
	scenarioPath := filepath.Join(dir, "cli.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(scenario), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		stdout  string
		stderr  string
	}{
		{name: "no command shows help", stdout: "Available commands:"},
		{name: "help flag", args: []string{"-h"}, stdout: "Usage: survivor <command>"},
		{name: "help for run", args: []string{"help", "run"}, stdout: "-summary-only"},
		{name: "version", args: []string{"version"}, stdout: "survivor version " + version},
		{name: "unknown command", args: []string{"dance"}, wantErr: true, stderr: "Unknown command: dance"},
		{name: "bad flag", args: []string{"run", "-nope"}, wantErr: true},
		{name: "run flag help", args: []string{"run", "-h"}, stderr: "Usage: survivor run"},
		{name: "config tree", args: []string{"config", "-tree"}, stdout: "selector root"},
		{name: "run scenario", args: []string{"run", "-ticks", "20", "-summary-only", "-color", "never", scenarioPath}, stdout: "survived after 20 ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, stdout.String(), tt.stdout)
			assert.Contains(t, stderr.String(), tt.stderr)
		})
	}
}

func TestRun_ConfigSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	t.Setenv(config.ConfigEnvVar, path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"config", "max-guns", "1"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Set configuration: max-guns = 1")

	stdout.Reset()
	require.NoError(t, run([]string{"config", "max-guns"}, &stdout, &stderr))
	assert.Equal(t, "max-guns: 1\n", stdout.String())
}
