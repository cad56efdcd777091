package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/survivor/internal/config"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register(NewHelpCommand(r))
	r.Register(NewVersionCommand("1.0.0"))
	r.Register(NewRunCommand(nil))

	var stdout, stderr bytes.Buffer
	require.NoError(t, r.commands["help"].Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage: survivor <command>")
	assert.Contains(t, stdout.String(), "Run the agent against a scenario")

	stdout.Reset()
	require.NoError(t, r.commands["help"].Execute([]string{"run"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage: run [options] [scenario.yaml]")
	assert.Contains(t, stdout.String(), "-ticks")

	stdout.Reset()
	require.NoError(t, r.commands["help"].Execute([]string{"version"}, &stdout, &stderr))
	assert.NotContains(t, stdout.String(), "Flags:")

	require.Error(t, r.commands["help"].Execute([]string{"nope"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command: nope")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := NewVersionCommand("1.2.3")
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Equal(t, "survivor version 1.2.3\n", stdout.String())
	require.Error(t, cmd.Execute([]string{"extra"}, &stdout, &stderr))
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	newCmd := func(global map[string]string) *ConfigCommand {
		cfg := config.NewConfig()
		for k, v := range global {
			cfg.SetGlobalOption(k, v)
		}
		cfg.SetCommandOption("run", "ticks", "50")
		return NewConfigCommand(cfg, "")
	}

	tests := []struct {
		name   string
		global map[string]string
		all    bool
		tree   bool
		args   []string
		want   []string
		absent []string
	}{
		{name: "usage", want: []string{"Configuration management:"}},
		{name: "all", all: true, global: map[string]string{"max-food": "2"}, want: []string{"Global configuration:", "  max-food: 2", "[run]", "  ticks: 50"}},
		{name: "get default", args: []string{"flee-radius"}, want: []string{"flee-radius: 50\n"}},
		{name: "get configured", global: map[string]string{"flee-radius": "12"}, args: []string{"flee-radius"}, want: []string{"flee-radius: 12\n"}},
		{name: "get unknown", args: []string{"nope"}, want: []string{"Configuration key 'nope' not found"}},
		{name: "schema", args: []string{"schema"}, want: []string{"Global Options:", "branch-order", "[run] Options:"}},
		{name: "validate ok", args: []string{"validate"}, want: []string{"Configuration is valid."}},
		{name: "validate bad", global: map[string]string{"max-guns": "x", "heal-when": "Agent.Health <"}, args: []string{"validate"}, want: []string{"issue(s):", `"max-guns": expected int`, "heal-when"}},
		{name: "tree", tree: true, want: []string{"selector root\n", "  selector combat\n", "action ShootTarget"}},
		{name: "tree custom order", tree: true, global: map[string]string{"branch-order": "wander"}, want: []string{"selector root\n  action wander\n"}, absent: []string{"combat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := newCmd(tt.global)
			cmd.showAll = tt.all
			cmd.showTree = tt.tree
			var stdout, stderr bytes.Buffer
			require.NoError(t, cmd.Execute(tt.args, &stdout, &stderr))
			for _, want := range tt.want {
				assert.Contains(t, stdout.String(), want)
			}
			for _, absent := range tt.absent {
				assert.NotContains(t, stdout.String(), absent)
			}
		})
	}

	t.Run("tree with bad order", func(t *testing.T) {
		t.Parallel()
		cmd := newCmd(map[string]string{"branch-order": "dance"})
		cmd.showTree = true
		var stdout, stderr bytes.Buffer
		require.Error(t, cmd.Execute(nil, &stdout, &stderr))
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		require.Error(t, newCmd(nil).Execute([]string{"a", "b", "c"}, &stdout, &stderr))
	})
}

func TestConfigCommand_SetPersists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	cfg := config.NewConfig()
	cmd := NewConfigCommand(cfg, path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute([]string{"max-medkits", "3"}, &stdout, &stderr))
	assert.Equal(t, "3", cfg.Global["max-medkits"])
	assert.Empty(t, stderr.String())

	require.NoError(t, cmd.Execute([]string{"shoe-size", "9"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `"shoe-size" is not a known option`)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "3", loaded.Global["max-medkits"])
}

func TestInitCommand(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")
	cmd := NewInitCommand(path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Initialized survivor configuration at: "+path)
	assert.Empty(t, stderr.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# max-guns 2\n")
	assert.Contains(t, string(data), "[run]\n")

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Global)
	assert.False(t, loaded.HasWarnings())

	stdout.Reset()
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Configuration already exists")

	cmd.force = true
	stdout.Reset()
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Initialized")
}
