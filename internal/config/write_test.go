package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetKeyInFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		initial string
		key     string
		value   string
		want    string
	}{
		{name: "empty file", key: "max-guns", value: "3", want: "max-guns 3"},
		{name: "append", initial: "max-food 1\n", key: "max-guns", value: "3", want: "max-food 1\nmax-guns 3\n"},
		{name: "replace", initial: "# tuning\nmax-guns 2\nmax-food 1\n", key: "max-guns", value: "4", want: "# tuning\nmax-guns 4\nmax-food 1\n"},
		{name: "before section", initial: "max-food 1\n[run]\nticks 10\n", key: "flee-radius", value: "20", want: "max-food 1\nflee-radius 20\n[run]\nticks 10\n"},
		{name: "section key untouched", initial: "[run]\nticks 10\n", key: "ticks", value: "5", want: "ticks 5\n[run]\nticks 10\n"},
		{name: "empty value", initial: "heal-when Agent.Health < 3\n", key: "heal-when", value: "", want: "heal-when\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "nested", "config")
			if tt.initial != "" {
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, []byte(tt.initial), 0644); err != nil {
					t.Fatal(err)
				}
			}
			if err := SetKeyInFile(path, tt.key, tt.value); err != nil {
				t.Fatalf("SetKeyInFile returned error: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, string(data))
			}
			entries, err := os.ReadDir(filepath.Dir(path))
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if strings.Contains(e.Name(), ".tmp-") {
					t.Errorf("temp file left behind: %s", e.Name())
				}
			}
		})
	}
}
