package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faizmokh/diari/internal/logger"
)

func TestRootCommandLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "journal")
	logPath := filepath.Join(dir, "diari.log")
	configPath := filepath.Join(dir, "config.toml")

	config := "data_dir = \"" + dataDir + "\"\n\n[logger]\nlevel = \"debug\"\nfile = \"" + logPath + "\"\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Cleanup(func() { logger.Init(logger.ParseLevel("info"), nil) })

	root := NewRootCommand(context.Background(), nil)
	out := executeCommand(t, root,
		"--config", configPath,
		"write", "--date", "2025-11-02", "--time", "07:00", "Config", "driven",
	)
	assertContains(t, out, "Saved [07:00] Config driven")

	if _, err := os.Stat(filepath.Join(dataDir, "2025", "2025-11.md")); err != nil {
		t.Fatalf("month file not created under data_dir: %v", err)
	}

	logs, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile log: %v", err)
	}
	if !strings.Contains(string(logs), "appended entry") {
		t.Fatalf("log file missing append record:\n%s", logs)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand(context.Background(), nil)
	want := []string{"today", "prev", "next", "jump", "list", "search", "write", "edit", "delete", "show", "export", "render"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersionFlag(t *testing.T) {
	root := NewRootCommand(context.Background(), nil)
	out := executeCommand(t, root, "--version")
	assertContains(t, out, "diari version dev")
}
