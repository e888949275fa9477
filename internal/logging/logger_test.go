package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, ws, body string) {
	t.Helper()
	dir := filepath.Join(ws, ".tabwork")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func resetState() {
	CloseAll()
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
	configLoaded = false
	logLevel = LevelInfo
}

func TestInitialize_NoConfigIsSilent(t *testing.T) {
	defer resetState()
	ws := t.TempDir()

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if IsDebugMode() {
		t.Error("debug mode should default to off without config")
	}
	if _, err := os.Stat(filepath.Join(ws, ".tabwork", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory must not be created in production mode")
	}
}

func TestInitialize_DebugModeWritesFiles(t *testing.T) {
	defer resetState()
	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Ingest("loaded %d rows", 42)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".tabwork", "logs"))
	if err != nil {
		t.Fatalf("logs dir: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.Contains(e.Name(), "ingest") {
			found = true
			data, _ := os.ReadFile(filepath.Join(ws, ".tabwork", "logs", e.Name()))
			if !strings.Contains(string(data), "loaded 42 rows") {
				t.Errorf("log content missing message: %s", data)
			}
		}
	}
	if !found {
		t.Error("no ingest log file written")
	}
}

func TestCategoryFilter(t *testing.T) {
	defer resetState()
	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  categories:\n    plot: false\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if IsCategoryEnabled(CategoryPlot) {
		t.Error("plot category should be disabled")
	}
	if !IsCategoryEnabled(CategoryStats) {
		t.Error("unlisted categories default to enabled")
	}
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	if err := Initialize(""); err == nil {
		t.Error("expected error for empty workspace")
	}
}
