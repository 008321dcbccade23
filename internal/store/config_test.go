package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_Missing(t *testing.T) {
	t.Setenv("PAGETALK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != (Config{}) {
		t.Fatalf("expected zero config; got %+v", cfg)
	}
}

func TestSaveLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGETALK_CONFIG_DIR", dir)

	want := Config{
		API:    "https://api.example.com/1.1",
		AppID:  "id",
		AppKey: "key",
		Class:  "MyComments",
	}
	if err := SaveConfig(&want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != want {
		t.Fatalf("expected %+v; got %+v", want, got)
	}

	// The config carries the app key and must not be group/world readable.
	info, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600; got %o", perm)
	}
}

func TestSaveConfig_KeepsBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGETALK_CONFIG_DIR", dir)

	if err := SaveConfig(&Config{AppID: "first"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveConfig(&Config{AppID: "second"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	if err != nil {
		t.Fatalf("expected backup of previous config: %v", err)
	}
	if !strings.Contains(string(b), "first") {
		t.Fatalf("expected previous config in backup; got %q", b)
	}
}
