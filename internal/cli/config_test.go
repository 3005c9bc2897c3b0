package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackflame/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
title = "CPU"
colors = "java"
hash = true
width = 1600.0

[serve]
addr = ":9090"
`)
	cfg, got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Title != "CPU" || cfg.Colors != "java" || !cfg.Hash || cfg.Width != 1600 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("serve.addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" || cfg != (renderConfig{}) {
		t.Errorf("loadConfig(\"\") = %+v, %q", cfg, path)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if err := os.MkdirAll(filepath.Join(home, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(home, appName), "config.toml", `title = "From XDG"`)

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "From XDG" {
		t.Errorf("Title = %q", cfg.Title)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing explicit", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"unknown key", writeFile(t, dir, "unknown.toml", "titel = \"typo\"\n"), errors.ErrCodeInvalidOption},
		{"bad syntax", writeFile(t, dir, "bad.toml", "title = \n"), errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadConfig(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	cfg := renderConfig{Title: "Config", Colors: "mem", Width: 800, Hash: true}
	f := defaultRenderFlags()
	f.title = "Flag"

	changed := map[string]bool{"title": true}
	cfg.apply(&f, func(name string) bool { return changed[name] })

	if f.title != "Flag" {
		t.Errorf("explicit flag overridden: %q", f.title)
	}
	if f.colors != "mem" || f.width != 800 || !f.hash {
		t.Errorf("config not applied: %+v", f)
	}
	if f.height != 16 {
		t.Errorf("unset config value changed height to %g", f.height)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/x.map"); got != filepath.Join(home, "x.map") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/x.map"); got != "/abs/x.map" {
		t.Errorf("expandHome = %q", got)
	}
}
