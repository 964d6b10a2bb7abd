package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utkarsh5026/aarjar/pkg/config"
)

func TestConfigCommand_SetGetUnset(t *testing.T) {
	th := NewTestHelper(t)

	if _, _, err := th.Run("config", "set", "repackage.workers", "2"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := os.Stat(th.Path(config.ProjectDirName, config.ConfigFileName)); err != nil {
		t.Errorf("project config not written: %v", err)
	}

	stdout, _, err := th.Run("config", "get", "repackage.workers")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "2" {
		t.Errorf("config get = %q, want 2", stdout)
	}

	stdout, _, err = th.Run("--set", "repackage.workers=7", "config", "get", "repackage.workers")
	if err != nil || strings.TrimSpace(stdout) != "7" {
		t.Errorf("command-line override: %q, %v", stdout, err)
	}

	if _, _, err := th.Run("config", "unset", "repackage.workers"); err != nil {
		t.Fatalf("config unset failed: %v", err)
	}
	if _, _, err := th.Run("config", "unset", "repackage.workers"); !config.IsNotFound(err) {
		t.Errorf("second unset: got %v, want not found", err)
	}
}

func TestConfigCommand_UserLevel(t *testing.T) {
	th := NewTestHelper(t)

	if _, _, err := th.Run("config", "set", "--level", "user", "watch.debounce", "1s"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	userFile := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "aarjar", config.ConfigFileName)
	content, err := os.ReadFile(userFile)
	if err != nil {
		t.Fatalf("user config not written: %v", err)
	}
	if !strings.Contains(string(content), `"debounce": "1s"`) {
		t.Errorf("unexpected user config:\n%s", content)
	}

	stdout, _, err := th.Run("config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	for _, want := range []string{"watch.debounce", "1s", "user", "repackage.classesEntry", "builtin"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config list missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigCommand_Rejects(t *testing.T) {
	th := NewTestHelper(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "core.editor", "vim"}},
		{"bad value", []string{"config", "set", "repackage.workers", "zero"}},
		{"builtin level", []string{"config", "set", "--level", "builtin", "repackage.workers", "2"}},
		{"bad level", []string{"config", "set", "--level", "system", "repackage.workers", "2"}},
		{"bad override", []string{"--set", "noequals", "config", "list"}},
		{"missing key", []string{"config", "get", "core.editor"}},
		{"bad log level", []string{"--log-level", "loud", "config", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := th.Run(tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestConfigFile_EscapingValuesAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
	}{
		{"clean with parent exploded dir", `{"repackage": {"explodedDir": ".."}}`, []string{"clean", "-o", "out/inner"}},
		{"repackage with parent exploded dir", `{"repackage": {"explodedDir": ".."}}`, []string{"repackage", "widget.aar", "-o", "out/inner"}},
		{"repackage with escaping extension", `{"repackage": {"extension": "/../../escaped.jar"}}`, []string{"repackage", "widget.aar", "-o", "out/inner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewTestHelper(t)
			th.WriteLibrary("widget.aar", nil)
			keep := th.WriteFile("out/keep/marker.txt", "keep")
			if err := os.MkdirAll(th.Path("out", "inner"), 0755); err != nil {
				t.Fatal(err)
			}
			th.WriteFile(filepath.Join(config.ProjectDirName, config.ConfigFileName), tt.content)

			_, _, err := th.Run(tt.args...)
			if !errors.Is(err, config.ErrInvalidValue) {
				t.Fatalf("%v: got %v, want invalid configuration value", tt.args, err)
			}
			if _, statErr := os.Stat(keep); statErr != nil {
				t.Errorf("file beside the output directory was touched: %v", statErr)
			}
			if _, statErr := os.Stat(th.Path("out", "escaped.jar")); !os.IsNotExist(statErr) {
				t.Error("output escaped the output directory")
			}
			if _, statErr := os.Stat(th.Path("widget.aar")); statErr != nil {
				t.Errorf("input was touched: %v", statErr)
			}
		})
	}
}
