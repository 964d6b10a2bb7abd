package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/logger"
	"github.com/utkarsh5026/aarjar/pkg/config"
	"github.com/utkarsh5026/aarjar/pkg/repackager"
)

// settings is the loaded configuration for one command invocation.
type settings struct {
	manager *config.Manager
	typed   *config.TypedConfig
}

// load reads configuration once per invocation.
func (f *globalFlags) load(cmd *cobra.Command) (*settings, error) {
	if f.loaded != nil {
		return f.loaded, nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loaded, loadErr := loadSettings(ctx, f.sets)
	if loadErr != nil {
		return nil, loadErr
	}
	f.loaded = loaded
	return loaded, nil
}

// loadSettings reads project and user configuration relative to the working
// directory and applies --set overrides on top.
func loadSettings(ctx context.Context, sets []string) (*settings, error) {
	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", cwdErr)
	}

	manager := config.NewManager(config.DefaultPaths(cwd))
	if loadErr := manager.Load(ctx); loadErr != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", loadErr)
	}

	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		if setErr := manager.SetCommandLine(strings.TrimSpace(key), value); setErr != nil {
			return nil, setErr
		}
	}

	return &settings{manager: manager, typed: config.NewTypedConfig(manager)}, nil
}

// repackager builds a Repackager from the effective configuration.
func (s *settings) repackager() (*repackager.Repackager, error) {
	return repackager.New(repackager.Options{
		ClassesEntry: s.typed.ClassesEntry(),
		ExplodedDir:  s.typed.ExplodedDir(),
		Extension:    s.typed.Extension(),
		Workers:      s.typed.Workers(),
		Logger:       logger.Default,
	})
}

// outputDir resolves the -o flag, falling back to output.dir.
func (s *settings) outputDir(flag string) (aarpath.OutputDir, error) {
	dir := flag
	if dir == "" {
		dir = s.typed.OutputDir()
	}
	out, pathErr := aarpath.NewOutputDir(dir)
	if pathErr != nil {
		return "", fmt.Errorf("invalid output directory %q: %w", dir, pathErr)
	}
	return out, nil
}
