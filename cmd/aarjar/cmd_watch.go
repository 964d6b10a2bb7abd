package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/cmd/ui"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/logger"
	"github.com/utkarsh5026/aarjar/pkg/watch"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var (
		output   string
		debounce time.Duration
		ignore   []string
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]...",
		Short: "Repackage Android archives whenever they are created or rewritten",
		Long: `Watch directories recursively and repackage every .aar that appears or
changes. Bursts of writes to the same archive are coalesced. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			outDir, outErr := settings.outputDir(output)
			if outErr != nil {
				return outErr
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = settings.typed.WatchDebounce()
			}

			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			r, newErr := settings.repackager()
			if newErr != nil {
				return newErr
			}
			w := cmd.OutOrStdout()
			explodedRoot := outDir.ExplodedRoot(r.Options().ExplodedDir)

			watcher, watchErr := watch.New(watch.Config{
				Dirs:     dirs,
				Ignore:   append(ignore, ignoreUnder(dirs, explodedRoot)...),
				Debounce: debounce,
				Logger:   logger.Default,
				// Archives mapping to the same output share a working tree too.
				Key: func(input aarpath.ArchivePath) string {
					return outDir.OutputFile(input, r.Options().Extension).String()
				},
				Handler: func(_ context.Context, input aarpath.ArchivePath) error {
					result, repackErr := r.Repackage(input, outDir)
					if repackErr != nil {
						fmt.Fprintln(w, ui.ErrorMessage(fmt.Sprintf("%s: %v", input.Base(), repackErr)))
						return repackErr
					}
					printResult(w, result)
					return nil
				},
			})
			if watchErr != nil {
				return watchErr
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(w, ui.InfoMessage(fmt.Sprintf("%s Watching %s (output %s)",
				ui.IconWatch, strings.Join(watcher.Roots(), ", "), outDir)))
			return watcher.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from output.dir)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before an archive is handled (default from watch.debounce)")
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, "Glob of paths to ignore, relative to each watched directory (repeatable)")
	return cmd
}

// ignoreUnder returns patterns that keep the watcher out of the extraction
// tree when it lives inside a watched directory.
func ignoreUnder(dirs []string, explodedRoot aarpath.AbsolutePath) []string {
	var patterns []string
	for _, d := range dirs {
		abs, absErr := filepath.Abs(d)
		if absErr != nil {
			continue
		}
		rel, relErr := filepath.Rel(abs, explodedRoot.String())
		if relErr != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		patterns = append(patterns, filepath.ToSlash(rel), filepath.ToSlash(rel)+"/**")
	}
	return patterns
}
