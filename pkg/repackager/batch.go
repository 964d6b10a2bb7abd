package repackager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

// BatchItem is the outcome for one input of RepackageAll.
type BatchItem struct {
	Input  aarpath.ArchivePath
	Result *Result
	Err    error
}

// BatchResult collects the outcome of RepackageAll in input order.
type BatchResult struct {
	OutputDir aarpath.OutputDir
	Items     []BatchItem
}

// Succeeded returns items that completed without error.
func (b *BatchResult) Succeeded() []BatchItem {
	var items []BatchItem
	for _, it := range b.Items {
		if it.Err == nil {
			items = append(items, it)
		}
	}
	return items
}

// Failed returns items that completed with an error.
func (b *BatchResult) Failed() []BatchItem {
	var items []BatchItem
	for _, it := range b.Items {
		if it.Err != nil {
			items = append(items, it)
		}
	}
	return items
}

// Outputs returns every output written, in input order.
func (b *BatchResult) Outputs() []aarpath.AbsolutePath {
	var outs []aarpath.AbsolutePath
	for _, it := range b.Items {
		if it.Err == nil {
			outs = append(outs, it.Result.Outputs()...)
		}
	}
	return outs
}

// Err joins every item error, or returns nil.
func (b *BatchResult) Err() error {
	var errs []error
	for _, it := range b.Failed() {
		errs = append(errs, it.Err)
	}
	return errors.Join(errs...)
}

// RepackageAll repackages inputs into outputDir with at most Options.Workers
// conversions in flight. Identical paths are processed once. Two distinct
// inputs that would share an output file or working directory fail the whole
// call with ErrConflict before anything runs. A failing input never stops the
// others; cancelling ctx stops inputs that have not started yet.
func (r *Repackager) RepackageAll(ctx context.Context, inputs []string, outputDir aarpath.OutputDir) (*BatchResult, error) {
	archives, planErr := r.plan(inputs, outputDir)
	if planErr != nil {
		return nil, planErr
	}

	batch := &BatchResult{
		OutputDir: outputDir,
		Items:     make([]BatchItem, len(archives)),
	}

	g := new(errgroup.Group)
	g.SetLimit(r.opts.Workers)

	for i, archive := range archives {
		batch.Items[i].Input = archive
		g.Go(func() error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				batch.Items[i].Err = ctxErr
				return nil
			}
			res, repErr := r.Repackage(archive, outputDir)
			batch.Items[i].Result = res
			batch.Items[i].Err = repErr
			return nil
		})
	}

	// Workers never return errors; per-input failures live on the items.
	_ = g.Wait()

	r.opts.Logger.Info("batch finished",
		"inputs", len(batch.Items),
		"outputs", len(batch.Outputs()),
		"failed", len(batch.Failed()))
	return batch, nil
}

// plan resolves, deduplicates and checks inputs for collisions.
func (r *Repackager) plan(inputs []string, outputDir aarpath.OutputDir) ([]aarpath.ArchivePath, error) {
	if len(inputs) == 0 {
		return nil, err.New(pkgName, err.CodeInvalidInput, "plan", "no input archives", nil)
	}

	seen := make(map[aarpath.ArchivePath]bool, len(inputs))
	owners := make(map[string]aarpath.ArchivePath, len(inputs))
	var archives []aarpath.ArchivePath
	var conflicts []string

	for _, in := range inputs {
		archive, pathErr := aarpath.NewArchivePath(in)
		if pathErr != nil {
			return nil, err.New(pkgName, err.CodeInvalidInput, "plan", fmt.Sprintf("input %q", in), pathErr)
		}
		if seen[archive] {
			continue
		}
		seen[archive] = true

		output, workDir, layoutErr := r.layout(archive, outputDir)
		if layoutErr != nil {
			return nil, err.New(pkgName, err.CodeInvalidInput, "plan", fmt.Sprintf("input %q", in), layoutErr)
		}
		for _, key := range []string{output.String(), workDir.String()} {
			if owner, taken := owners[key]; taken && owner != archive {
				conflicts = append(conflicts, fmt.Sprintf("%s and %s both map to %s", owner, archive, key))
			}
			owners[key] = archive
		}
		archives = append(archives, archive)
	}

	if len(conflicts) > 0 {
		return nil, err.New(pkgName, err.CodeConflict, "plan", strings.Join(conflicts, "; "), nil)
	}
	return archives, nil
}
