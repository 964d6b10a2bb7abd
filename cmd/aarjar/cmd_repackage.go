package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/cmd/ui"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/repackager"
)

func newRepackageCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "repackage <archive.aar>...",
		Aliases: []string{"convert"},
		Short:   "Copy the compiled classes of Android archives to plain jars",
		Long: `Extract each archive under <output>/exploded/<name>/ and copy its
classes.jar to <output>/<name>.jar, replacing any earlier output.
Archives without compiled classes produce nothing and are not an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			outDir, outErr := settings.outputDir(output)
			if outErr != nil {
				return outErr
			}
			r, newErr := settings.repackager()
			if newErr != nil {
				return newErr
			}
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				input, pathErr := aarpath.NewArchivePath(args[0])
				if pathErr != nil {
					return pathErr
				}
				result, repackErr := r.Repackage(input, outDir)
				if repackErr != nil {
					return repackErr
				}
				printResult(w, result)
				return nil
			}

			batch, batchErr := r.RepackageAll(cmd.Context(), args, outDir)
			if batchErr != nil {
				return batchErr
			}
			printBatch(w, batch)
			if failed := len(batch.Failed()); failed > 0 {
				return fmt.Errorf("%d of %d archives failed: %w", failed, len(batch.Items), batch.Err())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from output.dir)")
	return cmd
}

func printResult(w io.Writer, result *repackager.Result) {
	if !result.Produced() {
		fmt.Fprintln(w, ui.WarningMessage(fmt.Sprintf("%s has no compiled classes; nothing written", result.Input.Base())))
		return
	}
	fmt.Fprintln(w, ui.FormatConversion(result.Input.Base(), result.Output.String()))
	fmt.Fprintln(w, ui.SuccessMessage("Repackaged", ui.FormatBytes(result.Bytes)))
	if n := len(result.EmbeddedLibs); n > 0 {
		fmt.Fprintln(w, ui.InfoMessage(fmt.Sprintf("%d embedded libraries left in %s", n, result.WorkingDir)))
	}
}

func printBatch(w io.Writer, batch *repackager.BatchResult) {
	fmt.Fprintln(w, ui.Header(" Repackage Summary "))

	table := tablewriter.NewWriter(w)
	table.Header("Archive", "Status", "Output", "Size")
	for _, item := range batch.Items {
		switch {
		case item.Err != nil:
			table.Append(item.Input.Base(), ui.FormatOutcome(ui.OutcomeFailed), err.GetCode(item.Err), "")
		case item.Result.Produced():
			table.Append(item.Input.Base(), ui.FormatOutcome(ui.OutcomeProduced), item.Result.Output.Base(), ui.FormatBytes(item.Result.Bytes))
		default:
			table.Append(item.Input.Base(), ui.FormatOutcome(ui.OutcomeSkipped), "", "")
		}
	}
	table.Render()

	for _, item := range batch.Failed() {
		fmt.Fprintln(w, ui.ErrorMessage(fmt.Sprintf("%s: %v", item.Input.Base(), item.Err)))
	}
	fmt.Fprintln(w, ui.InfoMessage(fmt.Sprintf("%d produced, %d failed, output in %s",
		len(batch.Outputs()), len(batch.Failed()), batch.OutputDir)))
}
