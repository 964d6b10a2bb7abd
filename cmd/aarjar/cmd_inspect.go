package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/cmd/ui"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/repackager"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	var brief bool

	cmd := &cobra.Command{
		Use:   "inspect <archive.aar>",
		Short: "Show what an Android archive contains and what repackage would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			input, pathErr := aarpath.NewArchivePath(args[0])
			if pathErr != nil {
				return pathErr
			}

			r, newErr := settings.repackager()
			if newErr != nil {
				return newErr
			}
			report, inspectErr := r.Inspect(input)
			if inspectErr != nil {
				return inspectErr
			}

			w := cmd.OutOrStdout()
			printReport(w, report)
			if !brief {
				printEntries(w, report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&brief, "brief", "b", false, "Only print the summary, not every entry")
	return cmd
}

func printReport(w io.Writer, report *repackager.Report) {
	fmt.Fprintln(w, ui.Header(" "+report.Input.Base()+" "))

	yesNo := func(ok bool) string {
		if ok {
			return ui.Green("yes")
		}
		return ui.Red("no")
	}

	var content strings.Builder
	fmt.Fprintf(&content, "%s %d entries, %s uncompressed\n", ui.Cyan(ui.IconArchive), len(report.Entries), ui.FormatBytes(int64(report.TotalSize)))
	fmt.Fprintf(&content, "manifest:       %s\n", yesNo(report.HasManifest))
	if report.HasClasses {
		fmt.Fprintf(&content, "classes:        %s (%s)\n", yesNo(true), ui.FormatBytes(int64(report.ClassesSize)))
	} else {
		fmt.Fprintf(&content, "classes:        %s\n", yesNo(false))
	}
	if len(report.EmbeddedLibs) > 0 {
		fmt.Fprintf(&content, "embedded libs:  %s\n", strings.Join(report.EmbeddedLibs, ", "))
	}
	if report.OutputName != "" {
		fmt.Fprintf(&content, "would produce:  %s", ui.Green(report.OutputName))
	} else {
		fmt.Fprintf(&content, "would produce:  %s", ui.Yellow("nothing"))
	}
	fmt.Fprintln(w, ui.ReportBox(content.String()))
}

func printEntries(w io.Writer, report *repackager.Report) {
	table := tablewriter.NewWriter(w)
	table.Header("Entry", "Kind", "Size", "Compressed", "CRC32")
	for _, e := range report.Entries {
		if e.IsDir {
			table.Append(e.Name, ui.Gray("dir"), "", "", "")
			continue
		}
		table.Append(e.Name, e.Kind.String(), ui.FormatBytes(int64(e.Size)), ui.FormatBytes(int64(e.CompressedSize)), fmt.Sprintf("%08x", e.CRC32))
	}
	table.Render()
}
