package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/cmd/ui"
)

func newCleanCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove extracted working trees, keeping repackaged jars",
		Args:  cobra.NoArgs,
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
			removed, cleanErr := r.Clean(outDir)
			if cleanErr != nil {
				return cleanErr
			}

			root := outDir.ExplodedRoot(r.Options().ExplodedDir)
			if removed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("Removed", root.String()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.InfoMessage("Nothing to clean in "+outDir.String()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from output.dir)")
	return cmd
}
