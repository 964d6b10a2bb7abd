package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/aarjar/cmd/ui"
	"github.com/utkarsh5026/aarjar/pkg/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write aarjar configuration",
		Long: `Configuration is layered. From highest to lowest precedence:
  command-line  --set key=value
  project       ./.aarjar/config.json
  user          <user config dir>/aarjar/config.json
  builtin       compiled-in defaults`,
	}

	cmd.AddCommand(newConfigListCmd(flags))
	cmd.AddCommand(newConfigGetCmd(flags))
	cmd.AddCommand(newConfigSetCmd(flags))
	cmd.AddCommand(newConfigUnsetCmd(flags))
	return cmd
}

func newConfigListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every effective key with its origin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Key", "Value", "Level", "Source")
			for _, entry := range settings.manager.List() {
				table.Append(entry.Key, entry.Value, entry.Level.String(), entry.Source.String())
			}
			table.Render()
			return nil
		},
	}
}

func newConfigGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			entry := settings.manager.Get(args[0])
			if entry == nil {
				return config.NewConfigError("get", config.CodeNotFoundErr, args[0], "", "", config.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Value)
			return nil
		},
	}
}

func newConfigSetCmd(flags *globalFlags) *cobra.Command {
	var levelName string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a value at the project or user level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			level, levelErr := config.ParseLevel(levelName)
			if levelErr != nil {
				return levelErr
			}
			if setErr := settings.manager.Set(args[0], args[1], level); setErr != nil {
				return setErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage(fmt.Sprintf("%s = %s", args[0], args[1]), "("+level.String()+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&levelName, "level", config.ProjectLevel.String(), "Level to write (project, user)")
	return cmd
}

func newConfigUnsetCmd(flags *globalFlags) *cobra.Command {
	var levelName string

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a value from the project or user level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := flags.load(cmd)
			if loadErr != nil {
				return loadErr
			}
			level, levelErr := config.ParseLevel(levelName)
			if levelErr != nil {
				return levelErr
			}
			if unsetErr := settings.manager.Unset(args[0], level); unsetErr != nil {
				return unsetErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("Unset "+args[0], "("+level.String()+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&levelName, "level", config.ProjectLevel.String(), "Level to remove from (project, user)")
	return cmd
}
