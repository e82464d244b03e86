package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adamkeys/tkbundle"
)

func newRootsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roots <module>",
		Short: "Print the Tcl and Tk library directories of an extension module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			roots, err := tkbundle.Locate(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(roots)
			if err != nil {
				return fmt.Errorf("encode roots: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
