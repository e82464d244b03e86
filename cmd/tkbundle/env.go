package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamkeys/tkbundle"
)

func newEnvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the Tcl/Tk library environment handed to the interpreter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			env, err := tkbundle.ResolveEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, kv := range [][2]string{
				{tkbundle.TclLibraryVar, env.Tcl},
				{tkbundle.TkLibraryVar, env.Tk},
				{tkbundle.TixLibraryVar, env.Tix},
			} {
				fmt.Fprintf(out, "%s=%s\n", kv[0], kv[1])
			}
			return nil
		},
	}
}
