package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adamkeys/tkbundle"
	"github.com/adamkeys/tkbundle/internal/archive"
)

func newCollectCommand(a *app) *cobra.Command {
	var archivePath string

	cmd := &cobra.Command{
		Use:   "collect <module>",
		Short: "List the Tcl/Tk files to bundle with an extension module",
		Long: `Collect locates Tcl and Tk for the given _tkinter extension module and prints the
files to bundle as YAML. With --archive the files are written to a .tar.xz instead.

Example:
  tkbundle collect /usr/lib/python3.12/lib-dynload/_tkinter.cpython-312-x86_64-linux-gnu.so
  tkbundle collect --archive tcltk.tar.xz ./_tkinter.so`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			mod, err := tkbundle.Collect(cmd.Context(), tkbundle.Module{Path: args[0]}, opts)
			if err != nil {
				return err
			}

			if archivePath == "" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(mod); err != nil {
					return fmt.Errorf("encode module: %w", err)
				}
				return enc.Close()
			}

			f, err := os.Create(archivePath)
			if err != nil {
				return fmt.Errorf("create archive: %w", err)
			}
			if err := archive.Write(f, mod.Datas); err != nil {
				f.Close()
				return fmt.Errorf("write archive: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close archive: %w", err)
			}
			a.logger.Info("wrote archive", "path", archivePath, "files", len(mod.Datas))
			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "write the collected files to a .tar.xz archive")
	return cmd
}
