package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/glprint/backend"

	// Hosts register themselves via init().
	_ "github.com/gogpu/glprint/backend/raster"
	_ "github.com/gogpu/glprint/backend/wgpu"
)

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered rendering backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultName := ""
			if h, err := backend.Default(backend.HostConfig{}); err == nil {
				defaultName = h.Name()
			}

			var rows [][]string
			for _, name := range backend.Available() {
				mark := ""
				if name == defaultName {
					mark = "*"
				}
				rows = append(rows, []string{name, mark, backend.Description(name)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Backend", "Default", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
