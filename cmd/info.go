package cmd

import (
	"fmt"
	"strconv"

	"github.com/TFMV/forcegraph/ui"
	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the shape of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ui.Banner(out, g.Name)
			ui.Table(out, []string{"PROPERTY", "VALUE"}, [][]string{
				{"nodes", strconv.Itoa(g.Len())},
				{"vertices", strconv.Itoa(g.VertexCount())},
				{"directed", ui.StatusIcon(g.Directed)},
				{"weighted", ui.StatusIcon(g.Weighted)},
			})

			components := g.Components()
			fmt.Fprintln(out)
			rows := make([][]string, 0, len(components))
			for i, c := range components {
				rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(len(c))})
			}
			ui.Table(out, []string{"COMPONENT", "NODES"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format (default from extension)")
	return cmd
}
