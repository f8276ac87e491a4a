package cmd

import (
	"github.com/TFMV/forcegraph/ingest"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var (
		from   string
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a graph between edgelist, json and yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			data, err := ingest.Encode(g, to)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format (default from extension)")
	cmd.Flags().StringVar(&to, "to", "edgelist", "Output format: edgelist, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
