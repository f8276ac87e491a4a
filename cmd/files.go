package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/models"
)

// readGraph imports the graph at path. "-" reads standard input. An empty
// format is guessed from the file extension.
func readGraph(path, format string, stdin io.Reader) (*models.Graph, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if format == "" {
		format = ingest.FormatOf(path)
	}
	processor, err := ingest.GetProcessor(format)
	if err != nil {
		return nil, err
	}

	g, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// edge lists and CSV tables carry no name of their own
	switch strings.ToLower(format) {
	case "json", "yaml", "yml":
	default:
		if path != "-" {
			g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	return g, nil
}

// writeOutput writes data to path, or to w when path is empty or "-"
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
