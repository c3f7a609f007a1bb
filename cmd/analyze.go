package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/tag-communities/internal/analysis"
	"github.com/hurou927/tag-communities/internal/graph"
	"github.com/hurou927/tag-communities/internal/ingest"
	"github.com/hurou927/tag-communities/internal/store"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Detect interest communities and print them",
	Long: `Reads people from a CSV or XLSX file (or, without a file, from the configured store),
builds the shared-interest graph, detects its communities and prints them in the
specified format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var (
			interests graph.Interests
			err       error
		)
		if len(args) == 1 {
			interests, err = parseFile(args[0])
		} else {
			interests, err = storedInterests(ctx)
		}
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), analyzeFormat, interests)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format: text, mermaid or json")
	rootCmd.AddCommand(analyzeCmd)
}

func writeReport(w io.Writer, format string, interests graph.Interests) error {
	switch format {
	case "text":
		return graph.WriteText(w, interests)
	case "mermaid":
		return graph.WriteMermaid(w, interests)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis.Analyze(interests))
	default:
		return fmt.Errorf("unknown format: %s (supported: text, mermaid, json)", format)
	}
}

// parseFile reads people from a spreadsheet on disk.
func parseFile(path string) (graph.Interests, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	interests, err := ingest.Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("reading people: %w", err)
	}
	return interests, nil
}

// storedInterests reads the dataset kept in the configured store.
func storedInterests(ctx context.Context) (graph.Interests, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	interests, err := st.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading people: %w", err)
	}
	if len(interests) == 0 {
		return nil, store.ErrNoData
	}
	return interests, nil
}
