package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/tag-communities/internal/analysis"
	"github.com/hurou927/tag-communities/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load people from a spreadsheet into the configured store",
	Long:  `Parses a CSV or XLSX file and replaces the dataset held by the configured store, so that a later "serve" or "analyze" can use it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		interests, err := parseFile(args[0])
		if err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		res, err := analysis.NewService(st).Load(ctx, interests)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "Load complete:")
		fmt.Fprintf(os.Stderr, "  store: %s\n", cfg.Store.Driver)
		fmt.Fprintf(os.Stderr, "  people: %d\n", res.TotalPeople)
		fmt.Fprintf(os.Stderr, "  communities: %d\n", res.TotalCommunities)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
