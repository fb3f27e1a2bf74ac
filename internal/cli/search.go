package cli

import (
	"fmt"

	"github.com/harun/recall/pkg/docstore"
	"github.com/spf13/cobra"
)

var (
	searchNamespace string
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents",
	Long: `Search documents by meaning when embeddings are configured, falling
back to substring matching on title and content otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchNamespace, "namespace", "", "filter by namespace")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results (default 10)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	results, err := store.Search(cmd.Context(), args[0], searchNamespace, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches")
		return nil
	}

	for _, r := range results {
		if r.MatchType == docstore.MatchSemantic && r.Score != nil {
			fmt.Printf("%6d  %-12s  score=%.3f  %s\n", r.ID, r.Namespace, *r.Score, r.Title)
		} else {
			fmt.Printf("%6d  %-12s  text match  %s\n", r.ID, r.Namespace, r.Title)
		}
	}

	return nil
}
