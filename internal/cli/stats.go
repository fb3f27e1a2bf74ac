package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", stats.DBPath)
	fmt.Printf("Documents: %d\n", stats.TotalDocs)
	fmt.Printf("Embeddings: %d (enabled: %v)\n", stats.EmbeddingCount, stats.EmbeddingsEnabled)

	if len(stats.NamespaceCounts) > 0 {
		fmt.Println("Namespaces:")
		namespaces := make([]string, 0, len(stats.NamespaceCounts))
		for ns := range stats.NamespaceCounts {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)
		for _, ns := range namespaces {
			fmt.Printf("  %-16s %d\n", ns, stats.NamespaceCounts[ns])
		}
	}

	return nil
}
