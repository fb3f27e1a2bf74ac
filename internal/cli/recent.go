package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recentNamespace string
	recentDays      int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently created documents",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().StringVar(&recentNamespace, "namespace", "", "filter by namespace")
	recentCmd.Flags().IntVar(&recentDays, "days", 0, "how many days back to look (default 7)")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	summaries, err := store.Recent(cmd.Context(), recentNamespace, recentDays)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No recent documents")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%6d  %-12s  %s  %s\n", s.ID, s.Namespace, formatCreatedAt(s.CreatedAt), s.Title)
	}

	return nil
}
