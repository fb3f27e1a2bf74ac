package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listNamespace string
	listLimit     int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listNamespace, "namespace", "", "filter by namespace")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of documents (default 50)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	summaries, err := store.List(cmd.Context(), listNamespace, listLimit)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No documents found")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%6d  %-12s  %s  %s\n", s.ID, s.Namespace, formatCreatedAt(s.CreatedAt), s.Title)
		if s.Preview != "" {
			fmt.Printf("        %s\n", s.Preview)
		}
	}

	return nil
}
