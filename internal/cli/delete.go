package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document and its embedding",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	deleted, err := store.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}

	if !deleted {
		return fmt.Errorf("document %d not found", id)
	}

	fmt.Printf("Deleted document %d\n", id)
	return nil
}
