package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var saveMeta string

var saveCmd = &cobra.Command{
	Use:   "save <namespace> <title> [content]",
	Short: "Save a document",
	Long: `Save a document into a namespace. Content is taken from the third
argument, or from stdin when omitted. Metadata is an optional JSON object.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveMeta, "meta", "", "metadata as a JSON object")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	namespace := args[0]
	title := args[1]

	var content string
	if len(args) == 3 {
		content = args[2]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read content from stdin: %w", err)
		}
		content = string(data)
	}

	var meta map[string]interface{}
	if saveMeta != "" {
		if err := json.Unmarshal([]byte(saveMeta), &meta); err != nil {
			return fmt.Errorf("invalid --meta JSON: %w", err)
		}
	}

	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	id, err := store.Save(cmd.Context(), namespace, title, content, meta)
	if err != nil {
		return err
	}

	fmt.Printf("Saved document %d in namespace %q\n", id, namespace)
	return nil
}

var quickCmd = &cobra.Command{
	Use:   "quick <namespace> <content>",
	Short: "Save content with an auto-generated title",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuick,
}

func init() {
	rootCmd.AddCommand(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	store, log, err := openStore()
	if err != nil {
		return err
	}
	defer log.Close()
	defer store.Close()

	id, err := store.QuickSave(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Saved document %d in namespace %q\n", id, args[0])
	return nil
}
