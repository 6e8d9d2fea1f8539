package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a trimmed video from the server",
	Long:  "Delete a video by its library id. Use `trimtui library` to find ids.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.DeleteVideo(context.Background(), id); err != nil {
		return fmt.Errorf("deleting video %d: %w", id, err)
	}

	fmt.Printf("  Deleted video %d\n", id)
	return nil
}
