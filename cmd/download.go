package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/financiallyruined/trimtui/internal/cli"

	"github.com/spf13/cobra"
)

var flagOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <file-name>",
	Short: "Download a trimmed video from the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Destination path (defaults to the file name)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(_ *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	dest := flagOutput
	if dest == "" {
		dest = filepath.Base(args[0])
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, err := client.Download(context.Background(), args[0], f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("downloading %s: %w", args[0], err)
	}

	fmt.Printf("  Saved %s (%s)\n", dest, cli.FormatBytes(n))
	return nil
}
