package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/library"
	"github.com/financiallyruined/trimtui/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagSearch string
	flagSort   string
	flagDesc   bool
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"ls"},
	Short:   "List trimmed videos stored on the server",
	RunE:    runLibrary,
}

func init() {
	libraryCmd.Flags().StringVar(&flagSearch, "search", "", "Filter by filename substring")
	libraryCmd.Flags().StringVar(&flagSort, "sort", "date", "Sort field: name, date, size")
	libraryCmd.Flags().BoolVar(&flagDesc, "desc", false, "Sort descending")
	rootCmd.AddCommand(libraryCmd)
}

func sortField(name string) (library.SortField, error) {
	switch name {
	case "name", "filename":
		return library.SortByFilename, nil
	case "date", "added":
		return library.SortByDate, nil
	case "size":
		return library.SortBySize, nil
	}
	return "", fmt.Errorf("unknown sort field %q: use name, date, or size", name)
}

func runLibrary(_ *cobra.Command, _ []string) error {
	field, err := sortField(flagSort)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	videos, err := client.Library(context.Background())
	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}

	if flagSearch != "" {
		q := strings.ToLower(flagSearch)
		kept := videos[:0]
		for _, v := range videos {
			if strings.Contains(strings.ToLower(v.Filename), q) {
				kept = append(kept, v)
			}
		}
		videos = kept
	}

	sortVideos(videos, field, !flagDesc)

	if len(videos) == 0 {
		fmt.Println("  No videos found.")
		return nil
	}

	table := cli.Table{Headers: []string{"ID", "Filename", "Added", "Size"}}
	for _, v := range videos {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", v.ID),
			v.Filename,
			cli.FormatDate(v.Added()),
			cli.FormatBytes(v.FileSize),
		})
	}
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Printf("\n  %s videos\n", cli.FormatNumber(int64(len(videos))))
	return nil
}

func sortVideos(videos []model.LibraryVideo, field library.SortField, asc bool) {
	sort.SliceStable(videos, func(i, j int) bool {
		var less bool
		switch field {
		case library.SortByFilename:
			less = strings.ToLower(videos[i].Filename) < strings.ToLower(videos[j].Filename)
		case library.SortBySize:
			less = videos[i].FileSize < videos[j].FileSize
		default:
			less = videos[i].Added().Before(videos[j].Added())
		}
		if asc {
			return less
		}
		return !less
	})
}
