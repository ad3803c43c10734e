package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/herostore"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the blobs in the container",
	Long: `List every blob in the configured container with its size and the
hero id encoded in its name. With --heroes, decode each blob and print the
heroes as JSON instead; this fails on the first malformed blob, the same way
GET /heroes does.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listHeroes bool

func init() {
	listCmd.Flags().BoolVar(&listHeroes, "heroes", false, "decode blobs and print heroes as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, store, closeStore, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()

	if listHeroes {
		heroes, listErr := service.List(ctx)
		if listErr != nil {
			return listErr
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(heroes)
	}

	items, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list blobs: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BLOB\tSIZE\tID")
	for _, item := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", item.Name, item.Size, blobID(item.Name))
	}
	return tw.Flush()
}

// blobID renders the id a blob name encodes, or "-" for foreign names.
func blobID(name string) string {
	id, ok := herostore.ParseBlobKey(name)
	if !ok {
		return "-"
	}
	return strconv.Itoa(id)
}
