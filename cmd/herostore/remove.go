package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sagarc03/herostore"
)

var removeCmd = &cobra.Command{
	Use:   "remove [flags] <id1> [id2] ...",
	Short: "Remove heroes from the container",
	Long: `Delete heroes by id, the same way DELETE /heroes/{id} does.

With --blob the arguments are raw blob names and are deleted without being
decoded. Use it to clear a malformed blob that makes every listing fail.

Examples:
  # Remove a single hero
  herostore remove 7

  # Remove several heroes
  herostore remove 7 42 12345678

  # Remove a blob that does not decode
  herostore remove --blob broken.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

var (
	removeBlob  bool
	removeQuiet bool
)

func init() {
	removeCmd.Flags().BoolVar(&removeBlob, "blob", false, "treat arguments as blob names")
	removeCmd.Flags().BoolVarP(&removeQuiet, "quiet", "q", false, "suppress per-item output")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	service, store, closeStore, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	removed := 0
	notFound := 0

	for _, arg := range args {
		if removeBlob {
			deleteErr := store.Delete(ctx, arg)
			if errors.Is(deleteErr, herostore.ErrNotFound) {
				notFound++
				if !removeQuiet {
					slog.Warn("not found", "blob", arg)
				}
				continue
			}
			if deleteErr != nil {
				return fmt.Errorf("remove %s: %w", arg, deleteErr)
			}
			removed++
			if !removeQuiet {
				slog.Info("removed", "blob", arg)
			}
			continue
		}

		id, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return fmt.Errorf("remove %s: %w: id must be an integer", arg, herostore.ErrInvalidInput)
		}

		deleted, deleteErr := service.Delete(ctx, id)
		if deleteErr != nil {
			return fmt.Errorf("remove %d: %w", id, deleteErr)
		}
		if !deleted {
			notFound++
			if !removeQuiet {
				slog.Warn("not found", "id", id)
			}
			continue
		}
		removed++
		if !removeQuiet {
			slog.Info("removed", "id", id)
		}
	}

	slog.Info("remove complete", "removed", removed, "not_found", notFound)
	return nil
}
