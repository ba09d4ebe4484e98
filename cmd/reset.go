package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all feedback, work items, points, and LLM logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		out := cmd.OutOrStdout()

		info, err := os.Stat(dbPath)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "Nothing to delete: %s does not exist.\n", dbPath)
			return nil
		}
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(out, "This deletes %s (%d KiB). Run again with --yes to go ahead.\n", dbPath, info.Size()/1024)
			return nil
		}

		// SQLite keeps WAL-mode state in two sidecar files.
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", dbPath+suffix, err)
			}
		}
		fmt.Fprintln(out, "All FIDO data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
