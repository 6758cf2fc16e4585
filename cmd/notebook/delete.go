package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the remote store.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		ctx := context.Background()
		m := openManager(ctx)
		n, ok := m.Note(id)
		if !ok {
			fatal("Error deleting note", fmt.Errorf("%w: %d", core.ErrNoteNotFound, id))
		}

		if err := m.DeleteNote(ctx, n); err != nil {
			fatal("Error deleting note", err)
		}

		fmt.Printf("Note deleted: %d\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
