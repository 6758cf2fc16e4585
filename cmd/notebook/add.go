package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/core"
)

var (
	addText     string
	addPriority int
	addExec     []string
	addRemind   []string
)

var addCmd = &cobra.Command{
	Use:   "add [headline]",
	Short: "Create a new note",
	Long:  `Add creates a note on the remote store. Without a headline the note is called "New Note".`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headline := ""
		if len(args) == 1 {
			headline = args[0]
		}

		n := core.NewNote(headline, addText, addPriority)
		execDates, err := parseDates(addExec)
		if err != nil {
			fatal("Invalid execution date", err)
		}
		remindDates, err := parseDates(addRemind)
		if err != nil {
			fatal("Invalid reminder date", err)
		}
		n.SetExecutionDates(execDates)
		n.SetReminderDates(remindDates)

		m := openManager(context.Background())
		if err := m.AddNote(context.Background(), n); err != nil {
			fatal("Error creating note", err)
		}

		slog.Debug("note added", "id", n.ID)
		fmt.Printf("Note created: %d\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addText, "text", "", "Note text")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", core.MinPriority, "Priority (1 is the most urgent)")
	addCmd.Flags().StringArrayVar(&addExec, "exec", nil, "Execution date (repeatable)")
	addCmd.Flags().StringArrayVar(&addRemind, "remind", nil, "Reminder date (repeatable)")
}
