package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/pkg/core"
)

var (
	editHeadline  string
	editText      string
	editPriority  int
	editExec      []string
	editRemind    []string
	editShiftExec int
	editShiftBy   string
	editDropExec  int
	editYes       bool
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing note",
	Long: `Edit changes a note in an edit session. When the session is closed the
preferences decide what happens: autoSave stores the edits right away,
alwaysAskToSaveBeforeClosingNote asks first, otherwise the edits are dropped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		ctx := context.Background()
		m := openManager(ctx)
		n, ok := m.Note(id)
		if !ok {
			fatal("Error editing note", fmt.Errorf("%w: %d", core.ErrNoteNotFound, id))
		}

		var confirmer core.Confirmer = stdinConfirmer{}
		if editYes {
			confirmer = core.ConfirmFunc(func(context.Context, *core.Note) (bool, error) { return true, nil })
		}

		session := notebook.NewEditSession(m, prefsPath, confirmer, slog.Default())
		if err := session.Open(ctx, n); err != nil {
			fatal("Error opening note", err)
		}
		if err := applyEdits(cmd, session); err != nil {
			fatal("Error editing note", err)
		}
		if err := session.Close(ctx); err != nil {
			fatal("Error saving note", err)
		}

		fmt.Println(formatNote(n))
	},
}

func applyEdits(cmd *cobra.Command, s *core.EditSession) error {
	flags := cmd.Flags()
	if flags.Changed("headline") {
		s.SetHeadline(editHeadline)
	}
	if flags.Changed("text") {
		s.SetNoteText(editText)
	}
	if flags.Changed("priority") {
		s.SetPriority(editPriority)
	}
	if flags.Changed("drop-exec") {
		if err := s.RemoveExecutionDate(editDropExec); err != nil {
			return err
		}
	}
	if flags.Changed("shift-exec") {
		shift, err := parseShift(editShiftBy)
		if err != nil {
			return err
		}
		if err := s.ShiftExecutionDate(editShiftExec, shift); err != nil {
			return err
		}
	}

	execDates, err := parseDates(editExec)
	if err != nil {
		return err
	}
	for _, t := range execDates {
		s.AddExecutionDate(t)
	}
	remindDates, err := parseDates(editRemind)
	if err != nil {
		return err
	}
	for _, t := range remindDates {
		s.AddReminderDate(t)
	}
	return nil
}

// stdinConfirmer asks on the terminal before saving.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(ctx context.Context, n *core.Note) (bool, error) {
	fmt.Printf("Save changes to %q? [y/N] ", n.Headline)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editHeadline, "headline", "", "New headline")
	editCmd.Flags().StringVar(&editText, "text", "", "New note text")
	editCmd.Flags().IntVarP(&editPriority, "priority", "p", core.MinPriority, "New priority")
	editCmd.Flags().StringArrayVar(&editExec, "exec", nil, "Add an execution date at the head (repeatable)")
	editCmd.Flags().StringArrayVar(&editRemind, "remind", nil, "Add a reminder date at the head (repeatable)")
	editCmd.Flags().IntVar(&editShiftExec, "shift-exec", 0, "Index of the execution date to shift")
	editCmd.Flags().StringVar(&editShiftBy, "by", "1d", "Shift amount: 5m, 15m, 1h, 1d, 1w, 1M")
	editCmd.Flags().IntVar(&editDropExec, "drop-exec", 0, "Index of the execution date to remove")
	editCmd.Flags().BoolVarP(&editYes, "yes", "y", false, "Save without asking")
}
