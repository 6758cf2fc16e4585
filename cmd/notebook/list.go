package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/core"
)

var (
	listJSON     bool
	listHeadline string
	listText     string
	listQuery    string
	listSort     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered and sorted",
	Long: `List prints the notes of the remote store.

Filters on headline and text are case-sensitive substrings. --query takes an
expression over id, headline, noteText, priority, executionDates,
reminderDates and now, for example:

  notebook list --query 'priority <= 2' --sort date-asc`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		order, err := core.ParseSortOrder(listSort)
		if err != nil {
			fatal("Invalid sort order", err)
		}

		sel := core.NewViewSelector(order)
		sel.HeadlineContains = listHeadline
		sel.NoteTextContains = listText
		sel.Query = listQuery
		if err := sel.Compile(); err != nil {
			fatal("Invalid query", err)
		}

		m := openManager(context.Background())
		notes := m.SelectedNotes(sel)

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, n := range notes {
			fmt.Println(formatNote(n))
		}
	},
}

func formatNote(n *core.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d [P%d] %s", n.ID, n.Priority, n.Headline)
	if d, ok := n.ReferenceDate(); ok {
		fmt.Fprintf(&b, " @ %s", d.Format(dateLayout))
	}
	if len(n.ReminderDates) > 0 {
		fmt.Fprintf(&b, " (%d reminders)", len(n.ReminderDates))
	}
	return b.String()
}

func sortOrderNames() []string {
	names := make([]string, 0, len(core.SortOrders()))
	for _, o := range core.SortOrders() {
		names = append(names, o.String())
	}
	return names
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listHeadline, "headline", "", "Only notes whose headline contains this text")
	listCmd.Flags().StringVar(&listText, "text", "", "Only notes whose text contains this text")
	listCmd.Flags().StringVar(&listQuery, "query", "", "Only notes matching this expression")
	listCmd.Flags().StringVar(&listSort, "sort", "none", "Sort order: "+strings.Join(sortOrderNames(), ", "))
}
