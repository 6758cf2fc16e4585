// Package notebook is the composition root of the notebook client.
//
// It connects the note lifecycle in pkg/core (Manager, ViewSelector,
// EditSession) with a note store. By default the store is the remote note
// server addressed by notebook.host.yaml (HOST_URL, HOST_PORT), falling back
// to localhost:8080 when the file is missing or broken.
//
// Usage:
//
//	m, err := notebook.Open(ctx, notebook.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	sel := core.NewViewSelector(core.SortPriorityAsc)
//	sel.HeadlineContains = "Shop"
//	for _, n := range m.SelectedNotes(sel) {
//		fmt.Println(n.ID, n.Headline)
//	}
//
// The server side of the contract lives in pkg/server and can be backed by
// the memory, sqlite or fs adapters.
package notebook
