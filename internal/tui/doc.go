// Package tui provides the interactive terminal interface for taskflow.
//
// The App model shows the filtered task list with a filter bar above it and a
// status footer below. Keys:
//
//	j/k, up/down        move the cursor
//	shift+up/shift+down reorder the selected task (also K/J)
//	a                   add a task
//	e, enter            edit the selected task
//	x, space            toggle completion
//	d                   delete (asks for confirmation)
//	s, p, c             cycle the status, priority and category filters
//	/                   search titles and descriptions
//	r                   reset all filters
//	t                   toggle light/dark theme
//	q, ctrl+c           quit
//
// Usage:
//
//	app := tui.NewApp(st, th, tui.Options{Changes: watcher.Changes()})
//	err := tui.Run(ctx, app)
//
// When Changes is set, the store is reloaded whenever the backing file is
// modified by another process.
package tui
