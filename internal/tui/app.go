package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/internal/theme"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeConfirmDelete
)

// StorageChangedMsg reports that a storage key was modified outside the app.
type StorageChangedMsg struct {
	Key string
}

// watchClosedMsg is sent once the change channel is closed.
type watchClosedMsg struct{}

// Options configures an App.
type Options struct {
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Changes delivers storage keys changed by other processes. Optional.
	Changes <-chan string
}

// App is the root bubbletea model.
type App struct {
	ctx     context.Context
	store   *store.Store
	theme   *theme.Manager
	logger  *zap.Logger
	now     func() time.Time
	changes <-chan string

	styles Styles
	list   *TaskList
	form   *TaskForm
	search textinput.Model
	mode   mode

	width    int
	height   int
	message  string
	success  bool
	quitting bool
}

// NewApp creates the TUI model for st.
func NewApp(st *store.Store, th *theme.Manager, opts Options) *App {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = ""
	search.CharLimit = 100
	search.Width = 30

	a := &App{
		ctx:     context.Background(),
		store:   st,
		theme:   th,
		logger:  opts.Logger,
		now:     opts.Now,
		changes: opts.Changes,
		styles:  NewStyles(th.Mode()),
		list:    NewTaskList(),
		search:  search,
		width:   80,
		height:  24,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.updateSizes()
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return waitForChange(a.changes)
}

func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return StorageChangedMsg{Key: key}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case StorageChangedMsg:
		a.handleExternalChange(msg.Key)
		return a, waitForChange(a.changes)

	case watchClosedMsg:
		a.logger.Debug("storage watcher closed")
		return a, nil

	case FormSubmittedMsg:
		a.saveForm(msg)
		return a, nil

	case FormCancelledMsg:
		a.form = nil
		a.mode = modeList
		a.setMessage("", true)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		switch a.mode {
		case modeForm:
			var cmd tea.Cmd
			a.form, cmd = a.form.Update(msg)
			return a, cmd
		case modeSearch:
			return a.updateSearch(msg)
		case modeConfirmDelete:
			return a.updateConfirm(msg)
		default:
			return a.updateList(msg)
		}
	}

	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.quitting = true
		return a, tea.Quit

	case "up", "k":
		a.list.Up()
	case "down", "j":
		a.list.Down()

	case "shift+up", "K":
		a.moveSelected(-1)
	case "shift+down", "J":
		a.moveSelected(1)

	case "a", "n":
		a.form = NewTaskForm(a.now)
		a.form.SetWidth(a.width)
		a.mode = modeForm
		return a, textinput.Blink

	case "e", "enter":
		t, ok := a.list.Selected()
		if !ok {
			return a, nil
		}
		a.form = EditTaskForm(t, a.now)
		a.form.SetWidth(a.width)
		a.mode = modeForm
		return a, textinput.Blink

	case "x", " ":
		t, ok := a.list.Selected()
		if !ok {
			return a, nil
		}
		updated, err := a.store.Toggle(a.ctx, t.ID)
		if err != nil {
			a.setError(err)
			return a, nil
		}
		if updated.Completed {
			a.setMessage("Completed: "+updated.Title, true)
		} else {
			a.setMessage("Reopened: "+updated.Title, true)
		}
		a.refresh()

	case "d", "delete":
		if _, ok := a.list.Selected(); ok {
			a.mode = modeConfirmDelete
		}

	case "s":
		f := a.store.Filters()
		next := f.Status.Next()
		a.store.PatchFilters(models.FilterPatch{Status: &next})
		a.refresh()
	case "p":
		f := a.store.Filters()
		next := f.Priority.Next()
		a.store.PatchFilters(models.FilterPatch{Priority: &next})
		a.refresh()
	case "c":
		f := a.store.Filters()
		next := nextCategory(f.Category, a.store.Categories())
		a.store.PatchFilters(models.FilterPatch{Category: &next})
		a.refresh()
	case "/":
		a.mode = modeSearch
		a.search.SetValue(a.store.Filters().Search)
		a.search.CursorEnd()
		return a, a.search.Focus()
	case "r":
		a.store.ResetFilters()
		a.setMessage("Filters cleared", true)
		a.refresh()

	case "t":
		mode, err := a.theme.Toggle(a.ctx)
		if err != nil {
			a.setError(err)
			return a, nil
		}
		a.styles = NewStyles(mode)
		a.setMessage("Theme: "+string(mode), true)
	}
	return a, nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.search.Blur()
		a.mode = modeList
		return a, nil
	case "esc":
		a.search.Blur()
		a.search.SetValue("")
		empty := ""
		a.store.PatchFilters(models.FilterPatch{Search: &empty})
		a.mode = modeList
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	q := a.search.Value()
	a.store.PatchFilters(models.FilterPatch{Search: &q})
	a.refresh()
	return a, cmd
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = modeList
	if msg.String() != "y" && msg.String() != "Y" {
		a.setMessage("Delete cancelled", true)
		return a, nil
	}

	t, ok := a.list.Selected()
	if !ok {
		return a, nil
	}
	if err := a.store.Delete(a.ctx, t.ID); err != nil {
		a.setError(err)
		return a, nil
	}
	a.setMessage("Deleted: "+t.Title, true)
	a.refresh()
	return a, nil
}

func (a *App) saveForm(msg FormSubmittedMsg) {
	in := msg.Input
	var (
		task models.Task
		err  error
	)
	if msg.EditingID == "" {
		task, err = a.store.Add(a.ctx, in)
	} else {
		patch := models.TaskPatch{
			Title:       &in.Title,
			Description: &in.Description,
			Priority:    &in.Priority,
			Category:    &in.Category,
		}
		if in.DueDate != nil {
			patch.DueDate = in.DueDate
		} else {
			patch.ClearDueDate = true
		}
		task, err = a.store.Update(a.ctx, msg.EditingID, patch)
	}
	if err != nil {
		// Keep the form open so nothing typed is lost.
		a.setError(err)
		return
	}

	a.form = nil
	a.mode = modeList
	a.refresh()
	a.list.Select(task.ID)
	if msg.EditingID == "" {
		a.setMessage("Added: "+task.Title, true)
	} else {
		a.setMessage("Saved: "+task.Title, true)
	}
}

// moveSelected swaps the selected task with its visible neighbour. With a
// filter active the task lands next to that neighbour in the full collection.
func (a *App) moveSelected(delta int) {
	t, ok := a.list.Selected()
	if !ok {
		return
	}
	neighbor, ok := a.list.Neighbor(delta)
	if !ok {
		return
	}

	target := -1
	for i, x := range a.store.Tasks() {
		if x.ID == neighbor.ID {
			target = i
			break
		}
	}
	if target < 0 {
		return
	}

	if err := a.store.Move(a.ctx, t.ID, target); err != nil {
		a.setError(err)
		return
	}
	a.refresh()
	a.list.Select(t.ID)
}

func (a *App) handleExternalChange(key string) {
	if key != storage.KeyTasks {
		return
	}
	changed, err := a.store.Reload(a.ctx)
	if err != nil {
		a.logger.Warn("reload after external change failed", zap.Error(err))
		a.setError(err)
		return
	}
	if changed {
		a.setMessage("Reloaded tasks changed on disk", true)
		a.refresh()
	}
}

func (a *App) refresh() {
	a.list.SetTasks(a.store.Filtered())
}

func (a *App) setMessage(msg string, success bool) {
	a.message = msg
	a.success = success
}

func (a *App) setError(err error) {
	a.logger.Warn("tui action failed", zap.Error(err))
	a.setMessage("Error: "+err.Error(), false)
}

// updateSizes updates the sizes of child components based on terminal size.
func (a *App) updateSizes() {
	// header, filter bar, spacer, list border (2), footer
	listHeight := a.height - 6
	if listHeight < 1 {
		listHeight = 1
	}
	a.list.SetSize(a.width-4, listHeight)
	if a.form != nil {
		a.form.SetWidth(a.width)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var body string
	if a.mode == modeForm && a.form != nil {
		body = a.form.View(a.styles)
	} else {
		body = a.list.View(a.styles, a.now(), a.store.Filters().IsFiltering())
	}

	box := a.styles.Border.
		Width(a.width - 2).
		Height(a.list.height).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.headerView(),
		renderFilterBar(a.styles, a.store.Filters(), a.search.View(), a.mode == modeSearch),
		box,
		a.footerView(),
	)
}

func (a *App) headerView() string {
	stats := a.store.Stats()
	summary := fmt.Sprintf("%d active · %d done", stats.Active, stats.Completed)
	if stats.Overdue > 0 {
		summary += " · " + a.styles.Overdue.Render(fmt.Sprintf("%d overdue", stats.Overdue))
	}
	if shown := a.list.Len(); shown != stats.Total {
		summary += a.styles.Muted.Render(fmt.Sprintf(" (showing %d of %d)", shown, stats.Total))
	}
	return a.styles.Title.Render("taskflow") + " " + a.styles.Muted.Render(summary)
}

func (a *App) footerView() string {
	switch a.mode {
	case modeConfirmDelete:
		t, _ := a.list.Selected()
		return a.styles.Error.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title))
	case modeSearch:
		return a.styles.Hint.Render("type to filter • enter keep • esc clear")
	case modeForm:
		if a.message != "" && !a.success {
			return a.styles.Error.Render(a.message)
		}
		return ""
	}

	if a.message != "" {
		if a.success {
			return a.styles.Success.Render(a.message)
		}
		return a.styles.Error.Render(a.message)
	}

	hints := []string{"a add", "e edit", "x toggle", "d delete", "K/J move", "t theme", "q quit"}
	return a.styles.Hint.Render(strings.Join(hints, " • "))
}
