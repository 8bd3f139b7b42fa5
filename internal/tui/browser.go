package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/jrsteele09/go-dashboard/resources"
)

// Deleter removes one record by ID.
type Deleter func(ctx context.Context, id int64) error

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirmDelete
)

const statusFilter = "status"

var perPageSteps = []int{5, 10, 25, 50, 100}

// StateMsg carries a list state change from the controller into the
// program.
type StateMsg[T any] struct {
	State listview.State[T]
}

// DeletedMsg reports the outcome of a delete.
type DeletedMsg struct {
	ID  int64
	Err error
}

// Browser is an interactive list of one resource kind driven by a
// listview.Controller.
type Browser[T any, P RecordPtr[T]] struct {
	ctx     context.Context
	kind    resources.Kind
	ctrl    *listview.Controller[T]
	remove  Deleter
	changes chan listview.State[T]

	table   table.Model
	search  textinput.Model
	mode    mode
	state   listview.State[T]
	pending int64
	message string
}

// NewBrowser wires the controller's change notifications into the model.
// The controller is mounted by Init.
func NewBrowser[T any, P RecordPtr[T]](ctx context.Context, kind resources.Kind, ctrl *listview.Controller[T], remove Deleter) Browser[T, P] {
	changes := make(chan listview.State[T], 1)
	ctrl.OnChange(func(s listview.State[T]) {
		// Only the newest state matters; never block the controller.
		for {
			select {
			case changes <- s:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})

	search := textinput.New()
	search.Placeholder = "Search " + strings.ToLower(kind.Name)
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 40

	state := ctrl.State()
	t := table.New(
		table.WithColumns(columns(kind, state.Query)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return Browser[T, P]{
		ctx:     ctx,
		kind:    kind,
		ctrl:    ctrl,
		remove:  remove,
		changes: changes,
		table:   t,
		search:  search,
		state:   state,
	}
}

// Run shows the browser full screen until the user quits or ctx ends.
func Run[T any, P RecordPtr[T]](ctx context.Context, kind resources.Kind, ctrl *listview.Controller[T], remove Deleter) error {
	b := NewBrowser[T, P](ctx, kind, ctrl, remove)
	_, err := tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (b Browser[T, P]) Init() tea.Cmd {
	return tea.Batch(b.mount, b.waitForChange())
}

func (b Browser[T, P]) mount() tea.Msg {
	b.ctrl.Mount()
	return nil
}

func (b Browser[T, P]) waitForChange() tea.Cmd {
	changes := b.changes
	return func() tea.Msg {
		return StateMsg[T]{State: <-changes}
	}
}

func (b Browser[T, P]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.table.SetHeight(max(3, msg.Height-10))
		return b, nil

	case StateMsg[T]:
		b.apply(msg.State)
		return b, b.waitForChange()

	case DeletedMsg:
		if msg.Err != nil {
			b.message = errorStyle.Render(errors.MessageOr(msg.Err, "Failed to delete record"))
			return b, nil
		}
		b.message = statusStyle.Render(fmt.Sprintf("Deleted #%d", msg.ID))
		b.ctrl.Reload()
		return b, nil

	case tea.KeyMsg:
		switch b.mode {
		case modeSearch:
			return b.updateSearch(msg)
		case modeConfirmDelete:
			return b.updateConfirm(msg)
		}
		return b.updateBrowse(msg)
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b Browser[T, P]) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		b.ctrl.Close()
		return b, tea.Quit
	case "n", "right", "l":
		b.ctrl.NextPage()
	case "p", "left", "h":
		b.ctrl.PrevPage()
	case "r":
		b.message = ""
		b.ctrl.Reload()
	case "/":
		b.mode = modeSearch
		b.search.SetValue(b.state.Query.Search)
		b.search.CursorEnd()
		return b, b.search.Focus()
	case "esc":
		if b.state.Query.Search != "" {
			b.ctrl.SetSearch("")
		}
	case "s":
		if b.kind.IsFilter(statusFilter) {
			b.ctrl.SetFilter(statusFilter, b.nextStatus())
		}
	case "+", "=":
		b.ctrl.SetPerPage(stepPerPage(b.state.Query.PerPage, 1))
	case "-":
		b.ctrl.SetPerPage(stepPerPage(b.state.Query.PerPage, -1))
	case "x", "delete":
		if id, ok := b.selectedID(); ok && b.remove != nil {
			b.mode = modeConfirmDelete
			b.pending = id
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		if n <= len(b.kind.Columns) && b.kind.Columns[n-1].Sortable {
			b.ctrl.ToggleSort(b.kind.Columns[n-1].Field)
		}
	default:
		var cmd tea.Cmd
		b.table, cmd = b.table.Update(msg)
		return b, cmd
	}
	return b, nil
}

// updateSearch feeds keystrokes to the search box. Every edit goes to the
// controller, which debounces the fetch.
func (b Browser[T, P]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.mode = modeBrowse
		b.search.Blur()
		return b, nil
	case "esc":
		b.mode = modeBrowse
		b.search.Blur()
		b.search.SetValue("")
		b.ctrl.SetSearch("")
		return b, nil
	case "ctrl+c":
		b.ctrl.Close()
		return b, tea.Quit
	}

	before := b.search.Value()
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	if value := b.search.Value(); value != before {
		b.ctrl.SetSearch(value)
	}
	return b, cmd
}

func (b Browser[T, P]) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.mode = modeBrowse
	id := b.pending
	b.pending = 0
	if msg.String() != "y" {
		b.message = "Delete cancelled"
		return b, nil
	}

	ctx, remove := b.ctx, b.remove
	return b, func() tea.Msg {
		return DeletedMsg{ID: id, Err: remove(ctx, id)}
	}
}

func (b *Browser[T, P]) apply(state listview.State[T]) {
	b.state = state
	b.table.SetColumns(columns(b.kind, state.Query))

	rows := Rows[T, P](b.kind, state.Items)
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = r
	}
	b.table.SetRows(tableRows)
	if b.table.Cursor() >= len(tableRows) {
		b.table.SetCursor(max(0, len(tableRows)-1))
	}
}

func (b Browser[T, P]) selectedID() (int64, bool) {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.state.Items) {
		return 0, false
	}
	return P(&b.state.Items[i]).GetID(), true
}

// nextStatus cycles the status filter through every status and back to
// none.
func (b Browser[T, P]) nextStatus() string {
	options := append([]string{""}, b.kind.Statuses...)
	current := b.state.Query.Filters[statusFilter]
	for i, s := range options {
		if s == current {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func stepPerPage(current, dir int) int {
	for i, n := range perPageSteps {
		if n == current {
			j := min(max(i+dir, 0), len(perPageSteps)-1)
			return perPageSteps[j]
		}
	}
	return listview.DefaultPerPage
}

func columns(kind resources.Kind, q listview.Query) []table.Column {
	headers := Headers(kind, q)
	cols := make([]table.Column, len(headers))
	cols[0] = table.Column{Title: headers[0], Width: 5}
	for i, c := range kind.Columns {
		cols[i+1] = table.Column{Title: headers[i+1], Width: c.Width}
	}
	return cols
}

func (b Browser[T, P]) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(b.kind.Name))
	s.WriteString("\n")
	s.WriteString(filterStyle.Render(b.describeQuery()))
	s.WriteString("\n\n")
	s.WriteString(b.table.View())
	s.WriteString("\n")

	footer := Summary(b.ctrl.Pagination())
	if b.state.Loading {
		footer += "  Loading..."
	}
	s.WriteString(footer)
	s.WriteString("\n")

	if b.state.Error != "" {
		s.WriteString(errorStyle.Render(b.state.Error))
		s.WriteString("\n")
	}
	switch b.mode {
	case modeSearch:
		s.WriteString(b.search.View())
		s.WriteString("\n")
	case modeConfirmDelete:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Delete #%d? (y/n)", b.pending)))
		s.WriteString("\n")
	}
	if b.message != "" {
		s.WriteString(b.message)
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("↑/↓: select • n/p: page • 1-9: sort • /: search • s: status • +/-: per page • r: reload • x: delete • q: quit"))
	return s.String()
}

func (b Browser[T, P]) describeQuery() string {
	q := b.state.Query
	parts := []string{fmt.Sprintf("per page: %d", q.PerPage)}
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", q.Search))
	}
	for _, key := range b.kind.Filters {
		if value := q.Filters[key]; value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", key, value))
		}
	}
	return strings.Join(parts, "  ")
}
