// Package tui provides the Bubble Tea chapter dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/dashboard"
	"github.com/verte-zerg/pyqtrack/internal/logging"
	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/query"
	"github.com/verte-zerg/pyqtrack/internal/report"
)

type mode int

const (
	modeBrowse mode = iota
	modePicker
	modeWhere
)

// Options configures optional collaborators of the dashboard.
type Options struct {
	// Saver persists progress edits. Nil keeps them in memory.
	Saver  dashboard.Saver
	Logger *logrus.Logger
}

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	store       *dashboard.Store
	logger      *logrus.Logger
	unsubscribe []func()

	subjects []string
	years    []int

	width  int
	height int

	table       table.Model
	tableLayout tableLayout
	columns     []column

	mode       mode
	picker     picker
	whereInput textinput.Model
	whereError string

	errMsg string
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a dashboard model bound to st. Every key press is
// turned into one action dispatched on st.
func NewModel(st *dashboard.Store, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	source := st.State().Source
	m := &Model{
		store:    st,
		logger:   logger,
		subjects: append([]string{model.AllSubjects}, chapter.Subjects(source)...),
		years:    report.RecentYears(chapter.Years(source), recentYears),
	}
	m.columns = planColumns(m.years, 80)
	m.whereInput = newInput("Where: ")
	m.whereInput.Placeholder = "weak && total > 20"
	m.table = table.New(
		table.WithColumns(tableColumns(m.columns)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
	m.unsubscribe = append(m.unsubscribe,
		st.Subscribe(dashboard.Persist(context.Background(), opts.Saver, m.reportSaveError)),
		st.Subscribe(func(_, _ dashboard.State) {
			m.refreshTable()
			m.updateLayout()
		}),
	)
	m.refreshTable()
	return m
}

// Close detaches the model from its store.
func (m *Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
	m.unsubscribe = nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modePicker:
			return m.updatePicker(msg)
		case modeWhere:
			return m.updateWhere(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveSubject(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveSubject(1)
		return m, tea.ClearScreen
	case "c":
		m.openPicker(pickClasses)
		return m, nil
	case "u":
		m.openPicker(pickUnits)
		return m, nil
	case "n":
		m.dispatch(dashboard.ToggleNotStarted{})
		return m, nil
	case "f":
		m.dispatch(dashboard.CycleStatus{})
		return m, nil
	case "w":
		m.dispatch(dashboard.ToggleWeakOnly{})
		return m, nil
	case "o":
		m.dispatch(dashboard.ToggleSort{})
		return m, nil
	case "s":
		m.dispatch(dashboard.CycleSortKey{})
		return m, nil
	case "O":
		m.dispatch(dashboard.ToggleSortOrder{})
		return m, nil
	case "/":
		return m.startWhere()
	case "r":
		m.errMsg = ""
		m.dispatch(dashboard.Reset{})
		return m, nil
	case " ":
		m.toggleWeak()
		return m, nil
	case "+", "=":
		m.adjustSolved(1)
		return m, nil
	case "-", "_":
		m.adjustSolved(-1)
		return m, nil
	case "g", "home":
		m.table.GotoTop()
		return m, nil
	case "G", "end":
		m.table.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) dispatch(action dashboard.Action) {
	m.store.Dispatch(action)
}

func (m *Model) reportSaveError(err error) {
	m.errMsg = fmt.Sprintf("failed to save progress: %v", err)
	m.logger.WithError(err).Error("failed to save progress")
}

func (m *Model) moveSubject(delta int) {
	count := len(m.subjects)
	if count == 0 {
		return
	}
	current := 0
	spec := m.store.State().Spec
	if !spec.AnySubject() {
		for i, s := range m.subjects {
			if s == spec.Subject {
				current = i
				break
			}
		}
	}
	next := current + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.dispatch(dashboard.SelectSubject{Subject: m.subjects[next]})
	m.table.GotoTop()
}

func (m *Model) selected() (model.Record, bool) {
	rows := m.store.State().Filtered
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(rows) {
		return model.Record{}, false
	}
	return rows[idx], true
}

// follow keeps the cursor on key after the view was re-sorted.
func (m *Model) follow(key model.Key) {
	for i, r := range m.store.State().Filtered {
		if r.Key() == key {
			m.table.SetCursor(i)
			return
		}
	}
}

func (m *Model) toggleWeak() {
	r, ok := m.selected()
	if !ok {
		return
	}
	m.dispatch(dashboard.ToggleWeak{Key: r.Key()})
	m.follow(r.Key())
}

func (m *Model) adjustSolved(delta int) {
	r, ok := m.selected()
	if !ok {
		return
	}
	solved := r.QuestionSolved + delta
	if solved < 0 {
		solved = 0
	}
	if solved == r.QuestionSolved {
		return
	}
	m.dispatch(dashboard.UpdateProgress{
		Chapter: r.Chapter,
		Solved:  solved,
		Status:  model.DeriveStatus(solved, r.TotalQuestions()),
	})
	m.follow(r.Key())
}

func (m *Model) openPicker(kind pickerKind) {
	state := m.store.State()
	switch kind {
	case pickUnits:
		m.picker = newPicker(kind, "Units", chapter.UniqueUnits(state.Source, state.Spec.Subject), state.Spec.Units)
	default:
		m.picker = newPicker(kind, "Classes", chapter.UniqueClasses(state.Source), state.Spec.Classes)
	}
	m.mode = modePicker
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
	case "enter":
		selection := m.picker.selection()
		if m.picker.kind == pickUnits {
			m.dispatch(dashboard.SetUnits{Units: selection})
		} else {
			m.dispatch(dashboard.SetClasses{Classes: selection})
		}
		m.mode = modeBrowse
		m.table.GotoTop()
	case "up", "k":
		m.picker.move(-1)
	case "down", "j":
		m.picker.move(1)
	case " ", "x":
		m.picker.toggle()
	case "a":
		m.picker.clear()
	}
	return m, nil
}

func (m *Model) startWhere() (tea.Model, tea.Cmd) {
	m.mode = modeWhere
	m.whereError = ""
	m.whereInput.SetValue(m.store.State().Spec.WhereExpr)
	m.whereInput.CursorEnd()
	return m, m.whereInput.Focus()
}

func (m *Model) updateWhere(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.whereError = ""
		m.whereInput.Blur()
		return m, nil
	case tea.KeyEnter:
		expr := strings.TrimSpace(m.whereInput.Value())
		pred, err := query.Compile(expr)
		if err != nil {
			m.whereError = err.Error()
			return m, nil
		}
		m.dispatch(dashboard.SetWhere{Expr: expr, Predicate: pred})
		m.mode = modeBrowse
		m.whereError = ""
		m.whereInput.Blur()
		m.table.GotoTop()
		return m, nil
	}
	var cmd tea.Cmd
	m.whereInput, cmd = m.whereInput.Update(msg)
	return m, cmd
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}
