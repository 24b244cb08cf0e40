package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jrazmi/todolist/sdk/logger"
	"github.com/jrazmi/todolist/sdk/todoclient"
	"github.com/jrazmi/todolist/sdk/validation"
)

// Client is the part of the todo API the terminal client uses.
type Client interface {
	List(ctx context.Context) ([]todoclient.Todo, error)
	Create(ctx context.Context, title, description string) (todoclient.Todo, error)
	Update(ctx context.Context, id, title, description string) (todoclient.Todo, error)
	SetStatus(ctx context.Context, id, status string) (todoclient.Todo, error)
	Delete(ctx context.Context, id string) error
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeDelete
)

type (
	loadedMsg  []todoclient.Todo
	mutatedMsg struct{ notice string }
	failedMsg  struct {
		message string
		err     error
	}
)

// todoItem adapts a todo to bubbles/list.Item.
type todoItem struct {
	todo todoclient.Todo
}

func (i todoItem) Title() string       { return i.todo.Title }
func (i todoItem) FilterValue() string { return i.todo.Title }
func (i todoItem) Description() string {
	return validation.GetStringOrEmpty(i.todo.Description)
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed() {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	line := box + " " + text
	if desc := it.Description(); desc != "" {
		line += "  " + mutedStyle.Render(desc)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type model struct {
	client  Client
	log     *logger.Logger
	timeout time.Duration

	list  list.Model
	todos []todoclient.Todo

	mode    mode
	title   textinput.Model
	desc    textinput.Model
	focus   int
	editID  string
	formErr string

	notice  string
	errLine string

	width, height int
}

func newModel(client Client, log *logger.Logger) model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	title := textinput.New()
	title.Prompt = "Title       > "
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "Description > "
	desc.Placeholder = "Optional"
	desc.CharLimit = 1000

	m := model{
		client:  client,
		log:     log,
		timeout: 10 * time.Second,
		list:    l,
		title:   title,
		desc:    desc,
		width:   80,
		height:  24,
	}
	m.list.Title = m.header()
	m.resize()
	return m
}

func (m model) Init() tea.Cmd {
	return m.load()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.setTodos(msg)
		return m, nil

	case mutatedMsg:
		m.notice = msg.notice
		m.errLine = ""
		return m, m.load()

	case failedMsg:
		m.log.Error("todo api", "message", msg.message, "err", msg.err)
		m.notice = ""
		m.errLine = msg.message
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.notice = ""
		m.errLine = ""
		return m, m.load()

	case "a":
		m.openForm(modeAdd, todoclient.Todo{})
		return m, nil

	case "e":
		if todo, ok := m.selected(); ok {
			m.openForm(modeEdit, todo)
		}
		return m, nil

	case " ":
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		status := "completed"
		if todo.Completed() {
			status = "pending"
		}
		return m, m.setStatus(todo.ID, status)

	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil

	case "tab", "shift+tab":
		m.focus = 1 - m.focus
		m.focusInputs()
		return m, nil

	case "enter":
		if validation.IsBlank(m.title.Value()) {
			m.formErr = "Title is required"
			return m, nil
		}
		title := strings.TrimSpace(m.title.Value())
		desc := strings.TrimSpace(m.desc.Value())

		var cmd tea.Cmd
		if m.mode == modeAdd {
			cmd = m.create(title, desc)
		} else {
			cmd = m.update(m.editID, title, desc)
		}
		m.closeForm()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" {
		return m, nil
	}
	todo, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, m.remove(todo.ID)
}

func (m model) View() string {
	content := m.list.View()

	switch m.mode {
	case modeAdd, modeEdit:
		heading := "Add todo"
		if m.mode == modeEdit {
			heading = "Edit todo"
		}
		if m.formErr != "" {
			heading += "  " + errorStyle.Render(m.formErr)
		}
		form := heading + "\n" + m.title.View() + "\n" + m.desc.View() + "\n" +
			helpStyle.Render("enter save • tab switch field • esc cancel")
		content += "\n" + panelStyle.Render(form)

	case modeDelete:
		if todo, ok := m.selected(); ok {
			content += "\n" + errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", todo.Title))
		}
	}

	switch {
	case m.errLine != "":
		content += "\n" + errorStyle.Render("✖ "+m.errLine)
	case m.notice != "":
		content += "\n" + successStyle.Render("✔ "+m.notice)
	}

	return panelStyle.Render(content)
}

// setTodos shows pending todos above completed ones. Each group keeps the
// order the API returned.
func (m *model) setTodos(todos []todoclient.Todo) {
	grouped := make([]todoclient.Todo, 0, len(todos))
	for _, t := range todos {
		if !t.Completed() {
			grouped = append(grouped, t)
		}
	}
	for _, t := range todos {
		if t.Completed() {
			grouped = append(grouped, t)
		}
	}

	m.todos = grouped
	items := make([]list.Item, len(grouped))
	for i, t := range grouped {
		items[i] = todoItem{todo: t}
	}
	m.list.SetItems(items)
	m.list.Title = m.header()
}

func (m model) header() string {
	var done int
	for _, t := range m.todos {
		if t.Completed() {
			done++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(m.todos)-done,
		accentStyle.Render("Total"), len(m.todos),
	)
}

func (m model) selected() (todoclient.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return todoclient.Todo{}, false
	}
	return it.todo, true
}

func (m *model) openForm(md mode, todo todoclient.Todo) {
	m.mode = md
	m.formErr = ""
	m.editID = todo.ID
	m.title.SetValue(todo.Title)
	m.desc.SetValue(todoItem{todo: todo}.Description())
	m.title.CursorEnd()
	m.focus = 0
	m.focusInputs()
	m.resize()
}

func (m *model) closeForm() {
	m.mode = modeBrowse
	m.formErr = ""
	m.editID = ""
	m.title.SetValue("")
	m.desc.SetValue("")
	m.title.Blur()
	m.desc.Blur()
	m.resize()
}

func (m *model) focusInputs() {
	if m.focus == 0 {
		m.title.Focus()
		m.desc.Blur()
		return
	}
	m.desc.Focus()
	m.title.Blur()
}

func (m *model) resize() {
	h := m.height - 4
	if m.mode == modeAdd || m.mode == modeEdit {
		h -= 6
	}
	m.list.SetSize(m.width-4, max(h, 1))
}

// =============================================================================
// Commands

func (m model) load() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		todos, err := client.List(ctx)
		if err != nil {
			return failedMsg{message: "Failed to load todos", err: err}
		}
		return loadedMsg(todos)
	}
}

func (m model) create(title, description string) tea.Cmd {
	return m.mutate("Todo created", "Failed to create todo", func(ctx context.Context) error {
		_, err := m.client.Create(ctx, title, description)
		return err
	})
}

func (m model) update(id, title, description string) tea.Cmd {
	return m.mutate("Todo updated", "Failed to update todo", func(ctx context.Context) error {
		_, err := m.client.Update(ctx, id, title, description)
		return err
	})
}

func (m model) setStatus(id, status string) tea.Cmd {
	notice := "Todo marked as " + status
	return m.mutate(notice, "Failed to update todo status", func(ctx context.Context) error {
		_, err := m.client.SetStatus(ctx, id, status)
		return err
	})
}

func (m model) remove(id string) tea.Cmd {
	return m.mutate("Todo deleted", "Failed to delete todo", func(ctx context.Context) error {
		return m.client.Delete(ctx, id)
	})
}

// mutate runs fn and reports a mutatedMsg, which triggers a full reload.
func (m model) mutate(notice, failure string, fn func(ctx context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return failedMsg{message: failure, err: err}
		}
		return mutatedMsg{notice: notice}
	}
}
