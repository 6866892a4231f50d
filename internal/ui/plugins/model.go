// Package plugins is the interactive plugin browser.
package plugins

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/resolver"
	"github.com/bnema/lootctl/internal/ui/styles"
)

// Router runs queries; *query.Router implements it.
type Router interface {
	Handle(request string) (query.Payload, error)
	Dispatch(req query.Request) (query.Payload, error)
}

type viewState int

const (
	viewList viewState = iota
	viewInfo
	viewConflicts
	viewConfirmClear
	viewChangeGame
	viewProgress
)

type pluginItem struct {
	plugin resolver.PluginData
}

func (i pluginItem) Title() string {
	return i.plugin.Name
}

func (i pluginItem) Description() string {
	p := i.plugin
	parts := []string{
		styles.FormatPriority(p.ModPriority, p.IsGlobalPriority),
		styles.FormatActive(p.IsActive),
		styles.PluginCRC.Render(p.CRC),
	}
	if p.IsDirty {
		parts = append(parts, styles.FormatDirtyBadge())
	}
	if len(p.Messages) > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%d message(s)", len(p.Messages))))
	}
	return strings.Join(parts, " | ")
}

func (i pluginItem) FilterValue() string {
	return i.plugin.Name
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	Info       key.Binding
	Conflicts  key.Binding
	Copy       key.Binding
	Clear      key.Binding
	ClearAll   key.Binding
	ChangeGame key.Binding
	Reload     key.Binding
	Quit       key.Binding
	Back       key.Binding
	Confirm    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Info:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "info")),
		Conflicts:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "conflicts")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy metadata")),
		Clear:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear user metadata")),
		ClearAll:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all user metadata")),
		ChangeGame: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "change game")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	}
}

// Model is the plugin browser
type Model struct {
	router    Router
	list      list.Model
	textInput textinput.Model
	spinner   spinner.Model
	keys      KeyMap

	state    viewState
	data     resolver.GameData
	selected *resolver.PluginData

	// clearAll distinguishes the two clear confirmations.
	clearAll bool

	conflicts   []string
	statusMsg   string
	errorMsg    string
	progressMsg string
}

// NewModel creates the browser
func NewModel(router Router) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Primary).
		BorderForeground(styles.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.Muted).
		BorderForeground(styles.Primary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Plugins"
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "Skyrim"
	ti.CharLimit = 64
	ti.Width = 30

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		router:      router,
		list:        l,
		textInput:   ti,
		spinner:     s,
		keys:        DefaultKeyMap(),
		state:       viewProgress,
		progressMsg: "Loading plugins...",
	}
}

type (
	gameDataMsg  struct{ data resolver.GameData }
	conflictsMsg struct {
		plugin    string
		conflicts []string
	}
	doneMsg struct {
		message string
		reload  bool
	}
	errMsg struct{ err error }
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadGameData, m.spinner.Tick)
}

func (m Model) loadGameData() tea.Msg {
	p, err := m.router.Handle("getGameData")
	if err != nil {
		return errMsg{err}
	}
	return gameDataMsg{resolver.GameData(p.(query.GameData))}
}

func (m Model) changeGame(folder string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.router.Dispatch(query.Request{Name: "changeGame", Args: []string{folder}})
		if err != nil {
			return errMsg{err}
		}
		return gameDataMsg{resolver.GameData(p.(query.GameData))}
	}
}

func (m Model) findConflicts(name string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.router.Dispatch(query.Request{Name: "getConflictingPlugins", Args: []string{name}})
		if err != nil {
			return errMsg{err}
		}
		return conflictsMsg{plugin: name, conflicts: p.(query.Conflicts)}
	}
}

func (m Model) copyMetadata(name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.router.Dispatch(query.Request{Name: "copyMetadata", Args: []string{name}}); err != nil {
			return errMsg{err}
		}
		return doneMsg{message: "Copied metadata of " + name}
	}
}

func (m Model) clearMetadata(name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.router.Dispatch(query.Request{Name: "clearPluginMetadata", Args: []string{name}}); err != nil {
			return errMsg{err}
		}
		return doneMsg{message: "Cleared user metadata of " + name, reload: true}
	}
}

func (m Model) clearAllMetadata() tea.Msg {
	if _, err := m.router.Handle("clearAllMetadata"); err != nil {
		return errMsg{err}
	}
	return doneMsg{message: "Cleared all user metadata", reload: true}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := styles.App.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case viewList:
			return m.updateList(msg)
		case viewInfo, viewConflicts:
			if key.Matches(msg, m.keys.Back, m.keys.Info, m.keys.Quit) {
				m.backToList()
			}
			return m, nil
		case viewConfirmClear:
			return m.updateConfirmClear(msg)
		case viewChangeGame:
			return m.updateChangeGame(msg)
		}
		return m, nil

	case gameDataMsg:
		m.data = msg.data
		items := make([]list.Item, len(msg.data.Plugins))
		for i, p := range msg.data.Plugins {
			items[i] = pluginItem{plugin: p}
		}
		m.list.Title = "Plugins: " + msg.data.Folder
		m.list.SetItems(items)
		m.state = viewList
		if n := len(msg.data.GlobalMessages); n > 0 {
			m.statusMsg = fmt.Sprintf("%d global message(s)", n)
		}
		return m, nil

	case conflictsMsg:
		m.conflicts = msg.conflicts
		m.state = viewConflicts
		return m, nil

	case doneMsg:
		m.statusMsg = msg.message
		m.errorMsg = ""
		m.state = viewList
		if msg.reload {
			return m, m.loadGameData
		}
		return m, nil

	case errMsg:
		m.errorMsg = msg.err.Error()
		m.statusMsg = ""
		m.state = viewList
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) backToList() {
	m.state = viewList
	m.selected = nil
	m.conflicts = nil
}

func (m *Model) selectedPlugin() (resolver.PluginData, bool) {
	item, ok := m.list.SelectedItem().(pluginItem)
	if !ok {
		return resolver.PluginData{}, false
	}
	p := item.plugin
	m.selected = &p
	return p, true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed characters belong to the filter while it is being edited.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Info):
		if _, ok := m.selectedPlugin(); ok {
			m.state = viewInfo
		}
		return m, nil

	case key.Matches(msg, m.keys.Conflicts):
		if p, ok := m.selectedPlugin(); ok {
			m.state = viewProgress
			m.progressMsg = "Checking conflicts of " + p.Name + "..."
			return m, m.findConflicts(p.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if p, ok := m.selectedPlugin(); ok {
			return m, m.copyMetadata(p.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if _, ok := m.selectedPlugin(); ok {
			m.clearAll = false
			m.state = viewConfirmClear
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		m.clearAll = true
		m.state = viewConfirmClear
		return m, nil

	case key.Matches(msg, m.keys.ChangeGame):
		m.state = viewChangeGame
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reload):
		m.state = viewProgress
		m.progressMsg = "Reloading plugins..."
		return m, m.loadGameData
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.state = viewProgress
		if m.clearAll {
			m.progressMsg = "Clearing all user metadata..."
			return m, m.clearAllMetadata
		}
		if m.selected != nil {
			m.progressMsg = "Clearing user metadata of " + m.selected.Name + "..."
			return m, m.clearMetadata(m.selected.Name)
		}
		m.backToList()

	case key.Matches(msg, m.keys.Back), msg.String() == "n":
		m.backToList()
	}
	return m, nil
}

func (m Model) updateChangeGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		folder := strings.TrimSpace(m.textInput.Value())
		if folder == "" {
			return m, nil
		}
		m.textInput.Blur()
		m.state = viewProgress
		m.progressMsg = "Loading " + folder + "..."
		return m, m.changeGame(folder)

	case tea.KeyEsc:
		m.textInput.Blur()
		m.backToList()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var content string
	switch m.state {
	case viewList:
		content = m.viewList()
	case viewInfo:
		content = m.viewInfo()
	case viewConflicts:
		content = m.viewConflicts()
	case viewConfirmClear:
		content = m.viewConfirmClear()
	case viewChangeGame:
		content = m.viewChangeGame()
	case viewProgress:
		content = m.spinner.View() + " " + m.progressMsg
	}
	return styles.App.Render(content)
}

func (m Model) viewList() string {
	var s strings.Builder
	s.WriteString(m.list.View())

	switch {
	case m.errorMsg != "":
		s.WriteString("\n" + styles.FormatError(m.errorMsg))
	case m.statusMsg != "":
		s.WriteString("\n" + styles.FormatSuccess(m.statusMsg))
	}

	s.WriteString("\n" + styles.Help.Render("enter:info  c:conflicts  y:copy  x:clear  X:clear all  g:game  r:reload  /:filter  q:quit"))
	return s.String()
}

func (m Model) viewInfo() string {
	if m.selected == nil {
		return "No plugin selected"
	}
	p := m.selected

	var s strings.Builder
	s.WriteString(styles.Title.Render("Plugin Info") + "\n\n")
	s.WriteString(styles.PluginName.Render(p.Name) + "\n\n")

	fmt.Fprintf(&s, "Priority:  %s\n", styles.FormatPriority(p.ModPriority, p.IsGlobalPriority))
	fmt.Fprintf(&s, "Status:    %s\n", styles.FormatActive(p.IsActive))
	fmt.Fprintf(&s, "CRC:       %s\n", p.CRC)
	if p.Version != "" {
		fmt.Fprintf(&s, "Version:   %s\n", p.Version)
	}
	if p.LoadsBSA {
		s.WriteString("Archive:   loads BSA\n")
	}
	if p.IsDirty {
		fmt.Fprintf(&s, "Cleaning:  %s\n", styles.FormatDirtyBadge())
	}
	if len(p.Tags) > 0 {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = t.Name
			if !t.IsAddition {
				tags[i] = "-" + t.Name
			}
		}
		fmt.Fprintf(&s, "Tags:      %s\n", styles.FormatTags(tags))
	}

	if len(p.Messages) > 0 {
		s.WriteString("\n")
		for _, msg := range p.Messages {
			text := ""
			if len(msg.Content) > 0 {
				text = msg.Content[0].Text
			}
			s.WriteString(styles.FormatMessage(msg.Type, text) + "\n")
		}
	}

	s.WriteString("\n" + styles.Help.Render("esc/enter:back"))
	return s.String()
}

func (m Model) viewConflicts() string {
	var s strings.Builder
	name := ""
	if m.selected != nil {
		name = m.selected.Name
	}
	s.WriteString(styles.Title.Render("Conflicts") + "\n\n")
	if len(m.conflicts) == 0 {
		s.WriteString(styles.MutedText.Render("No plugin overrides records of "+name) + "\n")
	}
	for _, c := range m.conflicts {
		s.WriteString(styles.Bullet.String() + " " + c + "\n")
	}
	s.WriteString("\n" + styles.Help.Render("esc/enter:back"))
	return s.String()
}

func (m Model) viewConfirmClear() string {
	var s strings.Builder
	s.WriteString(styles.Title.Render("Clear User Metadata") + "\n\n")
	if m.clearAll {
		s.WriteString("Remove all user metadata for this game?\n\n")
	} else if m.selected != nil {
		fmt.Fprintf(&s, "Remove the user metadata of %s?\n\n", styles.Selected.Render(m.selected.Name))
	}
	s.WriteString(styles.Help.Render("y:confirm  n/esc:cancel"))
	return s.String()
}

func (m Model) viewChangeGame() string {
	var s strings.Builder
	s.WriteString(styles.Title.Render("Change Game") + "\n\n")
	s.WriteString("Game folder:\n\n")
	s.WriteString(m.textInput.View() + "\n\n")
	s.WriteString(styles.Help.Render("enter:load  esc:cancel"))
	return s.String()
}
