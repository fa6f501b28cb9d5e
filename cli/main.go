package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#e76f51")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Views
const (
	viewLogin       = "login"
	viewItems       = "items"
	viewSuggestions = "suggestions"
)

// Model defines the application state
type Model struct {
	client      *ApiClient
	currentView string

	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	itemTable table.Model
	items     []DisplayItem

	suggestionTable table.Model
	suggestions     []BatchSuggestion

	error string
}

type itemsLoadedMsg []DisplayItem
type suggestionsLoadedMsg []BatchSuggestion
type actionDoneMsg struct{}
type errMsg struct{ err error }
type tickMsg struct{}

func initialModel() Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	itemColumns := []table.Column{
		{Title: "Table", Width: 6},
		{Title: "Item", Width: 26},
		{Title: "Qty", Width: 4},
		{Title: "Status", Width: 9},
		{Title: "Wait", Width: 6},
		{Title: "Urgency", Width: 8},
	}
	itemTable := table.New(
		table.WithColumns(itemColumns),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	suggestionColumns := []table.Column{
		{Title: "Item", Width: 26},
		{Title: "Qty", Width: 4},
		{Title: "Tables", Width: 12},
		{Title: "Avg Wait", Width: 9},
		{Title: "Batchable", Width: 10},
	}
	suggestionTable := table.New(
		table.WithColumns(suggestionColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return Model{
		client:          NewApiClient(),
		currentView:     viewLogin,
		usernameInput:   username,
		passwordInput:   password,
		itemTable:       itemTable,
		suggestionTable: suggestionTable,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.ListItems("")
		if err != nil {
			return errMsg{err}
		}
		return itemsLoadedMsg(items)
	}
}

func (m Model) loadSuggestions() tea.Cmd {
	return func() tea.Msg {
		suggestions, err := m.client.ListSuggestions()
		if err != nil {
			return errMsg{err}
		}
		return suggestionsLoadedMsg(suggestions)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(10*time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		switch m.currentView {
		case viewLogin:
			return m.updateLogin(msg)
		case viewItems:
			return m.updateItems(msg)
		case viewSuggestions:
			return m.updateSuggestions(msg)
		}

	case itemsLoadedMsg:
		m.items = msg
		m.itemTable.SetRows(itemRows(msg))
		return m, nil

	case suggestionsLoadedMsg:
		m.suggestions = msg
		m.suggestionTable.SetRows(suggestionRows(msg))
		return m, nil

	case actionDoneMsg:
		return m, tea.Batch(m.loadItems(), m.loadSuggestions())

	case tickMsg:
		if m.currentView == viewLogin {
			return m, refreshTick()
		}
		return m, tea.Batch(m.loadItems(), m.loadSuggestions(), refreshTick())

	case errMsg:
		m.error = msg.err.Error()
		return m, nil
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.usernameInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.usernameInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil

	case "enter":
		username := m.usernameInput.Value()
		password := m.passwordInput.Value()
		if err := m.client.Login(username, password); err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.error = ""
		m.currentView = viewItems
		return m, tea.Batch(m.loadItems(), m.loadSuggestions(), refreshTick())
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "b":
		m.currentView = viewSuggestions
		return m, m.loadSuggestions()
	case "r":
		return m, m.loadItems()
	case "enter":
		// Advance the selected item one stage.
		row := m.itemTable.Cursor()
		if row < 0 || row >= len(m.items) {
			return m, nil
		}
		item := m.items[row]
		next := nextStatus(item.Status)
		if next == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			if err := m.client.SetItemStatus(item.ID, next); err != nil {
				return errMsg{err}
			}
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	m.itemTable, cmd = m.itemTable.Update(msg)
	return m, cmd
}

func (m Model) updateSuggestions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.currentView = viewItems
		return m, m.loadItems()
	case "r":
		return m, m.loadSuggestions()
	case "enter":
		row := m.suggestionTable.Cursor()
		if row < 0 || row >= len(m.suggestions) {
			return m, nil
		}
		suggestion := m.suggestions[row]
		return m, func() tea.Msg {
			if err := m.client.StartBatch(suggestion); err != nil {
				return errMsg{err}
			}
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	m.suggestionTable, cmd = m.suggestionTable.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	switch m.currentView {
	case viewLogin:
		b.WriteString(titleStyle.Render("Plate Flow — Kitchen Display"))
		b.WriteString("\n\n")
		b.WriteString(m.usernameInput.View())
		b.WriteString("\n")
		b.WriteString(m.passwordInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab: switch field • enter: log in • ctrl+c: quit"))

	case viewItems:
		b.WriteString(titleStyle.Render("Kitchen Rail"))
		b.WriteString("\n\n")
		b.WriteString(m.itemTable.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: advance status • b: batch suggestions • r: refresh • q: quit"))

	case viewSuggestions:
		b.WriteString(titleStyle.Render("Batch Cooking Suggestions"))
		b.WriteString("\n\n")
		b.WriteString(m.suggestionTable.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: start batch • r: refresh • esc: back"))
	}

	if m.error != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.error))
	}
	return docStyle.Render(b.String())
}

func itemRows(items []DisplayItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, item := range items {
		urgency := item.Urgency
		if urgency == "urgent" {
			urgency = urgentStyle.Render(urgency)
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", item.TableNumber),
			item.MenuItem.Name,
			fmt.Sprintf("%d", item.Quantity),
			item.Status,
			fmt.Sprintf("%dm", item.WaitMinutes),
			urgency,
		}
	}
	return rows
}

func suggestionRows(suggestions []BatchSuggestion) []table.Row {
	rows := make([]table.Row, len(suggestions))
	for i, sg := range suggestions {
		tables := make([]string, len(sg.TableNumbers))
		for j, n := range sg.TableNumbers {
			tables[j] = fmt.Sprintf("%d", n)
		}
		batchable := "yes"
		if !sg.CanBatch {
			batchable = "no"
		}
		rows[i] = table.Row{
			sg.MenuItem.Name,
			fmt.Sprintf("%d", sg.TotalQuantity),
			strings.Join(tables, ", "),
			fmt.Sprintf("%.0fm", sg.AvgWaitTime),
			batchable,
		}
	}
	return rows
}

func nextStatus(status string) string {
	switch status {
	case "pending":
		return "cooking"
	case "cooking":
		return "ready"
	case "ready":
		return "served"
	}
	return ""
}

func main() {
	client := NewApiClient()
	if ok, err := client.CheckHealth(); err != nil || !ok {
		fmt.Printf("Warning: API server at %s is not reachable.\n", client.BaseURL)
	}

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
