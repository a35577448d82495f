package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vendra/vendra/pkg/products"
	"github.com/vendra/vendra/pkg/search"
)

var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	statusStyle   = lipgloss.NewStyle().Faint(true)
)

// fetchFunc looks up products for a query.
type fetchFunc func(ctx context.Context, query string) ([]products.Product, error)

// fireMsg tells the model a scheduled lookup's delay has elapsed.
type fireMsg struct {
	generation int64
	query      string
}

// resultMsg carries a finished lookup back to the model.
type resultMsg struct {
	generation int64
	items      []products.Product
	err        error
}

// SearchModel drives the interactive product search. Typing schedules a
// debounced lookup; a lookup that was superseded before it finished is
// discarded so stale results never overwrite newer ones.
type SearchModel struct {
	ctx       context.Context
	fetch     fetchFunc
	debouncer *search.Debouncer

	input    textinput.Model
	items    []products.Product
	cursor   int
	status   string
	quitting bool
}

// NewSearchModel builds a search model around a lookup function.
func NewSearchModel(ctx context.Context, fetch fetchFunc) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Type to search products"
	input.Focus()

	return &SearchModel{
		ctx:       ctx,
		fetch:     fetch,
		debouncer: search.NewDebouncer(search.DefaultDelay),
		input:     input,
	}
}

// Init implements tea.Model
func (*SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.scheduleLookup(m.input.Value()))
		}
		return m, cmd

	case fireMsg:
		return m, m.runLookup(msg)

	case resultMsg:
		m.applyResult(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// scheduleLookup registers a debounced lookup for the current query.
func (m *SearchModel) scheduleLookup(query string) tea.Cmd {
	generation, delay := m.debouncer.Schedule(query)
	m.status = "searching..."
	if delay == 0 {
		return func() tea.Msg { return fireMsg{generation: generation, query: query} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return fireMsg{generation: generation, query: query}
	})
}

// runLookup performs the lookup unless it has been superseded meanwhile.
func (m *SearchModel) runLookup(msg fireMsg) tea.Cmd {
	if !m.debouncer.IsCurrent(msg.generation) {
		return nil
	}
	return func() tea.Msg {
		items, err := m.fetch(m.ctx, msg.query)
		return resultMsg{generation: msg.generation, items: items, err: err}
	}
}

// applyResult folds a finished lookup into the model, dropping stale ones.
func (m *SearchModel) applyResult(msg resultMsg) {
	if !m.debouncer.IsCurrent(msg.generation) {
		return
	}
	if msg.err != nil {
		m.status = fmt.Sprintf("search failed: %v", msg.err)
		return
	}
	m.items = msg.items
	m.cursor = 0
	m.status = fmt.Sprintf("%d result(s)", len(msg.items))
}

// View implements tea.Model
func (m *SearchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, p := range m.items {
		row := fmt.Sprintf("%s  %.2f", p.Name, p.Price)
		if p.Code != "" {
			row = fmt.Sprintf("%s  [%s]", row, p.Code)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString(itemStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\nUse ↑/↓ to move, 'esc' to quit.\n")
	return docStyle.Render(b.String())
}

// RunProductSearch runs the interactive product search until the user quits.
func RunProductSearch(ctx context.Context, svc *products.Service) error {
	model := NewSearchModel(ctx, func(ctx context.Context, query string) ([]products.Product, error) {
		return svc.Fetch(ctx, products.FetchOptions{Search: query})
	})
	_, err := tea.NewProgram(model).Run()
	return err
}
