package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/tags"
)

// enterHistory switches to the score history screen.
func (m Model) enterHistory() (tea.Model, tea.Cmd) {
	m.screen = ScreenHistory
	m.historyGen++
	m.history = nil
	m.historyErr = nil
	m.historyFocus = false
	m.historyFilter.Reset()
	return m, fetchHistoryCmd(m.ctx, m.client, m.historyGen)
}

func (m Model) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.historyGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.historyErr = msg.err
		return m, nil
	}
	m.history = msg.results
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyFocus {
		switch msg.String() {
		case "enter", "esc":
			m.historyFilter.Blur()
			m.historyFocus = false
			return m, nil
		}
		var cmd tea.Cmd
		m.historyFilter, cmd = m.historyFilter.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "/":
		m.historyFocus = true
		return m, m.historyFilter.Focus()
	case "esc":
		m.screen = ScreenDecks
		return m, nil
	}
	return m, nil
}

// visibleHistory filters scores by deck title, resolving titles the same way
// the rows render them.
func (m Model) visibleHistory() []api.TestResult {
	query := m.historyFilter.Value()
	out := make([]api.TestResult, 0, len(m.history))
	for _, r := range m.history {
		if tags.MatchName(query, m.deckTitle(r.DeckID), "") {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) renderHistory() string {
	if m.historyErr != nil {
		return m.styles.Danger.Render("Could not load history: " + api.Message(m.historyErr))
	}
	if m.history == nil {
		return m.styles.Muted.Render("Loading history...")
	}

	lines := []string{
		m.styles.Accent.Render("Score history") + "   " + m.historyFilter.View(),
		"",
	}

	visible := m.visibleHistory()
	if len(visible) == 0 {
		lines = append(lines, m.styles.Muted.Render("No saved scores yet. Practice a deck from your collection."))
		return joinLines(lines)
	}

	// Newest first from the backend; group runs taken on the same day.
	day := ""
	for _, r := range visible {
		if d := scoreDay(r.CreatedAt); d != day {
			if day != "" {
				lines = append(lines, "")
			}
			day = d
			lines = append(lines, m.styles.Text.Render(d))
		}
		lines = append(lines, fmt.Sprintf("  %s  %s", m.deckTitle(r.DeckID), scoreLabel(r)))
	}
	return joinLines(lines)
}

// deckTitle resolves a deck id against the loaded lists; scores can outlive
// their deck, so a missing title degrades to the id.
func (m Model) deckTitle(deckID int) string {
	for _, d := range m.decks.Items() {
		if d.ID == deckID {
			return d.Title
		}
	}
	for _, d := range m.collection.Decks() {
		if d.ID == deckID {
			return d.Title
		}
	}
	return fmt.Sprintf("deck #%d", deckID)
}

func scoreDay(createdAt string) string {
	if len(createdAt) >= 10 {
		return createdAt[:10]
	}
	return createdAt
}

func scoreLabel(r api.TestResult) string {
	return fmt.Sprintf("%d/%d (%.0f%%)", r.Score, r.Total, r.Percentage)
}
