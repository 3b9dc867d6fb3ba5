package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/practice"
)

// enterPractice opens the intro step for the deck on the detail screen.
func (m Model) enterPractice() (tea.Model, tea.Cmd) {
	m.screen = ScreenPractice
	m.run = practice.New(*m.detail)
	m.answer.Reset()
	// The score gate needs the collection; make sure a load is under way.
	return m, loadCollectionCmd(m.ctx, m.collection)
}

// startReport evaluates the one-shot submission guards on the Update
// goroutine and, when they pass, submits the score from a command.
func (m Model) startReport() tea.Cmd {
	if m.run == nil {
		return nil
	}
	deckID, total, score, submit := m.run.BeginReport(m.collection)
	if !submit {
		return nil
	}
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		_, err := client.SubmitTest(ctx, deckID, total, score)
		return reportMsg{err: err}
	}
}

func (m Model) handleReport(msg reportMsg) (tea.Model, tea.Cmd) {
	if m.run != nil {
		m.run.FinishReport(msg.err)
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	return m, nil
}

func (m Model) handlePracticeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.run == nil {
		m.screen = ScreenDeck
		return m, nil
	}

	switch m.run.Step() {
	case practice.StepIntro:
		switch msg.String() {
		case "enter":
			m.run.Start()
			m.answer.Reset()
			return m, m.answer.Focus()
		case "esc":
			m.screen = ScreenDeck
			m.run = nil
		}
		return m, nil

	case practice.StepGame:
		switch msg.String() {
		case "enter":
			if m.run.Submit(m.answer.Value()) {
				m.answer.Reset()
				if m.run.Step() == practice.StepResults {
					m.answer.Blur()
					return m, m.startReport()
				}
			}
			return m, nil
		case "esc":
			m.run.Abandon()
			m.answer.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd

	case practice.StepResults:
		switch msg.String() {
		case "r":
			m.run.Restart()
		case "esc":
			m.screen = ScreenDeck
			m.run = nil
		}
		return m, nil
	}

	return m, nil
}

func (m Model) renderPractice() string {
	if m.run == nil {
		return ""
	}
	deck := m.run.Deck()

	switch m.run.Step() {
	case practice.StepIntro:
		lines := []string{
			m.styles.Accent.Render("Practice: " + deck.Title),
			"",
			fmt.Sprintf("%d cards, shuffled. Answers are checked ignoring case and spacing.", m.run.Total()),
		}
		if m.run.Total() == 0 {
			lines = append(lines, m.styles.Muted.Render("This deck has no cards to practice."))
		} else {
			lines = append(lines, "", m.styles.Muted.Render("Press enter to start."))
		}
		return m.styles.Panel.Render(joinLines(lines))

	case practice.StepGame:
		card, ok := m.run.Current()
		if !ok {
			return ""
		}
		lines := []string{
			m.styles.Muted.Render(fmt.Sprintf("Card %d of %d", m.run.Position(), m.run.Total())),
			"",
			m.styles.Accent.Render(card.Front),
		}
		if card.Examples != "" {
			lines = append(lines, m.styles.Muted.Render(card.Examples))
		}
		lines = append(lines, "", m.answer.View())
		return m.styles.Panel.Render(joinLines(lines))

	case practice.StepResults:
		return m.renderResults()
	}
	return ""
}

func (m Model) renderResults() string {
	lines := []string{
		m.styles.Accent.Render(fmt.Sprintf("Score: %d / %d", m.run.Correct(), m.run.Total())),
		"",
	}
	for _, r := range m.run.Results() {
		mark := m.styles.Success.Render("✓")
		detail := ""
		if !r.Correct {
			mark = m.styles.Danger.Render("✗")
			detail = m.styles.Muted.Render(fmt.Sprintf("  (you: %s, expected: %s)", r.Given, r.Expected))
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", mark, r.Prompt, detail))
	}

	lines = append(lines, "", m.reportLine())
	return joinLines(lines)
}

// reportLine narrates the score submission so the user can tell a saved run
// from a practice-only one.
func (m Model) reportLine() string {
	state, err := m.run.ReportState()
	switch state {
	case practice.ReportPending:
		return m.styles.Muted.Render("Saving score...")
	case practice.ReportDone:
		return m.styles.Success.Render("Score saved.")
	case practice.ReportSkipped:
		return m.styles.Muted.Render("Add this deck to your collection to keep scores.")
	case practice.ReportFailed:
		return m.styles.Danger.Render("Score not saved: " + api.Message(err))
	default:
		if m.collection.Loading() {
			return m.styles.Muted.Render("Checking your collection...")
		}
		return ""
	}
}

func (m Model) practiceHints() string {
	if m.run == nil {
		return "esc: back"
	}
	switch m.run.Step() {
	case practice.StepIntro:
		return "enter: start • esc: back"
	case practice.StepGame:
		return "enter: submit answer • esc: abandon run"
	default:
		return "r: practice again • esc: back to deck"
	}
}
