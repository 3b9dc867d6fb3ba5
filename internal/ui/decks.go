package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/listview"
	"github.com/satchel-tui/satchel/internal/tags"
)

// deckFormState is the inline new-deck form.
type deckFormState struct {
	open        bool
	title       textinput.Model
	description textinput.Model
	focus       int
	err         error
}

func newDeckForm() deckFormState {
	title := textinput.New()
	title.Placeholder = "title"
	title.Prompt = "  "
	title.CharLimit = 120

	description := textinput.New()
	description.Placeholder = "description"
	description.Prompt = "  "
	description.CharLimit = 200

	f := deckFormState{open: true, title: title, description: description}
	f.title.Focus()
	return f
}

func (f *deckFormState) fields() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.description}
}

// visibleDecks applies both filters over the loaded list.
func (m *Model) visibleDecks() []api.Deck {
	name := m.nameFilter.Value()
	tagQuery := m.tagFilter.Value()
	return m.decks.Visible(func(d api.Deck) bool {
		return tags.MatchName(name, d.Title, d.Description) &&
			tags.MatchTags(tagQuery, deckTags(d))
	})
}

// deckTags collects the distinct card tags of a deck for tag filtering.
func deckTags(d api.Deck) []string {
	var joined string
	for _, c := range d.Cards {
		joined += tags.Join(c.Tags) + "\n"
	}
	return tags.Parse(joined)
}

func (m Model) handleDecks(msg decksMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.decksGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.decks.FinishLoad(msg.decks, msg.err)
	m.clampCursor()
	return m, nil
}

func (m Model) handleDeckSaved(msg deckSavedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.decks.FinishCreate(api.Deck{}, msg.err)
		m.deckForm.err = msg.err
		return m, nil
	}
	m.decks.FinishCreate(*msg.deck, nil)
	m.deckForm = deckFormState{}
	m.cursor = 0
	return m, nil
}

func (m Model) handleDeckDeleted(msg deckDeletedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.decks.FinishDelete(msg.id, m.visibleDecks(), msg.err)
	m.syncCursorToSelection()
	return m, nil
}

func (m Model) handleCollection(msg collectionMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	// A completed run waiting on membership may now resolve.
	if m.run != nil {
		return m, m.startReport()
	}
	return m, nil
}

func (m Model) handleCollectionChanged(msg collectionChangedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.collectionErr = msg.err
		return m, nil
	}
	m.collectionErr = nil
	return m, nil
}

func (m Model) handleDecksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deckForm.open {
		return m.handleDeckFormKey(msg)
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.filterFocus != 0 {
		return m.handleFilterKey(msg)
	}

	visible := m.visibleDecks()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		m.selectUnderCursor(visible)
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.selectUnderCursor(visible)
	case "g", "home":
		m.cursor = 0
		m.selectUnderCursor(visible)
	case "G", "end":
		m.cursor = len(visible) - 1
		m.selectUnderCursor(visible)

	case "enter":
		if m.cursor >= 0 && m.cursor < len(visible) {
			m.selectUnderCursor(visible)
			return m.enterDeck(visible[m.cursor].ID)
		}

	case "a":
		if m.cursor >= 0 && m.cursor < len(visible) {
			deck := visible[m.cursor]
			m.collectionErr = nil
			if m.collection.Has(deck.ID) {
				return m, removeFromCollectionCmd(m.ctx, m.collection, deck.ID)
			}
			return m, addToCollectionCmd(m.ctx, m.collection, deck)
		}

	case "n":
		m.deckForm = newDeckForm()
		return m, textinput.Blink

	case "d":
		if m.cursor >= 0 && m.cursor < len(visible) {
			m.selectUnderCursor(visible)
			m.confirming = true
		}

	case "/":
		m.filterFocus = 1
		return m, m.nameFilter.Focus()

	case "#":
		m.filterFocus = 2
		return m, m.tagFilter.Focus()

	case "r":
		m.decksGen++
		m.decks.BeginLoad()
		return m, fetchDecksCmd(m.ctx, m.client, m.decksGen)

	case "H":
		return m.enterHistory()

	case "C":
		if m.session.IsAdmin() {
			return m.enterCards()
		}

	case "L":
		m.session.Logout()
		m.screen = ScreenLogin
		m.login = newLoginState()
		return m, m.login.focusFirst()
	}

	return m, nil
}

func (m Model) handleDeckFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.deckForm = deckFormState{}
		return m, nil

	case "tab", "down", "shift+tab", "up":
		n := len(m.deckForm.fields())
		if msg.String() == "tab" || msg.String() == "down" {
			m.deckForm.focus = (m.deckForm.focus + 1) % n
		} else {
			m.deckForm.focus = (m.deckForm.focus + n - 1) % n
		}
		var cmd tea.Cmd
		for i, f := range m.deckForm.fields() {
			if i == m.deckForm.focus {
				cmd = f.Focus()
			} else {
				f.Blur()
			}
		}
		return m, cmd

	case "enter":
		if err := listview.CheckRequired(
			listview.Field{Name: "title", Value: m.deckForm.title.Value()},
		); err != nil {
			m.deckForm.err = err
			return m, nil
		}
		m.deckForm.err = nil
		m.decks.BeginCreate()
		return m, createDeckCmd(m.ctx, m.client, api.DeckPayload{
			Title:       m.deckForm.title.Value(),
			Description: m.deckForm.description.Value(),
		})
	}

	fields := m.deckForm.fields()
	var cmd tea.Cmd
	*fields[m.deckForm.focus], cmd = fields[m.deckForm.focus].Update(msg)
	return m, cmd
}

// handleConfirmKey is the delete confirmation: nothing is removed until the
// user says yes and the server confirms.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		if id, ok := m.decks.SelectedID(); ok {
			m.decks.BeginDelete()
			return m, deleteDeckCmd(m.ctx, m.client, id)
		}
	case "n", "N", "esc":
		m.confirming = false
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.nameFilter.Blur()
		m.tagFilter.Blur()
		m.filterFocus = 0
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	if m.filterFocus == 1 {
		m.nameFilter, cmd = m.nameFilter.Update(msg)
	} else {
		m.tagFilter, cmd = m.tagFilter.Update(msg)
	}
	m.clampCursor()
	return m, cmd
}

func (m *Model) selectUnderCursor(visible []api.Deck) {
	if m.cursor >= 0 && m.cursor < len(visible) {
		m.decks.Select(visible[m.cursor].ID)
	}
}

func (m *Model) clampCursor() {
	n := len(m.visibleDecks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncCursorToSelection moves the cursor to the reselected item after a
// delete so the highlight follows the selection rule.
func (m *Model) syncCursorToSelection() {
	id, ok := m.decks.SelectedID()
	if !ok {
		m.cursor = 0
		return
	}
	for i, d := range m.visibleDecks() {
		if d.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m Model) renderDecks() string {
	if m.deckForm.open {
		return m.renderDeckForm()
	}

	var lines []string

	filters := m.nameFilter.View() + "   " + m.tagFilter.View()
	lines = append(lines, filters, "")

	switch {
	case m.decks.Loading:
		lines = append(lines, m.styles.Muted.Render("Loading decks..."))
	case m.decks.LoadErr != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load decks: "+api.Message(m.decks.LoadErr)))
	default:
		visible := m.visibleDecks()
		if len(visible) == 0 {
			lines = append(lines, m.styles.Muted.Render("No decks match."))
		}
		for i, d := range visible {
			marker := "  "
			if m.collection.Has(d.ID) {
				marker = m.styles.Success.Render("✓ ")
			}
			row := fmt.Sprintf("%s%s  %s", marker, d.Title, m.styles.Muted.Render(ratingLabel(d)))
			if i == m.cursor {
				row = m.styles.Selected.Render("▸ ") + row
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	if m.confirming {
		if deck, ok := m.decks.Selected(); ok {
			lines = append(lines, "",
				m.styles.ErrorBox.Render("Delete \""+deck.Title+"\"? (y/n)"))
		}
	}
	if m.decks.DeleteErr != nil {
		lines = append(lines, "", m.styles.Danger.Render("Delete failed: "+api.Message(m.decks.DeleteErr)))
	}
	if m.decks.UpdateErr != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.decks.UpdateErr)))
	}
	if m.collectionErr != nil {
		lines = append(lines, "", m.styles.Danger.Render("Collection change failed: "+api.Message(m.collectionErr)))
	}
	if err := m.collection.Err(); err != nil {
		lines = append(lines, "", m.styles.Danger.Render("Collection unavailable: "+api.Message(err)))
	}

	return joinLines(lines)
}

func (m Model) renderDeckForm() string {
	lines := []string{
		m.styles.Accent.Render("New deck"), "",
		m.deckForm.title.View(),
		m.deckForm.description.View(),
	}
	if m.decks.Creating {
		lines = append(lines, "", m.styles.Muted.Render("Saving..."))
	}
	if m.deckForm.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.deckForm.err)))
	}
	lines = append(lines, "", m.styles.Muted.Render("enter: save • esc: cancel"))
	return m.styles.Panel.Render(joinLines(lines))
}

func ratingLabel(d api.Deck) string {
	if d.RatingCount == 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f★ (%d)", d.RatingAvg, d.RatingCount)
}
