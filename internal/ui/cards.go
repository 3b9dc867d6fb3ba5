package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/listview"
	"github.com/satchel-tui/satchel/internal/tags"
)

// cardFormState is the inline card form, shared between create and edit. A
// zero editID means create.
type cardFormState struct {
	open      bool
	editID    int
	front     textinput.Model
	back      textinput.Model
	examples  textinput.Model
	tagsDraft textinput.Model
	focus     int
	err       error
}

func newCardForm(card *api.Card) cardFormState {
	front := textinput.New()
	front.Placeholder = "front"
	front.Prompt = "  "
	front.CharLimit = 200

	back := textinput.New()
	back.Placeholder = "back"
	back.Prompt = "  "
	back.CharLimit = 200

	examples := textinput.New()
	examples.Placeholder = "examples"
	examples.Prompt = "  "
	examples.CharLimit = 500

	draft := textinput.New()
	draft.Placeholder = "tags, comma separated"
	draft.Prompt = "  "
	draft.CharLimit = 200

	f := cardFormState{open: true, front: front, back: back, examples: examples, tagsDraft: draft}
	if card != nil {
		f.editID = card.ID
		f.front.SetValue(card.Front)
		f.back.SetValue(card.Back)
		f.examples.SetValue(card.Examples)
		f.tagsDraft.SetValue(tags.Join(card.Tags))
	}
	f.front.Focus()
	return f
}

func (f *cardFormState) fields() []*textinput.Model {
	return []*textinput.Model{&f.front, &f.back, &f.examples, &f.tagsDraft}
}

// enterCards switches to the card library and refetches it.
func (m Model) enterCards() (tea.Model, tea.Cmd) {
	m.screen = ScreenCards
	m.cardsGen++
	m.cards.BeginLoad()
	return m, fetchCardsCmd(m.ctx, m.client, m.cardsGen)
}

// visibleCards applies both filters: the text filter matches front or back,
// the tag filter requires every needle to match some card tag.
func (m *Model) visibleCards() []api.Card {
	text := m.cardNameFilter.Value()
	tagQuery := m.cardTagFilter.Value()
	return m.cards.Visible(func(c api.Card) bool {
		return tags.MatchName(text, c.Front, c.Back) &&
			tags.MatchTags(tagQuery, c.Tags)
	})
}

func (m Model) handleCards(msg cardsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.cardsGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.cards.FinishLoad(msg.cards, msg.err)
	m.clampCardsCursor()
	return m, nil
}

func (m Model) handleCardSaved(msg cardSavedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		if msg.created {
			m.cards.FinishCreate(api.Card{}, msg.err)
		} else {
			m.cards.FinishUpdate(api.Card{}, msg.err)
		}
		m.cardForm.err = msg.err
		return m, nil
	}
	if msg.created {
		m.cards.FinishCreate(*msg.card, nil)
		m.cardsCursor = 0
	} else {
		m.cards.FinishUpdate(*msg.card, nil)
	}
	m.cardForm = cardFormState{}
	return m, nil
}

func (m Model) handleCardDeleted(msg cardDeletedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.cards.FinishDelete(msg.id, m.visibleCards(), msg.err)
	m.syncCardsCursor()
	return m, nil
}

func (m Model) handleCardsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cardForm.open {
		return m.handleCardFormKey(msg)
	}
	if m.cardConfirming {
		return m.handleCardConfirmKey(msg)
	}
	if m.cardFilterFocus != 0 {
		return m.handleCardFilterKey(msg)
	}

	visible := m.visibleCards()

	switch msg.String() {
	case "esc":
		return m.enterDecks()

	case "j", "down":
		if m.cardsCursor < len(visible)-1 {
			m.cardsCursor++
		}
		m.selectCardUnderCursor(visible)
	case "k", "up":
		if m.cardsCursor > 0 {
			m.cardsCursor--
		}
		m.selectCardUnderCursor(visible)
	case "g", "home":
		m.cardsCursor = 0
		m.selectCardUnderCursor(visible)
	case "G", "end":
		m.cardsCursor = len(visible) - 1
		m.selectCardUnderCursor(visible)

	case "n":
		m.cardForm = newCardForm(nil)
		return m, textinput.Blink

	case "e":
		if m.cardsCursor >= 0 && m.cardsCursor < len(visible) {
			card := visible[m.cardsCursor]
			m.cards.Select(card.ID)
			m.cardForm = newCardForm(&card)
			return m, textinput.Blink
		}

	case "d":
		if m.cardsCursor >= 0 && m.cardsCursor < len(visible) {
			m.selectCardUnderCursor(visible)
			m.cardConfirming = true
		}

	case "/":
		m.cardFilterFocus = 1
		return m, m.cardNameFilter.Focus()

	case "#":
		m.cardFilterFocus = 2
		return m, m.cardTagFilter.Focus()

	case "r":
		m.cardsGen++
		m.cards.BeginLoad()
		return m, fetchCardsCmd(m.ctx, m.client, m.cardsGen)
	}

	return m, nil
}

func (m Model) handleCardFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cardForm = cardFormState{}
		return m, nil

	case "tab", "down", "shift+tab", "up":
		n := len(m.cardForm.fields())
		if msg.String() == "tab" || msg.String() == "down" {
			m.cardForm.focus = (m.cardForm.focus + 1) % n
		} else {
			m.cardForm.focus = (m.cardForm.focus + n - 1) % n
		}
		var cmd tea.Cmd
		for i, f := range m.cardForm.fields() {
			if i == m.cardForm.focus {
				cmd = f.Focus()
			} else {
				f.Blur()
			}
		}
		return m, cmd

	case "enter":
		if err := listview.CheckRequired(
			listview.Field{Name: "front", Value: m.cardForm.front.Value()},
			listview.Field{Name: "back", Value: m.cardForm.back.Value()},
		); err != nil {
			m.cardForm.err = err
			return m, nil
		}
		m.cardForm.err = nil
		payload := api.CardPayload{
			Front:    m.cardForm.front.Value(),
			Back:     m.cardForm.back.Value(),
			Examples: m.cardForm.examples.Value(),
			Tags:     tags.Parse(m.cardForm.tagsDraft.Value()),
		}
		if id := m.cardForm.editID; id != 0 {
			m.cards.BeginUpdate()
			return m, updateCardCmd(m.ctx, m.client, id, payload)
		}
		m.cards.BeginCreate()
		return m, createCardCmd(m.ctx, m.client, payload)
	}

	fields := m.cardForm.fields()
	var cmd tea.Cmd
	*fields[m.cardForm.focus], cmd = fields[m.cardForm.focus].Update(msg)
	return m, cmd
}

func (m Model) handleCardConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.cardConfirming = false
		if id, ok := m.cards.SelectedID(); ok {
			m.cards.BeginDelete()
			return m, deleteCardCmd(m.ctx, m.client, id)
		}
	case "n", "N", "esc":
		m.cardConfirming = false
	}
	return m, nil
}

func (m Model) handleCardFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.cardNameFilter.Blur()
		m.cardTagFilter.Blur()
		m.cardFilterFocus = 0
		m.clampCardsCursor()
		return m, nil
	}

	var cmd tea.Cmd
	if m.cardFilterFocus == 1 {
		m.cardNameFilter, cmd = m.cardNameFilter.Update(msg)
	} else {
		m.cardTagFilter, cmd = m.cardTagFilter.Update(msg)
	}
	m.clampCardsCursor()
	return m, cmd
}

func (m *Model) selectCardUnderCursor(visible []api.Card) {
	if m.cardsCursor >= 0 && m.cardsCursor < len(visible) {
		m.cards.Select(visible[m.cardsCursor].ID)
	}
}

func (m *Model) clampCardsCursor() {
	n := len(m.visibleCards())
	if m.cardsCursor >= n {
		m.cardsCursor = n - 1
	}
	if m.cardsCursor < 0 {
		m.cardsCursor = 0
	}
}

func (m *Model) syncCardsCursor() {
	id, ok := m.cards.SelectedID()
	if !ok {
		m.cardsCursor = 0
		return
	}
	for i, c := range m.visibleCards() {
		if c.ID == id {
			m.cardsCursor = i
			return
		}
	}
	m.clampCardsCursor()
}

func (m Model) renderCards() string {
	if m.cardForm.open {
		return m.renderCardForm()
	}

	lines := []string{
		m.styles.Accent.Render("Card library") + "   " + m.cardNameFilter.View() + "   " + m.cardTagFilter.View(),
		"",
	}

	switch {
	case m.cards.Loading:
		lines = append(lines, m.styles.Muted.Render("Loading cards..."))
	case m.cards.LoadErr != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load cards: "+api.Message(m.cards.LoadErr)))
	default:
		visible := m.visibleCards()
		if len(visible) == 0 {
			lines = append(lines, m.styles.Muted.Render("No cards match."))
		}
		for i, c := range visible {
			row := cardRow(c)
			if i == m.cardsCursor {
				row = m.styles.Selected.Render("▸ ") + row
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	if m.cardConfirming {
		if card, ok := m.cards.Selected(); ok {
			lines = append(lines, "",
				m.styles.ErrorBox.Render(fmt.Sprintf("Delete card #%d? It disappears from every deck. (y/n)", card.ID)))
		}
	}
	if m.cards.DeleteErr != nil {
		lines = append(lines, "", m.styles.Danger.Render("Delete failed: "+api.Message(m.cards.DeleteErr)))
	}

	return joinLines(lines)
}

func (m Model) renderCardForm() string {
	title := "New card"
	if m.cardForm.editID != 0 {
		title = fmt.Sprintf("Edit card #%d", m.cardForm.editID)
	}
	lines := []string{
		m.styles.Accent.Render(title), "",
		m.cardForm.front.View(),
		m.cardForm.back.View(),
		m.cardForm.examples.View(),
		m.cardForm.tagsDraft.View(),
	}
	if m.cards.Creating || m.cards.Updating {
		lines = append(lines, "", m.styles.Muted.Render("Saving..."))
	}
	if m.cardForm.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.cardForm.err)))
	}
	lines = append(lines, "", m.styles.Muted.Render("enter: save • esc: cancel"))
	return m.styles.Panel.Render(joinLines(lines))
}

func cardRow(c api.Card) string {
	row := fmt.Sprintf("%s — %s", c.Front, c.Back)
	if len(c.Tags) > 0 {
		row += "  [" + tags.Join(c.Tags) + "]"
	}
	return row
}
