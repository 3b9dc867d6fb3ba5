package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/tags"
)

// pickerState is the attach overlay on the detail screen: the card library,
// minus what the deck already holds.
type pickerState struct {
	open    bool
	loading bool
	cards   []api.Card
	err     error
	cursor  int
}

// enterDeck switches to the detail screen and fetches the deck with its
// embedded cards alongside its reviews.
func (m Model) enterDeck(id int) (tea.Model, tea.Cmd) {
	m.screen = ScreenDeck
	m.detailGen++
	m.detail = nil
	m.detailErr = nil
	m.cardCursor = 0
	m.reviews = nil
	m.rated = false
	m.reviewErr = nil
	m.picker = pickerState{}
	m.attachErr = nil
	return m, tea.Batch(
		fetchDeckCmd(m.ctx, m.client, m.detailGen, id),
		fetchReviewsCmd(m.ctx, m.client, m.detailGen, id),
	)
}

func (m Model) handleDeck(msg deckMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detailGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.detailErr = msg.err
		return m, nil
	}
	m.detail = msg.deck
	if m.cardCursor >= len(msg.deck.Cards) {
		m.cardCursor = len(msg.deck.Cards) - 1
	}
	if m.cardCursor < 0 {
		m.cardCursor = 0
	}
	if m.picker.open {
		if n := len(attachable(msg.deck, m.picker.cards)); m.picker.cursor >= n {
			m.picker.cursor = n - 1
		}
		if m.picker.cursor < 0 {
			m.picker.cursor = 0
		}
	}
	return m, nil
}

func (m Model) handlePickerCards(msg pickerCardsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detailGen || !m.picker.open {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	m.picker.loading = false
	if msg.err != nil {
		m.picker.err = msg.err
		return m, nil
	}
	m.picker.cards = msg.cards
	m.picker.cursor = 0
	return m, nil
}

// handleDeckCards resolves an attach or detach. The deck is refetched so the
// embedded card list stays the server's truth.
func (m Model) handleDeckCards(msg deckCardsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detailGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.attachErr = msg.err
		return m, nil
	}
	m.attachErr = nil
	if m.detail == nil {
		return m, nil
	}
	return m, fetchDeckCmd(m.ctx, m.client, m.detailGen, m.detail.ID)
}

// attachable filters the picker list down to cards the deck does not hold yet.
func attachable(deck *api.Deck, all []api.Card) []api.Card {
	held := make(map[int]bool, len(deck.Cards))
	for _, c := range deck.Cards {
		held[c.ID] = true
	}
	out := make([]api.Card, 0, len(all))
	for _, c := range all {
		if !held[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) handleReviews(msg reviewsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detailGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if msg.err != nil {
		// Reviews are decoration on the detail page; a failed fetch only
		// hides them.
		return m, nil
	}
	m.reviews = msg.reviews
	if user, ok := m.session.User(); ok {
		for _, r := range msg.reviews {
			if r.UserID == user.ID {
				m.rated = true
				break
			}
		}
	}
	return m, nil
}

func (m Model) handleReviewSaved(msg reviewSavedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.reviewErr = msg.err
		return m, nil
	}
	m.rated = true
	m.reviewErr = nil
	m.reviews = append(m.reviews, *msg.review)
	return m, nil
}

func (m Model) handleDeckKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.open {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "esc":
		m.screen = ScreenDecks
		m.detail = nil
		return m, nil

	case "j", "down":
		if m.detail != nil && m.cardCursor < len(m.detail.Cards)-1 {
			m.cardCursor++
		}
	case "k", "up":
		if m.cardCursor > 0 {
			m.cardCursor--
		}

	case "p":
		if m.detail != nil {
			return m.enterPractice()
		}

	case "1", "2", "3", "4", "5":
		if m.detail != nil && !m.rated {
			rating := int(msg.String()[0] - '0')
			return m, submitReviewCmd(m.ctx, m.client, m.detail.ID, rating)
		}

	case "A":
		if m.detail != nil {
			m.picker = pickerState{open: true, loading: true}
			return m, fetchPickerCardsCmd(m.ctx, m.client, m.detailGen)
		}

	case "x":
		if m.detail != nil && m.cardCursor >= 0 && m.cardCursor < len(m.detail.Cards) {
			card := m.detail.Cards[m.cardCursor]
			return m, detachCardCmd(m.ctx, m.client, m.detailGen, m.detail.ID, card.ID)
		}
	}
	return m, nil
}

// handlePickerKey drives the attach overlay. The picker stays open after an
// attach so several cards can be added in a row.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.picker = pickerState{}
		return m, nil
	}
	candidates := attachable(m.detail, m.picker.cards)

	switch msg.String() {
	case "esc":
		m.picker = pickerState{}
		return m, nil

	case "j", "down":
		if m.picker.cursor < len(candidates)-1 {
			m.picker.cursor++
		}
	case "k", "up":
		if m.picker.cursor > 0 {
			m.picker.cursor--
		}

	case "enter":
		if m.detail != nil && m.picker.cursor >= 0 && m.picker.cursor < len(candidates) {
			card := candidates[m.picker.cursor]
			return m, attachCardCmd(m.ctx, m.client, m.detailGen, m.detail.ID, card.ID)
		}
	}
	return m, nil
}

func (m Model) renderDeck() string {
	if m.detailErr != nil {
		return m.styles.Danger.Render("Could not load deck: " + api.Message(m.detailErr))
	}
	if m.detail == nil {
		return m.styles.Muted.Render("Loading deck...")
	}

	d := m.detail
	lines := []string{
		m.styles.Accent.Render(d.Title) + "  " + m.styles.Muted.Render(ratingLabel(*d)),
	}
	if d.Description != "" {
		lines = append(lines, m.styles.Muted.Render(d.Description))
	}
	if m.collection.Has(d.ID) {
		lines = append(lines, m.styles.Success.Render("In your collection"))
	}
	lines = append(lines, "")

	if len(d.Cards) == 0 {
		lines = append(lines, m.styles.Muted.Render("This deck has no cards yet."))
	}
	for i, c := range d.Cards {
		row := fmt.Sprintf("%s — %s", c.Front, c.Back)
		if len(c.Tags) > 0 {
			row += "  " + m.styles.Muted.Render("["+tags.Join(c.Tags)+"]")
		}
		if i == m.cardCursor {
			row = m.styles.Selected.Render("▸ ") + row
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	if m.attachErr != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.attachErr)))
	}

	if m.picker.open {
		lines = append(lines, "", m.renderPicker())
	}

	lines = append(lines, "", m.renderReviewLine())
	return joinLines(lines)
}

func (m Model) renderPicker() string {
	lines := []string{m.styles.Accent.Render("Attach a card"), ""}

	switch {
	case m.picker.loading:
		lines = append(lines, m.styles.Muted.Render("Loading cards..."))
	case m.picker.err != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load cards: "+api.Message(m.picker.err)))
	default:
		candidates := attachable(m.detail, m.picker.cards)
		if len(candidates) == 0 {
			lines = append(lines, m.styles.Muted.Render("Every card is already in this deck."))
		}
		for i, c := range candidates {
			row := cardRow(c)
			if i == m.picker.cursor {
				row = m.styles.Selected.Render("▸ ") + row
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	return m.styles.Panel.Render(joinLines(lines))
}

func (m Model) renderReviewLine() string {
	if m.reviewErr != nil {
		return m.styles.Danger.Render("Rating failed: " + api.Message(m.reviewErr))
	}
	if m.rated {
		return m.styles.Muted.Render("You have rated this deck.")
	}
	return m.styles.Muted.Render("Press 1-5 to rate this deck.")
}
