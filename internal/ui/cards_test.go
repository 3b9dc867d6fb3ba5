package ui

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-tui/satchel/internal/api"
)

func TestAttachable_ExcludesHeldCards(t *testing.T) {
	deck := &api.Deck{Cards: []api.Card{{ID: 1}, {ID: 3}}}
	all := []api.Card{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	got := attachable(deck, all)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}

func TestCardForm_PrefillsForEdit(t *testing.T) {
	card := api.Card{ID: 5, Front: "to run", Back: "бігти", Examples: "run fast", Tags: []string{"verbs", "sport"}}

	f := newCardForm(&card)

	assert.Equal(t, 5, f.editID)
	assert.Equal(t, "to run", f.front.Value())
	assert.Equal(t, "бігти", f.back.Value())
	assert.Equal(t, "run fast", f.examples.Value())
	assert.Equal(t, "verbs, sport", f.tagsDraft.Value())

	blank := newCardForm(nil)
	assert.Zero(t, blank.editID)
	assert.Empty(t, blank.front.Value())
}

func TestHandleCardSaved_CreatePrependsAndClosesForm(t *testing.T) {
	m := New(Options{})
	m.cards.FinishLoad([]api.Card{{ID: 1, Front: "old"}}, nil)
	m.cardForm = newCardForm(nil)
	m.cards.BeginCreate()

	updated, _ := m.handleCardSaved(cardSavedMsg{card: &api.Card{ID: 7, Front: "new"}, created: true})
	got := updated.(Model)

	require.Equal(t, 2, got.cards.Len())
	assert.Equal(t, 7, got.cards.Items()[0].ID, "server record goes to the front")
	assert.False(t, got.cardForm.open, "form closes on success")
	assert.Zero(t, got.cardsCursor)
}

func TestHandleCardSaved_UpdateSplicesByID(t *testing.T) {
	m := New(Options{})
	m.cards.FinishLoad([]api.Card{{ID: 1, Front: "a"}, {ID: 2, Front: "b"}}, nil)
	m.cardForm = newCardForm(&api.Card{ID: 2, Front: "b"})
	m.cards.BeginUpdate()

	updated, _ := m.handleCardSaved(cardSavedMsg{card: &api.Card{ID: 2, Front: "b2"}})
	got := updated.(Model)

	require.Equal(t, 2, got.cards.Len())
	assert.Equal(t, "b2", got.cards.Items()[1].Front)
	assert.False(t, got.cardForm.open)
}

func TestHandleCardSaved_ErrorKeepsFormOpen(t *testing.T) {
	m := New(Options{})
	m.cardForm = newCardForm(nil)
	m.cards.BeginCreate()

	updated, _ := m.handleCardSaved(cardSavedMsg{created: true, err: &api.Error{StatusCode: http.StatusBadRequest, Message: "front taken"}})
	got := updated.(Model)

	assert.True(t, got.cardForm.open, "a failed save keeps the form for another try")
	assert.Equal(t, "front taken", api.Message(got.cardForm.err))
	assert.Zero(t, got.cards.Len())
}

func TestVisibleCards_CombinesTextAndTagFilters(t *testing.T) {
	m := New(Options{})
	m.cards.FinishLoad([]api.Card{
		{ID: 1, Front: "to run", Back: "бігти", Tags: []string{"verbs"}},
		{ID: 2, Front: "apple", Back: "яблуко", Tags: []string{"food"}},
		{ID: 3, Front: "to eat", Back: "їсти", Tags: []string{"verbs", "food"}},
	}, nil)

	m.cardNameFilter.SetValue("to ")
	m.cardTagFilter.SetValue("food")

	got := m.visibleCards()
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}
