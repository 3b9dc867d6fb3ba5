package ui

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satchel-tui/satchel/internal/api"
)

func TestHandleCollectionChanged_OwnErrorSlot(t *testing.T) {
	m := New(Options{})
	m.decks.UpdateErr = &api.Error{StatusCode: http.StatusConflict, Message: "deck update broke"}

	updated, _ := m.handleCollectionChanged(collectionChangedMsg{
		deckID: 3,
		added:  true,
		err:    &api.Error{StatusCode: http.StatusBadGateway, Message: "collection down"},
	})
	got := updated.(Model)

	// Both failures stay visible at once; neither slot clobbers the other.
	assert.Equal(t, "collection down", api.Message(got.collectionErr))
	assert.Equal(t, "deck update broke", api.Message(got.decks.UpdateErr))
}

func TestHandleCollectionChanged_SuccessClearsOnlyItsSlot(t *testing.T) {
	m := New(Options{})
	m.collectionErr = &api.Error{StatusCode: http.StatusBadGateway, Message: "collection down"}
	m.decks.UpdateErr = &api.Error{StatusCode: http.StatusConflict, Message: "deck update broke"}

	updated, _ := m.handleCollectionChanged(collectionChangedMsg{deckID: 3})
	got := updated.(Model)

	assert.Nil(t, got.collectionErr)
	assert.Error(t, got.decks.UpdateErr)
}
