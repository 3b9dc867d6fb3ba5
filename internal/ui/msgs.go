package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/collection"
	"github.com/satchel-tui/satchel/internal/session"
)

// Messages. Fetch results that can be superseded carry the generation number
// of the request that produced them.

type sessionReadyMsg struct{ err error }

type authMsg struct{ err error }

type decksMsg struct {
	gen   int
	decks []api.Deck
	err   error
}

type deckMsg struct {
	gen  int
	deck *api.Deck
	err  error
}

type deckSavedMsg struct {
	deck *api.Deck
	err  error
}

type deckDeletedMsg struct {
	id  int
	err error
}

type collectionMsg struct{ err error }

type collectionChangedMsg struct {
	deckID int
	added  bool
	err    error
}

type historyMsg struct {
	gen     int
	results []api.TestResult
	err     error
}

type reviewsMsg struct {
	gen     int
	deckID  int
	reviews []api.Review
	err     error
}

type reviewSavedMsg struct {
	review *api.Review
	err    error
}

type reportMsg struct{ err error }

type cardsMsg struct {
	gen   int
	cards []api.Card
	err   error
}

type cardSavedMsg struct {
	card    *api.Card
	created bool
	err     error
}

type cardDeletedMsg struct {
	id  int
	err error
}

type pickerCardsMsg struct {
	gen   int
	cards []api.Card
	err   error
}

type deckCardsMsg struct {
	gen int
	err error
}

// Commands

func initSessionCmd(ctx context.Context, store *session.Store) tea.Cmd {
	return func() tea.Msg {
		return sessionReadyMsg{err: store.Initialize(ctx)}
	}
}

func loginCmd(ctx context.Context, store *session.Store, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: store.Login(ctx, creds)}
	}
}

func registerCmd(ctx context.Context, store *session.Store, reg api.Registration) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: store.Register(ctx, reg)}
	}
}

func fetchDecksCmd(ctx context.Context, client *api.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		decks, err := client.ListDecks(ctx)
		return decksMsg{gen: gen, decks: decks, err: err}
	}
}

func fetchDeckCmd(ctx context.Context, client *api.Client, gen, id int) tea.Cmd {
	return func() tea.Msg {
		deck, err := client.GetDeck(ctx, id)
		return deckMsg{gen: gen, deck: deck, err: err}
	}
}

func createDeckCmd(ctx context.Context, client *api.Client, p api.DeckPayload) tea.Cmd {
	return func() tea.Msg {
		deck, err := client.CreateDeck(ctx, p)
		return deckSavedMsg{deck: deck, err: err}
	}
}

func deleteDeckCmd(ctx context.Context, client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return deckDeletedMsg{id: id, err: client.DeleteDeck(ctx, id)}
	}
}

func loadCollectionCmd(ctx context.Context, store *collection.Store) tea.Cmd {
	return func() tea.Msg {
		return collectionMsg{err: store.Load(ctx)}
	}
}

func addToCollectionCmd(ctx context.Context, store *collection.Store, deck api.Deck) tea.Cmd {
	return func() tea.Msg {
		return collectionChangedMsg{deckID: deck.ID, added: true, err: store.Add(ctx, deck)}
	}
}

func removeFromCollectionCmd(ctx context.Context, store *collection.Store, deckID int) tea.Cmd {
	return func() tea.Msg {
		return collectionChangedMsg{deckID: deckID, err: store.Remove(ctx, deckID)}
	}
}

func fetchHistoryCmd(ctx context.Context, client *api.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		results, err := client.TestHistory(ctx)
		return historyMsg{gen: gen, results: results, err: err}
	}
}

func fetchReviewsCmd(ctx context.Context, client *api.Client, gen, deckID int) tea.Cmd {
	return func() tea.Msg {
		reviews, err := client.DeckReviews(ctx, deckID)
		return reviewsMsg{gen: gen, deckID: deckID, reviews: reviews, err: err}
	}
}

func submitReviewCmd(ctx context.Context, client *api.Client, deckID, rating int) tea.Cmd {
	return func() tea.Msg {
		review, err := client.SubmitReview(ctx, deckID, rating)
		return reviewSavedMsg{review: review, err: err}
	}
}

func fetchCardsCmd(ctx context.Context, client *api.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		cards, err := client.ListCards(ctx)
		return cardsMsg{gen: gen, cards: cards, err: err}
	}
}

func createCardCmd(ctx context.Context, client *api.Client, p api.CardPayload) tea.Cmd {
	return func() tea.Msg {
		card, err := client.CreateCard(ctx, p)
		return cardSavedMsg{card: card, created: true, err: err}
	}
}

func updateCardCmd(ctx context.Context, client *api.Client, id int, p api.CardPayload) tea.Cmd {
	return func() tea.Msg {
		card, err := client.UpdateCard(ctx, id, p)
		return cardSavedMsg{card: card, err: err}
	}
}

func deleteCardCmd(ctx context.Context, client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return cardDeletedMsg{id: id, err: client.DeleteCard(ctx, id)}
	}
}

func fetchPickerCardsCmd(ctx context.Context, client *api.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		cards, err := client.ListCards(ctx)
		return pickerCardsMsg{gen: gen, cards: cards, err: err}
	}
}

func attachCardCmd(ctx context.Context, client *api.Client, gen, deckID, cardID int) tea.Cmd {
	return func() tea.Msg {
		return deckCardsMsg{gen: gen, err: client.AddDeckCard(ctx, deckID, cardID)}
	}
}

func detachCardCmd(ctx context.Context, client *api.Client, gen, deckID, cardID int) tea.Cmd {
	return func() tea.Msg {
		return deckCardsMsg{gen: gen, err: client.RemoveDeckCard(ctx, deckID, cardID)}
	}
}
