package api

import (
	"context"
	"fmt"
	"strconv"
)

// CodeDeckAlreadyAdded is the structured code the backend returns when a deck
// is already in the user's collection. Callers treat it as success.
const CodeDeckAlreadyAdded = "deck_already_added"

// CardPayload carries the full editable card record for create and update.
type CardPayload struct {
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	Examples string   `json:"examples"`
	Tags     []string `json:"tags"`
}

// DeckPayload carries the full editable deck record.
type DeckPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CardIDs     []int  `json:"card_ids"`
}

// ListCards returns every card visible to the caller.
func (c *Client) ListCards(ctx context.Context) ([]Card, error) {
	var payload []Card
	if err := c.get(ctx, "/cards", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateCard stores a new card and returns the canonical server record.
func (c *Client) CreateCard(ctx context.Context, p CardPayload) (*Card, error) {
	var payload Card
	if err := c.do(ctx, "POST", "/cards", nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateCard resends the full record; there is no partial patch.
func (c *Client) UpdateCard(ctx context.Context, id int, p CardPayload) (*Card, error) {
	var payload Card
	if err := c.do(ctx, "PUT", "/cards/"+strconv.Itoa(id), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteCard removes a card. The caller drops it locally only after success.
func (c *Client) DeleteCard(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/cards/"+strconv.Itoa(id), nil, nil, nil)
}

// ListDecks returns all decks with their embedded cards.
func (c *Client) ListDecks(ctx context.Context) ([]Deck, error) {
	var payload []Deck
	if err := c.get(ctx, "/decks", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetDeck returns one deck with its embedded card list.
func (c *Client) GetDeck(ctx context.Context, id int) (*Deck, error) {
	var payload Deck
	if err := c.get(ctx, "/decks/"+strconv.Itoa(id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateDeck stores a new deck.
func (c *Client) CreateDeck(ctx context.Context, p DeckPayload) (*Deck, error) {
	var payload Deck
	if err := c.do(ctx, "POST", "/decks", nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteDeck removes a deck.
func (c *Client) DeleteDeck(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/decks/"+strconv.Itoa(id), nil, nil, nil)
}

// AddDeckCard attaches an existing card to a deck.
func (c *Client) AddDeckCard(ctx context.Context, deckID, cardID int) error {
	path := fmt.Sprintf("/decks/%d/cards", deckID)
	body := map[string]int{"card_id": cardID}
	return c.do(ctx, "POST", path, nil, body, nil)
}

// RemoveDeckCard detaches a card from a deck.
func (c *Client) RemoveDeckCard(ctx context.Context, deckID, cardID int) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/decks/%d/cards/%d", deckID, cardID), nil, nil, nil)
}

// ListUserDecks returns the caller's personal collection.
func (c *Client) ListUserDecks(ctx context.Context) ([]Deck, error) {
	var payload []Deck
	if err := c.get(ctx, "/user-decks", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddUserDeck adds a deck to the caller's collection. A CodeDeckAlreadyAdded
// error means the deck was already there; callers reconcile that as success.
func (c *Client) AddUserDeck(ctx context.Context, deckID int) error {
	body := map[string]int{"deck_id": deckID}
	return c.do(ctx, "POST", "/user-decks", nil, body, nil)
}

// RemoveUserDeck removes a deck from the caller's collection.
func (c *Client) RemoveUserDeck(ctx context.Context, deckID int) error {
	return c.do(ctx, "DELETE", "/user-decks/"+strconv.Itoa(deckID), nil, nil, nil)
}

// SubmitTest persists a completed practice-session score.
func (c *Client) SubmitTest(ctx context.Context, deckID, total, score int) (*TestResult, error) {
	body := map[string]int{"deck_id": deckID, "total": total, "score": score}
	var payload TestResult
	if err := c.do(ctx, "POST", "/tests", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TestHistory returns the caller's scores, newest first.
func (c *Client) TestHistory(ctx context.Context) ([]TestResult, error) {
	var payload []TestResult
	if err := c.get(ctx, "/tests/history", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// DeckReviews returns the ratings recorded for a deck.
func (c *Client) DeckReviews(ctx context.Context, deckID int) ([]Review, error) {
	var payload []Review
	if err := c.get(ctx, "/reviews/deck/"+strconv.Itoa(deckID), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SubmitReview records a 1-5 star rating. A duplicate rating is a plain
// server error surfaced to the user.
func (c *Client) SubmitReview(ctx context.Context, deckID, rating int) (*Review, error) {
	body := map[string]int{"deck_id": deckID, "rating": rating}
	var payload Review
	if err := c.do(ctx, "POST", "/reviews", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
