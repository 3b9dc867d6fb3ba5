package collection

import (
	"context"
	"sync"

	"github.com/satchel-tui/satchel/internal/api"
)

// Backend is the slice of the API client the store needs.
type Backend interface {
	ListUserDecks(ctx context.Context) ([]api.Deck, error)
	AddUserDeck(ctx context.Context, deckID int) error
	RemoveUserDeck(ctx context.Context, deckID int) error
}

// Store is the client-side mirror of the user's deck collection.
type Store struct {
	mu      sync.Mutex
	backend Backend

	decks   []api.Deck
	ids     map[int]struct{}
	loaded  bool
	loading bool
	loadErr error
}

// NewStore creates an empty, unloaded store.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		ids:     make(map[int]struct{}),
	}
}

// Load fetches the collection once. Calls while a load is in flight or after
// a successful load are no-ops, so pages can call it unconditionally on
// mount. A failed load clears the cache and leaves it retryable.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.loadErr = nil
	backend := s.backend
	s.mu.Unlock()

	decks, err := backend.ListUserDecks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.decks = nil
		s.ids = make(map[int]struct{})
		s.loaded = false
		if !api.IsCanceled(err) {
			s.loadErr = err
		}
		return err
	}

	s.decks = decks
	s.ids = make(map[int]struct{}, len(decks))
	for _, d := range decks {
		s.ids[d.ID] = struct{}{}
	}
	s.loaded = true
	return nil
}

// Loaded reports whether a full load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last failed load, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Has is an O(1) membership query.
func (s *Store) Has(deckID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[deckID]
	return ok
}

// Decks returns a copy of the cached collection, newest additions first.
func (s *Store) Decks() []api.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.decks) == 0 {
		return nil
	}
	dup := make([]api.Deck, len(s.decks))
	copy(dup, s.decks)
	return dup
}

// Add puts the deck into the user's collection. The backend answering with
// the already-added code is treated as success and reconciled locally.
func (s *Store) Add(ctx context.Context, deck api.Deck) error {
	err := s.backend.AddUserDeck(ctx, deck.ID)
	if err != nil && !api.IsCode(err, api.CodeDeckAlreadyAdded) {
		return err
	}
	s.MarkAdded(deck)
	return nil
}

// MarkAdded upserts the deck at the front of the cache. Safe to call with a
// deck that is already present.
func (s *Store) MarkAdded(deck api.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]api.Deck, 0, len(s.decks)+1)
	next = append(next, deck)
	for _, d := range s.decks {
		if d.ID != deck.ID {
			next = append(next, d)
		}
	}
	s.decks = next
	s.ids[deck.ID] = struct{}{}
}

// Remove deletes the deck server-side and drops it from the cache only after
// the server confirms. On failure the cache is untouched and the error is
// returned for the caller to display.
func (s *Store) Remove(ctx context.Context, deckID int) error {
	if err := s.backend.RemoveUserDeck(ctx, deckID); err != nil {
		return err
	}
	s.markRemoved(deckID)
	return nil
}

func (s *Store) markRemoved(deckID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.decks[:0]
	for _, d := range s.decks {
		if d.ID != deckID {
			next = append(next, d)
		}
	}
	s.decks = next
	delete(s.ids, deckID)
}
