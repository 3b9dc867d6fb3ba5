package collection

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-tui/satchel/internal/api"
)

type fakeBackend struct {
	mu        sync.Mutex
	decks     []api.Deck
	listErr   error
	addErr    error
	removeErr error

	listCalls   atomic.Int32
	listStarted chan struct{}
	listRelease chan struct{}
}

func (f *fakeBackend) ListUserDecks(ctx context.Context) ([]api.Deck, error) {
	f.listCalls.Add(1)
	if f.listStarted != nil {
		f.listStarted <- struct{}{}
	}
	if f.listRelease != nil {
		<-f.listRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.decks, nil
}

func (f *fakeBackend) AddUserDeck(ctx context.Context, deckID int) error {
	return f.addErr
}

func (f *fakeBackend) RemoveUserDeck(ctx context.Context, deckID int) error {
	return f.removeErr
}

func deck(id int) api.Deck {
	return api.Deck{ID: id, Title: "deck"}
}

// idProjection recomputes the id set from the cached decks.
func idProjection(s *Store) map[int]struct{} {
	out := make(map[int]struct{})
	for _, d := range s.Decks() {
		out[d.ID] = struct{}{}
	}
	return out
}

func TestLoad_PopulatesCacheOnce(t *testing.T) {
	backend := &fakeBackend{decks: []api.Deck{deck(1), deck(2)}}
	s := NewStore(backend)

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())
	assert.True(t, s.Has(1))
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(3))
	assert.Len(t, s.Decks(), 2)

	// Already loaded: no second request.
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, int32(1), backend.listCalls.Load())
}

func TestLoad_ConcurrentCallsIssueOneRequest(t *testing.T) {
	backend := &fakeBackend{
		decks:       []api.Deck{deck(1)},
		listStarted: make(chan struct{}, 1),
		listRelease: make(chan struct{}),
	}
	s := NewStore(backend)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	<-backend.listStarted

	// Second call arrives while the first is still in flight.
	require.NoError(t, s.Load(context.Background()))

	close(backend.listRelease)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), backend.listCalls.Load(), "loading guard must prevent duplicate fetches")
	assert.True(t, s.Has(1))
}

func TestLoad_FailureClearsAndAllowsRetry(t *testing.T) {
	backend := &fakeBackend{
		decks:   []api.Deck{deck(1)},
		listErr: &api.Error{StatusCode: http.StatusInternalServerError, Message: "boom"},
	}
	s := NewStore(backend)
	s.MarkAdded(deck(7)) // stale local state from an earlier reconciliation

	require.Error(t, s.Load(context.Background()))
	assert.False(t, s.Loaded())
	assert.Error(t, s.Err())
	assert.Empty(t, s.Decks())
	assert.False(t, s.Has(7))

	backend.mu.Lock()
	backend.listErr = nil
	backend.mu.Unlock()

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())
	assert.NoError(t, s.Err())
	assert.True(t, s.Has(1))
	assert.Equal(t, int32(2), backend.listCalls.Load())
}

func TestAdd_AlreadyAddedCodeIsSuccess(t *testing.T) {
	backend := &fakeBackend{
		addErr: &api.Error{
			StatusCode: http.StatusBadRequest,
			Code:       api.CodeDeckAlreadyAdded,
			Message:    "Deck already added",
		},
	}
	s := NewStore(backend)

	require.NoError(t, s.Add(context.Background(), deck(4)), "duplication is reconciled, not surfaced")
	assert.True(t, s.Has(4))
}

func TestAdd_OtherErrorLeavesCacheUntouched(t *testing.T) {
	backend := &fakeBackend{
		addErr: &api.Error{StatusCode: http.StatusForbidden, Message: "nope"},
	}
	s := NewStore(backend)

	require.Error(t, s.Add(context.Background(), deck(4)))
	assert.False(t, s.Has(4))
}

func TestMarkAdded_IsIdempotentUpsertAtFront(t *testing.T) {
	s := NewStore(&fakeBackend{})
	s.MarkAdded(deck(1))
	s.MarkAdded(deck(2))

	updated := api.Deck{ID: 1, Title: "renamed"}
	s.MarkAdded(updated)

	decks := s.Decks()
	require.Len(t, decks, 2)
	assert.Equal(t, "renamed", decks[0].Title, "re-added deck moves to the front with fresh data")
	assert.Equal(t, 2, decks[1].ID)
}

func TestRemove_OnlyMutatesAfterServerConfirms(t *testing.T) {
	backend := &fakeBackend{decks: []api.Deck{deck(1), deck(2)}}
	s := NewStore(backend)
	require.NoError(t, s.Load(context.Background()))

	backend.removeErr = &api.Error{StatusCode: http.StatusInternalServerError, Message: "boom"}
	require.Error(t, s.Remove(context.Background(), 1))
	assert.True(t, s.Has(1), "failed delete must leave the cache untouched")

	backend.removeErr = nil
	require.NoError(t, s.Remove(context.Background(), 1))
	assert.False(t, s.Has(1))
	assert.True(t, s.Has(2))
}

// The id set must equal the id projection of the cached decks after any
// sequence of mutations.
func TestIDSetInvariantUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewStore(&fakeBackend{})

	for i := 0; i < 500; i++ {
		id := rng.Intn(20)
		if rng.Intn(2) == 0 {
			s.MarkAdded(deck(id))
		} else {
			s.markRemoved(id)
		}

		want := idProjection(s)
		s.mu.Lock()
		got := make(map[int]struct{}, len(s.ids))
		for k := range s.ids {
			got[k] = struct{}{}
		}
		s.mu.Unlock()
		require.Equal(t, want, got, "step %d", i)
	}
}
