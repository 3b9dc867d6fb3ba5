package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/creds"
)

// State is the bootstrap lifecycle of the session store.
type State int

const (
	// StateUninitialized means Initialize has not completed yet. Route
	// gating must wait rather than redirect.
	StateUninitialized State = iota
	// StateAnonymous means initialization finished without a valid session.
	StateAnonymous
	// StateAuthenticated means a confirmed identity is present.
	StateAuthenticated
)

// Backend is the slice of the API client the store needs.
type Backend interface {
	Login(ctx context.Context, c api.Credentials) (*api.AuthResponse, error)
	Register(ctx context.Context, r api.Registration) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*api.User, error)
}

// Store holds the session and persists it across runs. It implements
// api.TokenSource so the client it is bound to sends the current token.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	credsPath string

	state       State
	initStarted bool
	initErr     error
	token       string
	user        api.User
}

// NewStore creates a store persisting to credsPath (empty uses the default
// credentials location).
func NewStore(credsPath string) *Store {
	return &Store{credsPath: credsPath}
}

// Bind attaches the API client after construction. The client needs the store
// as its token source, so the two are wired in this order.
func (s *Store) Bind(b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the confirmed identity, if any.
func (s *Store) User() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateAuthenticated
}

// IsAdmin reports whether the authenticated user holds the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated && s.user.Role == api.RoleAdmin
}

// InitError returns the non-fatal error recorded during bootstrap, if any.
func (s *Store) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// Initialize restores the persisted session. It runs at most once per
// process; later calls return immediately with the recorded outcome. A stale
// token (401 from the profile endpoint) is cleared silently. Any other
// failure is recorded but still completes initialization so callers gating on
// State never wait forever.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initStarted {
		err := s.initErr
		s.mu.Unlock()
		return err
	}
	s.initStarted = true

	stored := creds.Load(s.credsPath)
	if stored.Token == "" {
		s.state = StateAnonymous
		s.mu.Unlock()
		return nil
	}
	s.token = stored.Token
	backend := s.backend
	s.mu.Unlock()

	if backend == nil {
		return fmt.Errorf("session store has no backend")
	}

	user, err := backend.Profile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.state = StateAuthenticated
		s.user = *user
	case api.IsUnauthorized(err):
		_ = creds.Clear(s.credsPath)
		s.token = ""
		s.state = StateAnonymous
	default:
		s.state = StateAnonymous
		s.initErr = err
	}
	return s.initErr
}

// Login exchanges credentials for a session and persists it.
func (s *Store) Login(ctx context.Context, c api.Credentials) error {
	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()
	if backend == nil {
		return fmt.Errorf("session store has no backend")
	}

	auth, err := backend.Login(ctx, c)
	if err != nil {
		return err
	}
	s.adopt(*auth)
	return nil
}

// Register creates an account and, like Login, adopts the returned session.
func (s *Store) Register(ctx context.Context, r api.Registration) error {
	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()
	if backend == nil {
		return fmt.Errorf("session store has no backend")
	}

	auth, err := backend.Register(ctx, r)
	if err != nil {
		return err
	}
	s.adopt(*auth)
	return nil
}

func (s *Store) adopt(auth api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = auth.Token
	s.user = auth.User
	s.state = StateAuthenticated
	s.initStarted = true
	s.initErr = nil

	_ = creds.Save(s.credsPath, creds.Credentials{
		Token:  auth.Token,
		UserID: auth.User.ID,
		Email:  auth.User.Email,
		Name:   auth.User.Name,
		Role:   string(auth.User.Role),
	})
}

// Logout drops the session and removes the persisted credentials.
func (s *Store) Logout() {
	s.drop()
}

// Invalidate handles an authentication rejection observed anywhere in the
// app: the token is discarded rather than surfaced as an error.
func (s *Store) Invalidate() {
	s.drop()
}

func (s *Store) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = api.User{}
	if s.state != StateUninitialized {
		s.state = StateAnonymous
	}
	_ = creds.Clear(s.credsPath)
}
