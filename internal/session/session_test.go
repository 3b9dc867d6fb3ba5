package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/creds"
)

type fakeBackend struct {
	loginResp    *api.AuthResponse
	loginErr     error
	profileResp  *api.User
	profileErr   error
	profileCalls int
}

func (f *fakeBackend) Login(ctx context.Context, c api.Credentials) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Register(ctx context.Context, r api.Registration) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Profile(ctx context.Context) (*api.User, error) {
	f.profileCalls++
	return f.profileResp, f.profileErr
}

func credsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.toml")
}

func TestInitialize_NoTokenGoesAnonymous(t *testing.T) {
	s := NewStore(credsPath(t))
	s.Bind(&fakeBackend{})

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, StateAnonymous, s.State())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestInitialize_ValidTokenAuthenticates(t *testing.T) {
	path := credsPath(t)
	require.NoError(t, creds.Save(path, creds.Credentials{Token: "tok"}))

	backend := &fakeBackend{profileResp: &api.User{ID: 3, Email: "a@b.com", Role: api.RoleAdmin}}
	s := NewStore(path)
	s.Bind(backend)

	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "tok", s.Token())
	assert.True(t, s.IsAdmin())

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, 3, user.ID)
}

func TestInitialize_RunsAtMostOnce(t *testing.T) {
	path := credsPath(t)
	require.NoError(t, creds.Save(path, creds.Credentials{Token: "tok"}))

	backend := &fakeBackend{profileResp: &api.User{ID: 1}}
	s := NewStore(path)
	s.Bind(backend)

	require.NoError(t, s.Initialize(context.Background()))
	require.NoError(t, s.Initialize(context.Background()))
	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, 1, backend.profileCalls, "profile endpoint must be hit once per process")
}

func TestInitialize_StaleTokenClearedOn401(t *testing.T) {
	path := credsPath(t)
	require.NoError(t, creds.Save(path, creds.Credentials{Token: "stale"}))

	backend := &fakeBackend{profileErr: &api.Error{StatusCode: http.StatusUnauthorized, Message: "token expired"}}
	s := NewStore(path)
	s.Bind(backend)

	require.NoError(t, s.Initialize(context.Background()), "a 401 is handled, not surfaced")
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Empty(t, creds.Load(path).Token, "persisted token must be removed")
}

func TestInitialize_OtherFailureStillCompletes(t *testing.T) {
	path := credsPath(t)
	require.NoError(t, creds.Save(path, creds.Credentials{Token: "tok"}))

	backend := &fakeBackend{profileErr: &api.Error{StatusCode: http.StatusBadGateway, Message: "down"}}
	s := NewStore(path)
	s.Bind(backend)

	err := s.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, s.State(), "gating must not hang on a flaky backend")
	assert.Error(t, s.InitError())
	assert.Equal(t, "tok", creds.Load(path).Token, "token is kept for the next run")
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	path := credsPath(t)
	backend := &fakeBackend{loginResp: &api.AuthResponse{
		Token: "fresh",
		User:  api.User{ID: 9, Email: "a@b.com", Name: "Ann", Role: api.RoleUser},
	}}
	s := NewStore(path)
	s.Bind(backend)

	require.NoError(t, s.Login(context.Background(), api.Credentials{Email: "a@b.com", Password: "secret1"}))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "fresh", s.Token())
	assert.Equal(t, "fresh", creds.Load(path).Token)
	assert.False(t, s.IsAdmin())

	s.Logout()
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Empty(t, creds.Load(path).Token)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	backend := &fakeBackend{loginErr: &api.Error{StatusCode: http.StatusUnauthorized, Message: "bad password"}}
	s := NewStore(credsPath(t))
	s.Bind(backend)
	require.NoError(t, s.Initialize(context.Background()))

	err := s.Login(context.Background(), api.Credentials{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
}

func TestInvalidate_DropsSessionOnMidRunRejection(t *testing.T) {
	path := credsPath(t)
	backend := &fakeBackend{loginResp: &api.AuthResponse{Token: "t", User: api.User{ID: 1}}}
	s := NewStore(path)
	s.Bind(backend)
	require.NoError(t, s.Login(context.Background(), api.Credentials{}))

	s.Invalidate()
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Empty(t, creds.Load(path).Token)
}

// End-to-end over a real HTTP round trip: login, then the next request
// carries the token and the profile call succeeds.
func TestLoginThenProfileAgainstServer(t *testing.T) {
	t.Parallel()

	const token = "issued-token"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login":
			var body api.Credentials
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Email != "a@b.com" || body.Password != "secret1" {
				http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(api.AuthResponse{
				Token: token,
				User:  api.User{ID: 5, Email: body.Email, Role: api.RoleUser},
			})
		case "/profile":
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, `{"detail":"missing token"}`, http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(api.User{ID: 5, Email: "a@b.com", Role: api.RoleUser})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	path := credsPath(t)
	s := NewStore(path)
	client, err := api.NewClient(server.URL, s)
	require.NoError(t, err)
	s.Bind(client)

	require.NoError(t, s.Login(context.Background(), api.Credentials{Email: "a@b.com", Password: "secret1"}))
	assert.Equal(t, token, creds.Load(path).Token, "token persisted")

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, user.ID)
}
