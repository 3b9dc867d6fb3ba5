package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("localhost:8000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "localhost:8000" {
		t.Fatalf("host = %q, want localhost:8000", u.Host)
	}

	u, err = parseBaseURL("https://example.com/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("   "); err == nil {
		t.Fatal("parseBaseURL accepted empty url, want error")
	}
}

func TestClient_SendsBearerTokenAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(User{ID: 7, Email: "a@b.com", Role: RoleUser})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("tok-123"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	user, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if user.ID != 7 || user.Email != "a@b.com" {
		t.Fatalf("Profile payload = %#v, want id=7", user)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID header missing")
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens(""))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestClient_ErrorDecoding(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/detail":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"title is taken","code":"deck_already_added"}`))
		case "/plain":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream broke"))
		case "/garbage":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write(bytes.Repeat([]byte{0xff}, 1024))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.get(context.Background(), "/detail", nil, nil)
	if !IsCode(err, CodeDeckAlreadyAdded) {
		t.Fatalf("error = %v, want code %q", err, CodeDeckAlreadyAdded)
	}
	if Message(err) != "title is taken" {
		t.Fatalf("Message = %q, want server detail", Message(err))
	}

	err = c.get(context.Background(), "/plain", nil, nil)
	if Message(err) != "upstream broke" {
		t.Fatalf("Message = %q, want raw body text", Message(err))
	}

	// An unparseable body still yields the status text.
	err = c.get(context.Background(), "/garbage", nil, nil)
	if !strings.Contains(Message(err), http.StatusText(http.StatusInternalServerError)) {
		t.Fatalf("Message = %q, want status text fallback", Message(err))
	}
}

func TestClient_UnauthorizedIsDistinguished(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("stale"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Profile(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	if IsCanceled(err) {
		t.Fatal("IsCanceled = true for a real 401")
	}
}

func TestClient_CanceledRequestIsNotAFailure(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.ListDecks(ctx)
		errc <- err
	}()

	<-started
	cancel()

	select {
	case err := <-errc:
		if !IsCanceled(err) {
			t.Fatalf("error = %v, want canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request did not return after cancel")
	}
}

func TestClient_FullRecordPUT(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotBody CardPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Card{ID: 4, Front: gotBody.Front, Back: gotBody.Back, Tags: gotBody.Tags})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	payload := CardPayload{Front: "go home", Back: "idiom", Examples: "none", Tags: []string{"a", "b"}}
	card, err := c.UpdateCard(context.Background(), 4, payload)
	if err != nil {
		t.Fatalf("UpdateCard returned error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/cards/4" {
		t.Fatalf("request = %s %s, want PUT /cards/4", gotMethod, gotPath)
	}
	if gotBody.Front != "go home" || gotBody.Examples != "none" || len(gotBody.Tags) != 2 {
		t.Fatalf("body = %#v, want the full record resent", gotBody)
	}
	if card.ID != 4 {
		t.Fatalf("card id = %d, want 4", card.ID)
	}
}
