package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/services"
	"github.com/desertthunder/skipify/internal/shared"
	tu "github.com/desertthunder/skipify/internal/testing"
)

type fakeAuth struct {
	result *services.LoginResult
	err    error
}

func (f fakeAuth) Login(context.Context, string, string) (*services.LoginResult, error) {
	return f.result, f.err
}

// stickyTokenStore refuses to delete the token key.
type stickyTokenStore struct {
	*repositories.MemoryStore
}

func (s *stickyTokenStore) Delete(ctx context.Context, key string) error {
	if key == KeyToken {
		return errors.New("delete failed")
	}
	return s.MemoryStore.Delete(ctx, key)
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored credential and user connect", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, KeyToken, "tok1")
		store.Set(ctx, KeyUser, `{"id":"1","name":"Ada","email":"ada@example.com"}`)

		c := NewController(store, nil, 0)
		state := c.Start(ctx)

		if state.Mode != models.ModeConnected || state.Credential != "tok1" {
			t.Errorf("expected connected with tok1, got %+v", state)
		}
		if state.User == nil || state.User.Name != "Ada" {
			t.Errorf("expected user Ada, got %+v", state.User)
		}
		if !c.Connected() || c.Credential() != "tok1" {
			t.Error("accessors disagree with state")
		}
	})

	t.Run("Offline flag yields guest", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, KeyOfflineMode, "true")

		state := NewController(store, nil, 0).Start(ctx)
		if state.Mode != models.ModeDisconnected || !state.Guest() {
			t.Errorf("expected disconnected guest, got %+v", state)
		}
	})

	t.Run("Offline flag overrides stored credential", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, KeyToken, "tok1")
		store.Set(ctx, KeyUser, `{"id":"1","name":"Ada","email":"ada@example.com"}`)
		store.Set(ctx, KeyOfflineMode, "true")

		c := NewController(store, nil, 0)
		state := c.Start(ctx)

		if state.Mode != models.ModeDisconnected || !state.Guest() {
			t.Errorf("expected disconnected guest, got %+v", state)
		}
		if c.Connected() || c.Credential() != "" {
			t.Errorf("expected no credential, got %q", c.Credential())
		}
	})

	t.Run("Failed token removal stays offline after restart", func(t *testing.T) {
		store := &stickyTokenStore{MemoryStore: repositories.NewMemoryStore()}
		c := NewController(store, nil, 0)
		c.Login(ctx, "tok1", &models.User{ID: "1", Name: "Ada"})

		c.EnterDisconnectedMode(ctx)
		if _, ok, _ := store.Get(ctx, KeyToken); !ok {
			t.Fatal("token should have survived the failed delete")
		}

		restarted := NewController(store, nil, 0).Start(ctx)
		if restarted.Mode != models.ModeDisconnected || !restarted.Guest() {
			t.Errorf("expected guest after restart, got %+v", restarted)
		}
	})

	t.Run("Nothing stored yields no identity", func(t *testing.T) {
		state := NewController(repositories.NewMemoryStore(), nil, 0).Start(ctx)
		if state.Mode != models.ModeDisconnected || state.User != nil {
			t.Errorf("expected disconnected without identity, got %+v", state)
		}
	})

	t.Run("Token without user does not connect", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, KeyToken, "tok1")

		state := NewController(store, nil, 0).Start(ctx)
		if state.Mode != models.ModeDisconnected || state.Credential != "" {
			t.Errorf("expected disconnected, got %+v", state)
		}
	})

	t.Run("Read error degrades to guest", func(t *testing.T) {
		var buf bytes.Buffer
		state := NewController(tu.FailingStore{}, log.New(&buf), 0).Start(ctx)

		if state.Mode != models.ModeDisconnected || !state.Guest() {
			t.Errorf("expected disconnected guest, got %+v", state)
		}
		if !strings.Contains(buf.String(), "startup probe failed") {
			t.Errorf("expected warning, got %q", buf.String())
		}
	})

	t.Run("Ceiling degrades to guest", func(t *testing.T) {
		c := NewController(tu.SlowStore{Delay: time.Second}, nil, 30*time.Millisecond)

		start := time.Now()
		state := c.Start(ctx)

		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("start should respect the ceiling, took %v", elapsed)
		}
		if state.Mode != models.ModeDisconnected || !state.Guest() {
			t.Errorf("expected disconnected guest, got %+v", state)
		}
	})

	t.Run("Initial state is loading", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		if c.State().Mode != models.ModeLoading {
			t.Errorf("expected loading, got %s", c.State().Mode)
		}
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "1", Name: "Ada", Email: "ada@example.com"}

	t.Run("Login persists and survives restart", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		c := NewController(store, nil, 0)
		c.Start(ctx)

		if err := c.Login(ctx, "tok1", user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if flag, _, _ := store.Get(ctx, KeyOfflineMode); flag != "false" {
			t.Errorf("expected offlineMode=false, got %q", flag)
		}

		restarted := NewController(store, nil, 0).Start(ctx)
		if restarted.Mode != models.ModeConnected || restarted.Credential != "tok1" {
			t.Errorf("expected connected after restart, got %+v", restarted)
		}
	})

	t.Run("Login requires credential", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		if err := c.Login(ctx, "", user); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("EnterDisconnectedMode drops credential", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		c := NewController(store, nil, 0)
		c.Login(ctx, "tok1", user)

		c.EnterDisconnectedMode(ctx)

		state := c.State()
		if state.Mode != models.ModeDisconnected || state.Credential != "" || !state.Guest() {
			t.Errorf("expected disconnected guest without credential, got %+v", state)
		}
		if _, ok, _ := store.Get(ctx, KeyToken); ok {
			t.Error("expected token to be removed")
		}
		if flag, _, _ := store.Get(ctx, KeyOfflineMode); flag != "true" {
			t.Errorf("expected offlineMode=true, got %q", flag)
		}

		restarted := NewController(store, nil, 0).Start(ctx)
		if restarted.Mode != models.ModeDisconnected || !restarted.Guest() {
			t.Errorf("expected guest after restart, got %+v", restarted)
		}
	})

	t.Run("Logout clears everything", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		c := NewController(store, nil, 0)
		c.Login(ctx, "tok1", user)

		c.Logout(ctx)

		state := c.State()
		if state.Mode != models.ModeDisconnected || state.User != nil || state.Credential != "" {
			t.Errorf("expected bare disconnected state, got %+v", state)
		}
		for _, key := range []string{KeyToken, KeyUser, KeyOfflineMode} {
			if _, ok, _ := store.Get(ctx, key); ok {
				t.Errorf("expected %s to be removed", key)
			}
		}
	})

	t.Run("Persistence failures are swallowed", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewController(tu.FailingStore{}, log.New(&buf), 0)

		if err := c.Login(ctx, "tok1", user); err != nil {
			t.Fatalf("login should not surface storage errors: %v", err)
		}
		if !c.Connected() {
			t.Error("in-memory state should still transition")
		}
		if !strings.Contains(buf.String(), "failed to persist session key") {
			t.Errorf("expected warning, got %q", buf.String())
		}
	})

	t.Run("Cancelled context still persists", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		c := NewController(store, nil, 0)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		c.EnterDisconnectedMode(cancelled)

		if flag, _, _ := store.Get(ctx, KeyOfflineMode); flag != "true" {
			t.Errorf("expected offlineMode=true, got %q", flag)
		}
	})

	t.Run("State returns a copy", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		c.Login(ctx, "tok1", user)

		c.State().User.Name = "Mallory"
		if c.State().User.Name != "Ada" {
			t.Error("mutating a snapshot changed the controller")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success logs in", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		auth := fakeAuth{result: &services.LoginResult{AccessToken: "tok1", User: &models.User{ID: "1", Name: "Ada"}}}

		if err := c.Authenticate(ctx, auth, "ada@example.com", "password1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Credential() != "tok1" {
			t.Errorf("expected tok1, got %q", c.Credential())
		}
	})

	t.Run("Rejection keeps state", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		c.Start(ctx)

		err := c.Authenticate(ctx, fakeAuth{err: shared.Rejected(401, "Ungültige Anmeldedaten")}, "ada@example.com", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected auth failure wrapping rejection, got %v", err)
		}
		if c.Connected() {
			t.Error("failed authentication must not connect")
		}
	})

	t.Run("Missing input", func(t *testing.T) {
		c := NewController(repositories.NewMemoryStore(), nil, 0)
		if err := c.Authenticate(ctx, fakeAuth{}, "", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
