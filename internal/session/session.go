// Package session tracks the connectivity mode and the credential every collection manager routes on.
//
// A [Controller] starts in [models.ModeLoading] and settles on connected or disconnected after
// [Controller.Start]. Afterwards the mode only changes through explicit transitions, and each transition
// persists the keys needed to resume the same mode after a restart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/services"
	"github.com/desertthunder/skipify/internal/shared"
)

// Persisted keys.
const (
	KeyToken       = "token"
	KeyUser        = "user"
	KeyOfflineMode = "offlineMode"
)

// DefaultStartupTimeout bounds the credential probe in [Controller.Start].
const DefaultStartupTimeout = 3 * time.Second

// State is a snapshot of the controller.
type State struct {
	Mode       models.Mode
	Credential string
	User       *models.User // nil after logout or a fresh start with nothing stored
}

// Guest reports whether the session runs under the synthesized offline identity.
func (s State) Guest() bool { return s.User.IsGuest() }

// Authenticator performs the remote login call. [services.Client] implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

// Controller is the process-wide mode holder. It is safe for concurrent use.
type Controller struct {
	mu             sync.RWMutex
	state          State
	store          repositories.KeyValueStore
	logger         *log.Logger
	startupTimeout time.Duration
}

// NewController creates a controller in the loading state.
func NewController(store repositories.KeyValueStore, logger *log.Logger, startupTimeout time.Duration) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if startupTimeout <= 0 {
		startupTimeout = DefaultStartupTimeout
	}
	return &Controller{
		state:          State{Mode: models.ModeLoading},
		store:          store,
		logger:         logger,
		startupTimeout: startupTimeout,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Connected reports whether remote operations are routed to the API.
func (c *Controller) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Mode == models.ModeConnected
}

// Credential returns the bearer credential, or "" when there is none.
func (c *Controller) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Credential
}

type probe struct {
	key   string
	value string
	ok    bool
	err   error
}

// Start resolves the initial mode from the store. It never fails: read errors and an expired ceiling
// settle on disconnected with the guest identity.
func (c *Controller) Start(ctx context.Context) State {
	ctx, cancel := context.WithTimeout(ctx, c.startupTimeout)
	defer cancel()

	keys := []string{KeyToken, KeyUser, KeyOfflineMode}
	results := make(chan probe, len(keys))

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, ok, err := c.store.Get(ctx, key)
			results <- probe{key: key, value: value, ok: ok, err: err}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	found := make(map[string]string, len(keys))
	for {
		select {
		case <-ctx.Done():
			c.logger.Warn("startup probe exceeded ceiling", "timeout", c.startupTimeout)
			return c.settle(State{Mode: models.ModeDisconnected, User: models.GuestUser()})
		case r, open := <-results:
			if !open {
				return c.settle(c.resolve(found))
			}
			if r.err != nil {
				c.logger.Warn("startup probe failed", "key", r.key, "error", r.err)
				return c.settle(State{Mode: models.ModeDisconnected, User: models.GuestUser()})
			}
			if r.ok {
				found[r.key] = r.value
			}
		}
	}
}

func (c *Controller) resolve(found map[string]string) State {
	if found[KeyOfflineMode] == "true" {
		return State{Mode: models.ModeDisconnected, User: models.GuestUser()}
	}

	token := found[KeyToken]
	if raw, ok := found[KeyUser]; ok && token != "" {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil && user.ID != "" {
			return State{Mode: models.ModeConnected, Credential: token, User: &user}
		}
		c.logger.Warn("stored user is unreadable")
	}

	return State{Mode: models.ModeDisconnected}
}

func (c *Controller) settle(s State) State {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	c.logger.Info("session ready", "mode", s.Mode, "guest", s.Guest())
	return c.State()
}

// Login transitions to connected and persists the credential and identity.
func (c *Controller) Login(ctx context.Context, credential string, user *models.User) error {
	if credential == "" || user == nil {
		return shared.ErrMissingArgument
	}

	u := *user
	c.mu.Lock()
	c.state = State{Mode: models.ModeConnected, Credential: credential, User: &u}
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	c.persist(ctx, KeyToken, credential)
	if data, err := json.Marshal(u); err == nil {
		c.persist(ctx, KeyUser, string(data))
	}
	c.persist(ctx, KeyOfflineMode, "false")

	c.logger.Info("logged in", "user", u.DisplayLabel())
	return nil
}

// Authenticate performs the remote login and then [Controller.Login].
func (c *Controller) Authenticate(ctx context.Context, auth Authenticator, email, password string) error {
	if email == "" || password == "" {
		return shared.ErrMissingArgument
	}

	result, err := auth.Login(ctx, email, password)
	if err != nil {
		return errors.Join(shared.ErrAuthFailed, err)
	}
	return c.Login(ctx, result.AccessToken, result.User)
}

// EnterDisconnectedMode switches to offline use under the guest identity and drops any credential.
func (c *Controller) EnterDisconnectedMode(ctx context.Context) {
	c.mu.Lock()
	c.state = State{Mode: models.ModeDisconnected, User: models.GuestUser()}
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	c.persist(ctx, KeyOfflineMode, "true")
	c.remove(ctx, KeyToken)

	c.logger.Info("entered disconnected mode")
}

// Logout clears every persisted session key and leaves the session without an identity.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.state = State{Mode: models.ModeDisconnected}
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, key := range []string{KeyToken, KeyUser, KeyOfflineMode} {
		c.remove(ctx, key)
	}

	c.logger.Info("logged out")
}

func (c *Controller) persist(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn("failed to persist session key", "key", key, "error", err)
	}
}

func (c *Controller) remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("failed to remove session key", "key", key, "error", err)
	}
}
