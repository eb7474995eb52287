// Package session owns the client's authentication state: who is logged in,
// where the session is persisted, and the login/register/logout lifecycle.
// It is the single source of truth the rest of the client reads from.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rootpulse/pulse-cli/internal/client/api"
	"github.com/rootpulse/pulse-cli/internal/client/models"
	"github.com/rootpulse/pulse-cli/internal/client/storage"
	"github.com/rootpulse/pulse-cli/internal/common"
	"github.com/rootpulse/pulse-cli/internal/logging"
)

// ErrSuperseded is returned when a login or register call resolved after a
// newer session operation had already taken over; its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer session operation")

// API is the part of the portal client the session manager drives.
type API interface {
	Login(ctx context.Context, identifier, password string) (*api.Credentials, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.Credentials, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (models.User, error)
	SetCredentials(access, refresh string)
	ClearCredentials()
}

// Snapshot is a read-only copy of the session state. Authenticated is true
// exactly when both User and Token are present. Busy is true while a login
// or register call is in flight.
type Snapshot struct {
	User          *models.User
	Token         string
	Authenticated bool
	Busy          bool
}

// RegisterData carries the fields of a new account. Validation beyond
// presence happens server-side.
type RegisterData struct {
	Email     string
	Username  string
	Phone     string
	Password  string
	FirstName string
	LastName  string
}

// Manager is the session state machine. One Manager exists per process;
// construct it with New and hand it by reference to consumers.
//
// Concurrency policy: state is a single mutable cell guarded by a mutex.
// Every mutating operation bumps a monotonically increasing epoch before its
// network call; a response is installed only if the epoch is still current,
// so a logout issued while a login is in flight always wins. Persistence
// writes happen under the same mutex as the state swap they belong to, so a
// logout's store clears can never be interleaved with, and then undone by,
// the writes of a superseded operation.
type Manager struct {
	api       API
	durable   storage.Store
	ephemeral storage.Store
	log       logging.Logger

	mu    sync.RWMutex
	user  *models.User
	token string
	busy  int
	epoch uint64
}

// New constructs a Manager and hydrates it synchronously from the durable
// store. A persisted record that is missing, partial, or malformed yields an
// anonymous session; hydration itself never fails and performs no network
// round-trip to validate the token.
func New(ctx context.Context, apiClient API, durable, ephemeral storage.Store, log logging.Logger) *Manager {
	m := &Manager{
		api:       apiClient,
		durable:   durable,
		ephemeral: ephemeral,
		log:       log,
	}
	m.hydrate(ctx)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	token, err := m.durable.Get(ctx, common.TokenKey)
	if err != nil {
		m.log.Warn(ctx, "failed to read persisted token, starting anonymous", "error", err)
		return
	}
	rawUser, err := m.durable.Get(ctx, common.UserKey)
	if err != nil {
		m.log.Warn(ctx, "failed to read persisted user, starting anonymous", "error", err)
		return
	}
	if token == nil || rawUser == nil {
		return
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		m.log.Warn(ctx, "malformed persisted session, starting anonymous", "error", err)
		return
	}

	m.user = &user
	m.token = string(token)
	m.api.SetCredentials(m.token, "")
	m.log.Info(ctx, "session hydrated", "user", user.ID)
}

// Snapshot returns a copy of the current session state. Safe to call from
// any goroutine; the returned User is a copy and may be retained.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Token: m.token,
		Busy:  m.busy > 0,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	s.Authenticated = s.User != nil && s.Token != ""
	return s
}

// Login authenticates with the portal and, on success, installs the
// credential pair and persists the session to the scope chosen by remember:
// durable when true, ephemeral otherwise. The other scope is cleared so a
// session never exists in both.
//
// On failure the session state is left unchanged. The identifier may be an
// email, username, or phone; only presence is validated client-side.
func (m *Manager) Login(ctx context.Context, identifier, password string, remember bool) error {
	if identifier == "" || password == "" {
		return common.ErrMissingCredentials
	}

	epoch := m.begin()
	creds, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		m.end()
		return err
	}

	scope := storage.ScopeEphemeral
	if remember {
		scope = storage.ScopeDurable
	}
	return m.install(ctx, epoch, creds, scope)
}

// Register creates an account and logs the new user in. Registration always
// persists durably.
func (m *Manager) Register(ctx context.Context, data RegisterData) error {
	if data.Email == "" || data.Username == "" || data.Password == "" {
		return common.ErrMissingCredentials
	}

	epoch := m.begin()
	creds, err := m.api.Register(ctx, api.RegisterRequest{
		Email:     data.Email,
		Username:  data.Username,
		Phone:     data.Phone,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
	})
	if err != nil {
		m.end()
		return err
	}

	return m.install(ctx, epoch, creds, storage.ScopeDurable)
}

// begin marks a login/register as in flight and returns the epoch the call
// belongs to.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy++
	m.epoch++
	return m.epoch
}

func (m *Manager) end() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy--
}

// install applies a successful auth response: state, credentials, and the
// persisted record are swapped under one critical section, token written
// first to the target scope, then removed from the other one. A response
// from a stale epoch is discarded and reported as ErrSuperseded before
// anything is touched.
func (m *Manager) install(ctx context.Context, epoch uint64, creds *api.Credentials, scope storage.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.busy--
	if m.epoch != epoch {
		m.log.Debug(ctx, "stale auth response discarded", "epoch", epoch)
		return ErrSuperseded
	}

	user := creds.User
	m.user = &user
	m.token = creds.AccessToken
	m.api.SetCredentials(creds.AccessToken, creds.RefreshToken)

	m.persist(ctx, scope, creds.AccessToken, user)
	return nil
}

// persist writes the (token, user) pair to the target scope, token first,
// and deletes the record from the opposite scope. Storage failures are
// logged and swallowed: the in-memory session is already authoritative.
// Caller must hold m.mu.
func (m *Manager) persist(ctx context.Context, scope storage.Scope, token string, user models.User) {
	target, other := m.ephemeral, m.durable
	if scope == storage.ScopeDurable {
		target, other = m.durable, m.ephemeral
	}

	if err := target.Set(ctx, common.TokenKey, []byte(token)); err != nil {
		m.log.Warn(ctx, "failed to persist token", "scope", scope, "error", err)
	}
	rawUser, err := json.Marshal(user)
	if err == nil {
		err = target.Set(ctx, common.UserKey, rawUser)
	}
	if err != nil {
		m.log.Warn(ctx, "failed to persist user", "scope", scope, "error", err)
	}

	for _, key := range []string{common.TokenKey, common.UserKey} {
		if err := other.Delete(ctx, key); err != nil {
			m.log.Warn(ctx, "failed to clear stale session record", "key", key, "error", err)
		}
	}
}

// Logout ends the session unconditionally. The server is told best-effort;
// a network failure never prevents the client-visible logout. Both
// persistence scopes and the in-memory credential are cleared.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.epoch++
	wasAuthenticated := m.user != nil
	m.user = nil
	m.token = ""
	for _, store := range []storage.Store{m.durable, m.ephemeral} {
		if err := store.Clear(ctx); err != nil {
			m.log.Warn(ctx, "failed to clear persisted session", "error", err)
		}
	}
	m.mu.Unlock()

	if wasAuthenticated {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Debug(ctx, "server-side logout failed, continuing", "error", err)
		}
	}
	m.api.ClearCredentials()
}

// UpdateUser merges a partial change into the current user, shallow,
// last-write-wins per field. The updated user is re-persisted under the
// durable key only when a durable record already exists; an ephemeral
// session is never upgraded. No-op when anonymous. No network call is made.
func (m *Manager) UpdateUser(ctx context.Context, patch models.UserPatch) {
	if patch.IsZero() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return
	}
	merged := patch.Apply(*m.user)
	m.user = &merged
	m.repersistDurableUser(ctx, merged)
}

// RefreshProfile fetches the server's copy of the account and installs it
// wholesale, following the same durable-only re-persistence rule as
// UpdateUser. The fetched copy is discarded if the session changed while
// the call was in flight.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	if m.user == nil {
		m.mu.RUnlock()
		return common.ErrNotAuthenticated
	}
	epoch := m.epoch
	m.mu.RUnlock()

	user, err := m.api.Profile(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch || m.user == nil {
		return ErrSuperseded
	}
	m.user = &user
	m.repersistDurableUser(ctx, user)
	return nil
}

// repersistDurableUser refreshes the durable copy of the user, but only if
// one exists already; an ephemeral session is never upgraded. Caller must
// hold m.mu.
func (m *Manager) repersistDurableUser(ctx context.Context, user models.User) {
	existing, err := m.durable.Get(ctx, common.UserKey)
	if err != nil {
		m.log.Warn(ctx, "failed to read persisted user", "error", err)
		return
	}
	if existing == nil {
		return
	}

	rawUser, err := json.Marshal(user)
	if err == nil {
		err = m.durable.Set(ctx, common.UserKey, rawUser)
	}
	if err != nil {
		m.log.Warn(ctx, "failed to re-persist user", "error", err)
	}
}
