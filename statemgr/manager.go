// Package statemgr generates and verifies the anti-CSRF state parameter
// for the authorization code flow.
package statemgr

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/adminconsole/go-auth-client/internal/config"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/pkce"
	"github.com/adminconsole/go-auth-client/session"
)

// debugRecord is written next to the durable state copy so a support
// engineer can see when and from where a login attempt started.
type debugRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	CurrentURL string    `json:"currentUrl"`
}

// Verification is the outcome of a state check. Matched is false both
// on a genuine mismatch and when nothing was stored; StoredState
// distinguishes the two.
type Verification struct {
	Matched     bool
	StoredState string
}

// Manager writes the state token to both storage scopes so it survives
// the full-page redirect through the authorization server: the
// transient copy is authoritative, the durable copy is a fallback for
// environments that drop transient storage across the redirect.
type Manager struct {
	keys    config.StorageConfig
	store   *session.DualScopeStore
	logger  zerolog.Logger
	nowTime func() time.Time
}

// ManagerOption modifies a Manager.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager builds a state manager over both scopes of store.
func NewManager(cfg config.StorageConfig, store *session.DualScopeStore, logger zerolog.Logger, options ...ManagerOption) (*Manager, error) {
	if store == nil || store.Transient == nil || store.Durable == nil {
		return nil, errors.New("[NewManager] both storage scopes are required")
	}
	m := &Manager{
		keys:    cfg,
		store:   store,
		logger:  logger,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// GenerateState produces a fresh random state token, stores it in both
// scopes under the same logical key, and records a debug entry in the
// durable scope. currentURL is the page the login started from.
func (m *Manager) GenerateState(ctx context.Context, currentURL string) (string, error) {
	state, err := pkce.GenerateCodeVerifier()
	if err != nil {
		return "", errors.Wrap(err, "[GenerateState] GenerateCodeVerifier")
	}

	if err := m.store.Transient.Set(ctx, m.keys.GetStateKey(), state); err != nil {
		return "", errors.Wrap(err, "[GenerateState] transient Set")
	}
	if err := m.store.Durable.Set(ctx, m.keys.GetStateKey(), state); err != nil {
		return "", errors.Wrap(err, "[GenerateState] durable Set")
	}

	debug, err := json.Marshal(debugRecord{
		ID:         uuid.New().String(),
		Timestamp:  m.nowTime(),
		CurrentURL: currentURL,
	})
	if err != nil {
		return "", errors.Wrap(err, "[GenerateState] json.Marshal")
	}
	if err := m.store.Durable.Set(ctx, m.keys.GetStateDebugKey(), string(debug)); err != nil {
		return "", errors.Wrap(err, "[GenerateState] debug Set")
	}

	return state, nil
}

// VerifyState checks a state received on the callback against the
// stored one, reading the transient scope first and falling back to the
// durable scope. A stored state that differs from the received one is a
// CSRF failure and returns errs.ErrStateMismatch. No stored state at
// all is tolerated with a warning: storage-clearing edge cases (privacy
// mode, an expired durable entry) would otherwise lock the user out of
// a login the authorization server already approved.
func (m *Manager) VerifyState(ctx context.Context, receivedState string) (Verification, error) {
	stored, err := m.store.Transient.Get(ctx, m.keys.GetStateKey())
	if errors.Is(err, errs.ErrKeyNotFound) {
		stored, err = m.store.Durable.Get(ctx, m.keys.GetStateKey())
	}
	if errors.Is(err, errs.ErrKeyNotFound) {
		m.logger.Warn().
			Str("received_state", receivedState).
			Msg("no stored state found, proceeding without CSRF verification")
		return Verification{Matched: false, StoredState: ""}, nil
	}
	if err != nil {
		return Verification{}, errors.Wrap(err, "[VerifyState] store.Get")
	}

	if stored != receivedState {
		return Verification{Matched: false, StoredState: stored},
			errors.Wrap(errs.ErrStateMismatch, "[VerifyState]")
	}
	return Verification{Matched: true, StoredState: stored}, nil
}

// ClearState removes the state from both scopes along with the debug
// record. It must run once verification has been attempted, whatever
// the outcome of the rest of the callback.
func (m *Manager) ClearState(ctx context.Context) error {
	var firstErr error
	if err := m.store.Transient.Delete(ctx, m.keys.GetStateKey()); err != nil {
		firstErr = errors.Wrap(err, "[ClearState] transient Delete")
	}
	if err := m.store.Durable.Delete(ctx, m.keys.GetStateKey()); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "[ClearState] durable Delete")
	}
	if err := m.store.Durable.Delete(ctx, m.keys.GetStateDebugKey()); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "[ClearState] debug Delete")
	}
	return firstErr
}
