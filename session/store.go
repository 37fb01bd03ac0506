// Package session provides the storage layer for the auth subsystem:
// a key/value store abstraction with two scopes, its backends, and the
// token store persisted on top of it.
package session

import "context"

// KeyValueStore is the minimal storage contract the auth subsystem
// needs. Get returns errs.ErrKeyNotFound (wrapped) when the key is
// absent. Delete of a missing key is a no-op.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// DualScopeStore pairs a short-lived store with a durable one. The
// transient scope lives for a single process (one browser tab in the
// original deployment) and holds secrets that must not outlive a login
// attempt, such as the PKCE verifier. The durable scope survives the
// full-page redirect through the authorization server and holds tokens
// and the CSRF-state fallback copy.
type DualScopeStore struct {
	Transient KeyValueStore
	Durable   KeyValueStore
}

// NewDualScopeStore wires the two scopes together.
func NewDualScopeStore(transient, durable KeyValueStore) *DualScopeStore {
	return &DualScopeStore{Transient: transient, Durable: durable}
}
