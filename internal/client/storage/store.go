// Package storage provides the key/value persistence backends a session is
// saved to: a durable sqlite-backed store that survives restarts and an
// ephemeral in-memory store that lives for the process.
package storage

import "context"

// Scope names the persistence lifetime of a session record.
type Scope string

const (
	// ScopeDurable survives a client restart.
	ScopeDurable Scope = "durable"
	// ScopeEphemeral lives only for the current process.
	ScopeEphemeral Scope = "ephemeral"
)

// Store is a minimal key/value persistence backend.
//
// Get returns (nil, nil) when the key is absent; callers must treat a nil
// value as "no record". Writes to distinct keys are independent: no
// transactional guarantee spans two Set calls.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
