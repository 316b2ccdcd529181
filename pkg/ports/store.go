package ports

import (
	"context"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// StateStore defines the interface for persisting session state.
// Kiosks sharing a backend resume sessions through it; in-process embedding
// can use the memory implementation.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of active sessions.
	List(ctx context.Context) ([]string, error)
}
