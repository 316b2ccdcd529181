package ports

import (
	"context"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// FlowSource defines how the engine retrieves flow definitions.
// Implementations return fully parsed and validated definitions; a flow that
// fails validation must never be served.
type FlowSource interface {
	// Flow returns the definition for the given flow id.
	// Returns domain.ErrFlowNotFound if no such flow exists.
	Flow(ctx context.Context, id string) (*domain.FlowDefinition, error)

	// List returns the ids of all available flows.
	List(ctx context.Context) ([]string, error)
}
