// Package middleware wraps a StateStore with at-rest protections. Kiosk
// sessions carry a visitor's situation in their answers, so deployments on
// shared infrastructure encrypt the stored state and redact sensitive
// answers before they leave the process.
package middleware

import "github.com/kioskflow/kioskflow/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain wraps store with the given middlewares. The first middleware becomes
// the outermost layer.
func Chain(store ports.StateStore, middlewares ...Middleware) ports.StateStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
