package middleware

import (
	"context"
	"regexp"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
)

// piiMask replaces redacted answer values.
const piiMask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers whose node id
// matches any of the patterns before the state is persisted. Redaction is
// one-way: a masked answer stays masked on load, so rule evaluation on
// redacted fields is unreliable. Use it for stores outside the trust
// boundary, or prefer the encryption middleware when answers must survive.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// Clone so the in-memory state used by the runner keeps its answers.
	cloned := state.Clone()
	for key := range cloned.Answers {
		for _, p := range m.patterns {
			if p.MatchString(key) {
				cloned.Answers[key] = piiMask
				break
			}
		}
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
