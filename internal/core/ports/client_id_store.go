package ports

import (
	"context"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// ClientIDStore persists the identifier the backend assigned to this
// installation.
type ClientIDStore interface {
	// Load returns the stored id. ok is false when nothing has been saved.
	Load(ctx context.Context) (id domain.ID, ok bool, err error)
	// SaveIfAbsent stores id only when no id exists yet and returns the id
	// that is stored afterwards.
	SaveIfAbsent(ctx context.Context, id domain.ID) (domain.ID, error)
}
