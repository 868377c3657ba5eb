package workflows

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/store"
)

// AuthOptions configures the auth workflow.
type AuthOptions struct {
	// Store is the store whose credentials are checked.
	Store store.Store
}

// AuthResult contains the verified identity.
type AuthResult struct {
	Identity store.Identity
}

// Auth verifies that the store credentials work and reports who they belong
// to. Stores that cannot report an identity are checked with a List call.
//
// Returns ErrStoreAuth if the credentials are rejected.
func Auth(ctx context.Context, opts AuthOptions) (*AuthResult, error) {
	if identifier, ok := opts.Store.(store.Identifier); ok {
		identity, err := identifier.Identity(ctx)
		if err != nil {
			return nil, err
		}
		return &AuthResult{Identity: *identity}, nil
	}

	if _, err := opts.Store.List(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrStoreAuth, err)
	}
	return &AuthResult{}, nil
}
