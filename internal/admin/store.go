package admin

import "context"

// Store persists admin instances.
//
// Error contract: FindByUsername returns sentinel.ErrNotFound when no record
// matches; Create returns sentinel.ErrAlreadyExists when an instance with the
// username exists; infrastructure failures come back wrapped.
type Store interface {
	Create(ctx context.Context, instance *Instance) error
	FindByUsername(ctx context.Context, username string) (*Instance, error)
	Count(ctx context.Context) (int, error)
}
