package application

import "context"

// Store persists applicant records.
//
// Error contract: FindByEmail returns sentinel.ErrNotFound when no record
// matches; Create returns sentinel.ErrAlreadyExists when the email is taken;
// infrastructure failures come back wrapped.
type Store interface {
	Create(ctx context.Context, app *Application) error
	FindByEmail(ctx context.Context, email string) (*Application, error)
	Count(ctx context.Context) (int, error)
}
