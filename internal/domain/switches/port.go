package switches

import "context"

type API interface {
	Create(ctx context.Context, in CreateInput) (*Switch, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Switch, error)
	// Checkin may return a nil switch when the backend answers without a body.
	Checkin(ctx context.Context, id string) (*Switch, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, email string) ([]*Switch, error)
	GetByID(ctx context.Context, id string) (*Switch, error)
}
