package switches

import "context"

const DeletePrompt = "Are you sure you want to delete this switch?"

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Confirmed answers yes without asking, for callers that collected consent up front.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
