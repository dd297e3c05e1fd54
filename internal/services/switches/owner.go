package switches

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/domain/switches"
	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
)

type ownerInput struct {
	UserEmail string `json:"user_email" validate:"required,email"`
}

// ownedBy treats a record without an owner as visible; the backend scopes ids itself.
func ownedBy(sw *switches.Switch, email string) bool {
	return sw.UserEmail == "" || strings.EqualFold(sw.UserEmail, email)
}

// loadOwned fetches id on behalf of email before op touches it. A switch owned by someone
// else is reported as a 404 for op, indistinguishable from a missing one.
func (u *Usecase) loadOwned(ctx context.Context, op switchapi.Op, id, email string) (*switches.Switch, error) {
	if err := u.check(ownerInput{email}); err != nil {
		return nil, err
	}
	log := obs.WithTrace(ctx, u.log)

	sw, err := u.api.GetByID(ctx, id)
	if err != nil {
		var apiErr *switchapi.APIError
		if errors.As(err, &apiErr) && apiErr.Op != op {
			err = &switchapi.APIError{Op: op, Status: apiErr.Status, Message: apiErr.Message}
		}
		u.logFailure(log, "load "+string(op)+" target", err)
		return nil, err
	}
	if sw == nil || !ownedBy(sw, email) {
		log.Warn("switch not visible to user", zap.String("id", id), zap.String("op", string(op)))
		return nil, &switchapi.APIError{Op: op, Status: http.StatusNotFound}
	}
	return sw, nil
}
