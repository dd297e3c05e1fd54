package cmd

import (
	"errors"

	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
	"github.com/NordCoder/Deadswitch/internal/services/switches"
)

var (
	errNoTerminal = errors.New("refusing to delete without a terminal; pass --yes to confirm")
	errNoEmail    = errors.New("no owner e-mail; pass --email or set email in the config file")
)

// describeError shows action failures as the user message and everything else (flags, config) verbatim.
func describeError(err error) string {
	var (
		verr     *switches.ValidationError
		apiErr   *switchapi.APIError
		transErr *switchapi.TransportError
	)
	switch {
	case errors.Is(err, switches.ErrNotConfirmed),
		errors.As(err, &verr),
		errors.As(err, &apiErr),
		errors.As(err, &transErr):
		return switches.UserMessage(err)
	default:
		return err.Error()
	}
}
