package events

import "time"

type Type string

const (
	SwitchCreated   Type = "switch.created"
	SwitchUpdated   Type = "switch.updated"
	SwitchCheckedIn Type = "switch.checked_in"
	SwitchDeleted   Type = "switch.deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	SwitchID  string    `json:"switch_id"`
	UserEmail string    `json:"user_email,omitempty"`
	Name      string    `json:"name,omitempty"`
	At        time.Time `json:"at"`
}
