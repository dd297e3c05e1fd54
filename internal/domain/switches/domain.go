package switches

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Switch struct {
	ID                 string    `json:"id"`
	UserEmail          string    `json:"user_email,omitempty"`
	Name               string    `json:"name"`
	Content            string    `json:"content"`
	Interval           int       `json:"interval"` // days
	ExpirationDatetime Timestamp `json:"expiration_datetime"`
	IsActive           bool      `json:"is_active"`
}

// CreateInput is also the wire body of the create call.
type CreateInput struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Name      string `json:"name" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
	Interval  int    `json:"interval" validate:"min=1"`
}

// UpdateInput is also the wire body of the update call.
type UpdateInput struct {
	Name     string `json:"name" validate:"notblank"`
	Content  string `json:"content" validate:"notblank"`
	Interval int    `json:"interval" validate:"min=1"`
	IsActive bool   `json:"is_active"`
}

// Timestamp accepts RFC 3339 and the zone-less ISO form the backend emits; zone-less values are UTC.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v.UTC()
		return nil
	}
	for _, layout := range naiveLayouts {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Expired reports whether an active switch has passed its deadline at now.
func (s *Switch) Expired(now time.Time) bool {
	return s.IsActive && !s.ExpirationDatetime.IsZero() && !now.Before(s.ExpirationDatetime.Time)
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// Status is the display state at now: inactive wins over expired.
func (s *Switch) Status(now time.Time) string {
	switch {
	case !s.IsActive:
		return StatusInactive
	case s.Expired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}
