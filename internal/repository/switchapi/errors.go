package switchapi

import (
	"encoding/json"
	"fmt"
)

type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpCheckin Op = "checkin"
	OpDelete  Op = "delete"
	OpList    Op = "list"
	OpGet     Op = "get"
)

var fallbackMessages = map[Op]string{
	OpCreate:  "Failed to create switch",
	OpUpdate:  "Failed to update switch",
	OpCheckin: "Failed to checkin switch",
	OpDelete:  "Failed to delete switch",
	OpList:    "Failed to load switches",
	OpGet:     "Failed to load switch",
}

// FallbackMessage is shown when the backend rejects a call without a usable message.
func FallbackMessage(op Op) string {
	if m, ok := fallbackMessages[op]; ok {
		return m
	}
	return "Request failed"
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op      Op
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("switchapi %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("switchapi %s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage(e.Op)
}

// TransportError means no usable answer was obtained: the request failed in flight
// or the success body could not be decoded.
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("switchapi %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// errorMessage extracts a non-empty string "message" field from an error body.
func errorMessage(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	raw, ok := envelope["message"]
	if !ok {
		return ""
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	return msg
}
