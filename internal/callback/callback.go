package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Entity kinds.
const (
	KindTask  = "task"
	KindAlert = "alert"
)

// Actions.
const (
	ActionOpenMenu = "open_menu"
	ActionDone     = "done"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionShowList = "show_list"
	ActionSnooze   = "snooze"
)

// ErrMalformedPayload is returned when a callback token cannot be
// decoded back into a Payload.
var ErrMalformedPayload = errors.New("malformed callback payload")

const sep = ":"

// Payload is the decoded intent behind an inline button press. Arg is
// action-specific: alert actions carry the trigger time as minutes since
// midnight, so the token never has to embed a colon-bearing time string.
type Payload struct {
	Kind   string
	ID     int64
	Action string
	Arg    string
}

// Encode renders p as "kind:id:action:arg", always four fields. Fields
// containing the separator are rejected rather than rewritten, so every
// legal payload round-trips through Decode unchanged.
func (p Payload) Encode() (string, error) {
	if p.Kind != KindTask && p.Kind != KindAlert {
		return "", fmt.Errorf("%w: unknown kind %q", ErrMalformedPayload, p.Kind)
	}
	if p.Action == "" || strings.Contains(p.Action, sep) {
		return "", fmt.Errorf("%w: bad action %q", ErrMalformedPayload, p.Action)
	}
	if strings.Contains(p.Arg, sep) {
		return "", fmt.Errorf("%w: arg contains separator", ErrMalformedPayload)
	}
	return strings.Join([]string{p.Kind, strconv.FormatInt(p.ID, 10), p.Action, p.Arg}, sep), nil
}

// Decode parses a callback token produced by Encode.
func Decode(data string) (Payload, error) {
	parts := strings.Split(data, sep)
	if len(parts) != 4 {
		return Payload{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedPayload, len(parts))
	}
	if parts[0] != KindTask && parts[0] != KindAlert {
		return Payload{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedPayload, parts[0])
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad id %q", ErrMalformedPayload, parts[1])
	}
	if parts[2] == "" {
		return Payload{}, fmt.Errorf("%w: empty action", ErrMalformedPayload)
	}
	return Payload{Kind: parts[0], ID: id, Action: parts[2], Arg: parts[3]}, nil
}
