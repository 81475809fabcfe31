package hpq

// control.go parses the small JSON control messages that bracket a response
// body.  Whatever else the server includes (e.g. schema metadata on
// "accepted") is kept opaquely, with key order preserved.

import (
	"encoding/json"

	"github.com/dolmen-go/jsonmap"
)

// The query_status values the server may send.
const (
	statusScheduled = "scheduled"
	statusAccepted  = "accepted"
	statusComplete  = "complete"
	statusCanceled  = "canceled"
	statusError     = "error"
)

type (
	// ControlMessage is one parsed control message.  Object holds the full
	// JSON object in received key order; Status is its query_status value.
	ControlMessage struct {
		Status string
		Raw    string
		Object jsonmap.Ordered
	}
)

// parseControl decodes text as a control message.  A message that is not a
// JSON object or has no query_status string is a protocol error.
func parseControl(text string) (*ControlMessage, error) {
	var obj jsonmap.Ordered
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, &ProtocolError{Raw: text}
	}
	m := &ControlMessage{Raw: text, Object: obj}
	status, ok := obj.Data["query_status"].(string)
	if !ok {
		return nil, &ProtocolError{Raw: text, Control: m}
	}
	m.Status = status
	return m, nil
}
