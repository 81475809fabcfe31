package hpq

// errors.go defines the error taxonomy of the protocol.  The errors raised by
// what the server sent carry the control message that triggered them so
// callers can inspect what the server actually said (cf. the raw JSON carried
// by the source service's own error payloads).  TransportError and StateError
// carry the failing operation instead.

import "fmt"

type (
	// RejectError is returned when the server answers a query with
	// query_status "error" before any body frame has been received.
	// The connection is back in the idle state and can be reused.
	RejectError struct {
		Control *ControlMessage // the "error" control message
	}

	// MidStreamError is returned when the server ends a response body with
	// query_status "error" instead of "complete", i.e. after at least one
	// body frame was received.  Accepted is the control message that
	// originally accepted the query, retained so the caller can tell which
	// query failed mid-stream.  The connection is back in the idle state.
	MidStreamError struct {
		Accepted *ControlMessage // the earlier "accepted" control message (may be nil)
		Control  *ControlMessage // the "error" control message
	}

	// ProtocolError is returned when the server sends a message that does
	// not fit the protocol: not JSON, no query_status key, or a status that
	// is unexpected in the current state.  It is also returned for a
	// response body that is not valid UTF-8 (NextFrameAsString) or not
	// valid JSON (Request).  The connection must be considered corrupt; the
	// caller should Disconnect.
	ProtocolError struct {
		Raw     string          // the offending message text, or a description of the bad body
		Control *ControlMessage // parsed control message, nil if unparseable
	}

	// TransportError wraps an I/O failure on the underlying connection.
	// Fatal to the connection.
	TransportError struct {
		Op  string // the operation that failed ("send", "recv", "recv frame", "dial", "close")
		Err error
	}

	// StateError is returned when an operation is invoked in a state that
	// does not permit it, e.g. a second SendRequest while a query is
	// outstanding.
	StateError struct {
		Op    string
		State State
	}
)

func (e *RejectError) Error() string {
	return "hpq: query rejected: " + e.Control.Raw
}

func (e *MidStreamError) Error() string {
	return "hpq: query failed mid-stream: " + e.Control.Raw
}

func (e *ProtocolError) Error() string {
	return "hpq: protocol error: unexpected message: " + e.Raw
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hpq: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *StateError) Error() string {
	return fmt.Sprintf("hpq: %s not allowed in state %s", e.Op, e.State)
}
