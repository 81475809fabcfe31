package hpq

// transport.go defines the contract the protocol client needs from the
// underlying WebSocket connection.  The real implementation is
// internal/wsocket (gorilla/websocket); tests substitute a scripted fake.

type (
	// Transport carries the wire traffic for one HPQ connection.  The
	// protocol layered on top distinguishes text messages (requests and
	// control messages) from the binary frames of a response body.
	Transport interface {
		// SendText transmits one text message.
		SendText(text string) error

		// RecvText returns the next text message.  Receiving anything
		// other than a text message is an error.
		RecvText() (string, error)

		// RecvFrame returns the payload of the next slice of the current
		// binary response body and reports whether it was the final one.
		// A final slice may be empty.
		RecvFrame() (payload []byte, fin bool, err error)

		// Close drops the connection.
		Close() error
	}
)
