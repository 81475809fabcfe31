package hpq

// stream.go exposes a response body as a plain byte stream.  Frame
// boundaries disappear; the reader's lifecycle is tied to the client it
// borrows, and reaching end of stream completes the response on the client.

import "io"

type (
	// BodyReader reads the concatenated payloads of a response's body
	// frames.  When the final frame has been fully delivered the reader
	// calls EndResponse on the client exactly once; a mid-stream failure
	// reported there comes out of the terminating Read.  After the first
	// io.EOF (or terminal error) further Reads return io.EOF and the client
	// is not touched again.
	BodyReader struct {
		c     *Client
		carry []byte // tail of a frame that did not fit the caller's buffer
		fin   bool
		done  bool // EndResponse already issued
	}
)

// Read implements io.Reader.  Every call returns at least one byte unless
// the body is exhausted; empty body frames are skipped, never surfaced.
func (r *BodyReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if len(r.carry) > 0 {
		n := copy(p, r.carry)
		r.carry = r.carry[n:]
		if n > 0 {
			return n, nil
		}
	}
	if len(p) == 0 {
		return 0, nil
	}
	for !r.fin {
		payload, err := r.c.NextFrame()
		if err != nil {
			return 0, err
		}
		r.fin = r.c.FinishedResponse()
		if len(payload) == 0 {
			continue
		}
		n := copy(p, payload)
		if n < len(payload) {
			r.carry = payload[n:]
		}
		return n, nil
	}
	r.done = true
	if err := r.c.EndResponse(); err != nil {
		return 0, err
	}
	return 0, io.EOF
}
