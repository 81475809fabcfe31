package hpq

// client.go drives the HPQ query protocol.  One Client owns one WebSocket
// connection and runs one query at a time through a small state machine:
//
//   idle -> request sent -> scheduled -> accepted -> after response -> idle
//
// Control messages (text frames with a query_status key) move the machine
// forward; the response body arrives as binary frames between "accepted" and
// "complete".  Cancel can be called in any state and walks the connection
// back to idle without losing frame synchronisation.

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maystreet/hpq-go/internal/wsocket"
)

// State identifies where the client is in the query protocol.
type State int

const (
	StateIdle State = iota
	StateRequestSent
	StateScheduled
	StateAccepted
	StateAfterResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestSent:
		return "request sent"
	case StateScheduled:
		return "scheduled"
	case StateAccepted:
		return "accepted"
	case StateAfterResponse:
		return "after response"
	}
	return "unknown"
}

// cancelText is the literal the server recognises as a cancellation token.
const cancelText = "cancel\n"

type (
	// Client is a connection to the HPQ service.  It is not safe for
	// concurrent use: all methods must be called from a single goroutine,
	// and only one query may be outstanding at a time.
	Client struct {
		url              string
		header           http.Header
		tlsConfig        *tls.Config
		handshakeTimeout time.Duration

		transport Transport
		state     State
		accepted  *ControlMessage // retained for mid-stream error reporting
		lastFin   bool
		bodySeen  bool
	}
)

// NewClient builds a Client from the given options.  No I/O happens until
// the first request (or an explicit Connect).
func NewClient(opt ...Option) (*Client, error) {
	o := options{handshakeTimeout: defaultHandshakeTimeout}
	for _, f := range opt {
		f(&o)
	}
	header, err := o.buildHeader()
	if err != nil {
		return nil, err
	}
	if o.transport == nil && o.url == "" {
		return nil, errors.New("hpq: no URL configured")
	}
	return &Client{
		url:              o.url,
		header:           header,
		tlsConfig:        o.tlsConfig,
		handshakeTimeout: o.handshakeTimeout,
		transport:        o.transport,
	}, nil
}

// State returns the client's current protocol state.
func (c *Client) State() State { return c.state }

// Accepted returns the control message that accepted the current (or most
// recent) query, or nil if no query has been accepted yet.
func (c *Client) Accepted() *ControlMessage { return c.accepted }

// Connect dials the service if not already connected.  Requests dial lazily,
// so calling Connect is only needed to control the dial context or to fail
// fast on bad credentials.
func (c *Client) Connect(ctx context.Context) error {
	if c.transport != nil {
		return nil
	}
	t, err := wsocket.Dial(ctx, wsocket.Config{
		URL:              c.url,
		Header:           c.header,
		TLSConfig:        c.tlsConfig,
		HandshakeTimeout: c.handshakeTimeout,
	})
	if err != nil {
		return &TransportError{Op: "dial", Err: err}
	}
	c.transport = t
	return nil
}

func (c *Client) connect() (Transport, error) {
	if c.transport == nil {
		if err := c.Connect(context.Background()); err != nil {
			return nil, err
		}
	}
	return c.transport, nil
}

// SendRequest encodes req as JSON and transmits it.  The client must be
// idle; on success it is in the request-sent state.
func (c *Client) SendRequest(req map[string]interface{}) error {
	text, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return c.SendRequestRaw(string(text))
}

// SendRequestRaw transmits a pre-encoded request.
func (c *Client) SendRequestRaw(text string) error {
	if c.state != StateIdle {
		return &StateError{Op: "send request", State: c.state}
	}
	t, err := c.connect()
	if err != nil {
		return err
	}
	if err := t.SendText(text); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	c.state = StateRequestSent
	c.accepted = nil
	c.bodySeen = false
	c.lastFin = false
	return nil
}

// BeginResponse consumes the "scheduled" and "accepted" control messages and
// returns the latter.  After it returns the body frames may be read.
func (c *Client) BeginResponse() (*ControlMessage, error) {
	if c.state != StateRequestSent {
		return nil, &StateError{Op: "begin response", State: c.state}
	}
	if _, err := c.recvAndCheck(statusScheduled, StateScheduled); err != nil {
		return nil, err
	}
	acc, err := c.recvAndCheck(statusAccepted, StateAccepted)
	if err != nil {
		return nil, err
	}
	c.accepted = acc
	return acc, nil
}

// NextFrame receives the next slice of the response body.  Callers must
// check FinishedResponse after every call; when it reports true the body is
// over and EndResponse must be called.
func (c *Client) NextFrame() ([]byte, error) {
	if c.state != StateAccepted {
		return nil, &StateError{Op: "next frame", State: c.state}
	}
	payload, fin, err := c.transport.RecvFrame()
	if err != nil {
		return nil, &TransportError{Op: "recv frame", Err: err}
	}
	c.bodySeen = true
	c.lastFin = fin
	if fin {
		c.state = StateAfterResponse
	}
	return payload, nil
}

// NextFrameAsString is NextFrame with a strict UTF-8 decode.
func (c *Client) NextFrameAsString() (string, error) {
	b, err := c.NextFrame()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &ProtocolError{Raw: "response body is not valid UTF-8"}
	}
	return string(b), nil
}

// FinishedResponse reports whether the most recently received body frame was
// the final one.
func (c *Client) FinishedResponse() bool { return c.lastFin }

// EndResponse consumes the control message that ends a response and requires
// it to be "complete".  A "error" here means the server failed after it had
// already streamed part of the body; that surfaces as a *MidStreamError
// carrying the original accepted descriptor.
func (c *Client) EndResponse() error {
	if c.state != StateAfterResponse {
		return &StateError{Op: "end response", State: c.state}
	}
	_, err := c.recvAndCheck(statusComplete, StateIdle)
	return err
}

// RestOfResponse drains the remaining body frames as a string and completes
// the response.
func (c *Client) RestOfResponse() (string, error) {
	var sb strings.Builder
	for {
		s, err := c.NextFrameAsString()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		if c.FinishedResponse() {
			break
		}
	}
	if err := c.EndResponse(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Request runs req to completion and returns the parsed response body.
// Numbers decode as json.Number so nanosecond timestamps survive intact.
func (c *Client) Request(req map[string]interface{}) (interface{}, error) {
	if err := c.SendRequest(req); err != nil {
		return nil, err
	}
	if _, err := c.BeginResponse(); err != nil {
		return nil, err
	}
	body, err := c.RestOfResponse()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, &ProtocolError{Raw: "response body is not valid JSON: " + err.Error()}
	}
	return v, nil
}

// Stream sends req and returns a reader over the response body.  The reader
// borrows the client: no other operation may run until the stream ends or
// Cancel is called.
func (c *Client) Stream(req map[string]interface{}) (*BodyReader, error) {
	if err := c.SendRequest(req); err != nil {
		return nil, err
	}
	if _, err := c.BeginResponse(); err != nil {
		return nil, err
	}
	return &BodyReader{c: c}, nil
}

// recvControl receives and parses one control message.
func (c *Client) recvControl() (*ControlMessage, error) {
	text, err := c.transport.RecvText()
	if err != nil {
		return nil, &TransportError{Op: "recv", Err: err}
	}
	return parseControl(text)
}

// recvAndCheck receives one control message and requires its status to be
// expected, moving the state to next.  An "error" status returns the client
// to idle and surfaces as a reject (no body seen yet) or a mid-stream
// failure; any other status is a protocol error and leaves the state alone.
func (c *Client) recvAndCheck(expected string, next State) (*ControlMessage, error) {
	msg, err := c.recvControl()
	if err != nil {
		return nil, err
	}
	if msg.Status != expected {
		if msg.Status == statusError {
			c.state = StateIdle
			if c.bodySeen {
				return nil, &MidStreamError{Accepted: c.accepted, Control: msg}
			}
			return nil, &RejectError{Control: msg}
		}
		return nil, &ProtocolError{Raw: msg.Raw, Control: msg}
	}
	c.state = next
	return msg, nil
}

// Cancel abandons the in-flight query and blocks until the connection is
// idle again.  The cancel token races with whatever the server is sending,
// so every step must accept either the next regular control message or the
// terminal "canceled".
func (c *Client) Cancel() error {
	switch c.state {
	case StateIdle:
		return nil
	case StateAfterResponse:
		// the body has already been consumed; completing the response may
		// surface a mid-stream error, which must not be swallowed
		return c.EndResponse()
	}
	if err := c.transport.SendText(cancelText); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	if c.state == StateRequestSent {
		done, err := c.tryConsume(statusScheduled, StateScheduled)
		if done || err != nil {
			return err
		}
	}
	if c.state == StateScheduled {
		done, err := c.tryConsume(statusAccepted, StateAccepted)
		if done || err != nil {
			return err
		}
	}
	// State is accepted: drain the body.  A cancel that reached the server
	// before the first chunk suppresses the body entirely; the final frame
	// then carries a "canceled" control object instead of data.
	for {
		payload, err := c.NextFrame()
		if err != nil {
			return err
		}
		if !c.FinishedResponse() {
			continue
		}
		if m, perr := parseControl(string(payload)); perr == nil && m.Status == statusCanceled {
			c.state = StateIdle
			return nil
		}
		break
	}
	done, err := c.tryConsume(statusComplete, StateIdle)
	if done || err != nil {
		return err
	}
	// Accepting "error" absorbs the server's reaction to a cancel that
	// arrived with no request in flight: it treats the cancel text as a new
	// request and fails to parse it.
	_, err = c.tryConsume(statusError, StateIdle)
	return err
}

// tryConsume receives one control message during cancellation.  It reports
// true if the message was the terminal "canceled"; false if it was the
// expected token, moving the state to next.  Anything else is a protocol
// error.
func (c *Client) tryConsume(expected string, next State) (bool, error) {
	msg, err := c.recvControl()
	if err != nil {
		return false, err
	}
	switch msg.Status {
	case statusCanceled:
		c.state = StateIdle
		return true, nil
	case expected:
		c.state = next
		return false, nil
	}
	return false, &ProtocolError{Raw: msg.Raw, Control: msg}
}

// Disconnect drops the connection.  The next request dials a fresh one.
func (c *Client) Disconnect() error {
	if c.transport == nil {
		return nil
	}
	err := c.transport.Close()
	c.transport = nil
	c.state = StateIdle
	c.accepted = nil
	c.lastFin = false
	c.bodySeen = false
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}
