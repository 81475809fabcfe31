// Package wsocket adapts a gorilla WebSocket connection to the shape the
// HPQ protocol needs: text messages for requests and control traffic, and
// the binary frames of a response body delivered slice by slice with an
// end-of-body marker.
package wsocket

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// defaultFrameSize bounds how much of a body message one RecvFrame returns.
const defaultFrameSize = 32 * 1024

type (
	// Config carries everything needed to dial the service.
	Config struct {
		URL              string
		Header           http.Header
		TLSConfig        *tls.Config
		HandshakeTimeout time.Duration
	}

	// Conn is one WebSocket connection.  Like the protocol above it, it is
	// strictly sequential: no method may be called concurrently.
	Conn struct {
		ws        *websocket.Conn
		body      io.Reader // current binary message being sliced, nil between bodies
		frameSize int
	}
)

// Dial opens a connection to the service.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	d := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
		TLSClientConfig:  cfg.TLSConfig,
	}
	ws, resp, err := d.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%s: %w", resp.Status, err)
		}
		return nil, err
	}
	return NewConn(ws), nil
}

// NewConn wraps an established WebSocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws, frameSize: defaultFrameSize}
}

// SendText transmits one text message.
func (c *Conn) SendText(text string) error {
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// RecvText returns the next text message.  A binary message here means the
// peer broke framing.
func (c *Conn) RecvText() (string, error) {
	if c.body != nil {
		return "", errors.New("wsocket: response body not fully consumed")
	}
	mt, data, err := c.ws.ReadMessage()
	if err != nil {
		return "", err
	}
	if mt != websocket.TextMessage {
		return "", fmt.Errorf("wsocket: expected text message, got type %d", mt)
	}
	return string(data), nil
}

// RecvFrame returns the next slice of the current binary body message and
// whether it was the final one.  A body message larger than the internal
// frame size arrives over several calls; the final slice may be empty when
// the message length is an exact multiple of it.
func (c *Conn) RecvFrame() ([]byte, bool, error) {
	if c.body == nil {
		mt, r, err := c.ws.NextReader()
		if err != nil {
			return nil, false, err
		}
		if mt != websocket.BinaryMessage {
			return nil, false, fmt.Errorf("wsocket: expected binary message, got type %d", mt)
		}
		c.body = r
	}
	buf := make([]byte, c.frameSize)
	n, err := io.ReadFull(c.body, buf)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		c.body = nil
		return buf[:n], true, nil
	case err != nil:
		c.body = nil
		return nil, false, err
	}
	return buf, false, nil
}

// Close drops the connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
