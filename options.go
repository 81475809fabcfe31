package hpq

// options.go handles options that can be used to control how a Client
// connects.  (Closures are used so new options can be added without breaking
// the NewClient signature.)

import (
	"crypto/tls"
	"errors"
	"net/http"
	"time"
)

const defaultHandshakeTimeout = 30 * time.Second

type options struct {
	url              string
	header           http.Header
	authorization    string // full Authorization header value
	secret           string // shared-secret scheme, validated at build time
	tlsConfig        *tls.Config
	handshakeTimeout time.Duration
	transport        Transport
}

// Option configures a Client at construction.  Later options replace
// earlier ones, so the two authorization schemes are mutually exclusive:
// whichever is given last wins.
type Option func(*options)

// WithURL sets the wss:// endpoint to dial.
func WithURL(url string) Option {
	return func(o *options) {
		o.url = url
	}
}

// WithHeader adds extra headers to the WebSocket handshake.
func WithHeader(h http.Header) Option {
	return func(o *options) {
		if o.header == nil {
			o.header = http.Header{}
		}
		for k, vs := range h {
			o.header[k] = vs
		}
	}
}

// WithAuthorization sets the Authorization handshake header verbatim.
func WithAuthorization(value string) Option {
	return func(o *options) {
		o.authorization = value
		o.secret = ""
	}
}

// WithBearerToken authorizes with "Bearer <token>".  Use BearerTokenFromFile
// to load the token the way the service distributes it.
func WithBearerToken(token string) Option {
	return func(o *options) {
		o.authorization = "Bearer " + token
		o.secret = ""
	}
}

// WithSecret authorizes with the static shared-secret scheme.  The secret
// must be a 64-digit hex string.
func WithSecret(secret string) Option {
	return func(o *options) {
		o.secret = secret
		o.authorization = ""
	}
}

// WithTLSConfig sets the TLS configuration used for the wss:// dial.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = cfg
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.  Only for
// staging endpoints.
func WithInsecureSkipVerify() Option {
	return func(o *options) {
		o.tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}
}

// WithHandshakeTimeout bounds the WebSocket handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) {
		o.handshakeTimeout = d
	}
}

// WithTransport supplies an already-connected transport instead of dialing.
// Mostly useful for tests and custom carriers.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// buildHeader assembles the handshake headers, validating the credentials.
func (o *options) buildHeader() (http.Header, error) {
	h := http.Header{}
	for k, vs := range o.header {
		h[k] = vs
	}
	switch {
	case o.secret != "":
		if !validSecret(o.secret) {
			return nil, errors.New("hpq: secret must be 64 hex digits")
		}
		h.Set("Authorization", SecretScheme+" "+o.secret)
	case o.authorization != "":
		h.Set("Authorization", o.authorization)
	}
	return h, nil
}
