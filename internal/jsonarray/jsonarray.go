// Package jsonarray extracts the elements of a JSON array from a stream one
// at a time, without buffering the whole document.
package jsonarray

import (
	"encoding/json"
	"fmt"
	"io"
)

type (
	// Decoder pulls array elements off r.  Numbers decode as json.Number.
	Decoder struct {
		r        io.Reader
		dec      *json.Decoder
		started  bool
		finished bool
	}
)

// NewDecoder returns a Decoder reading a JSON array from r.
func NewDecoder(r io.Reader) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Decoder{r: r, dec: dec}
}

// Next decodes the next array element into v.  Once the closing bracket has
// been read, Next drains r to end of stream (so a reader whose lifecycle
// ends at EOF gets to finalize) and returns io.EOF; an error surfaced by the
// drain outranks the EOF.
func (d *Decoder) Next(v interface{}) error {
	if d.finished {
		return io.EOF
	}
	if !d.started {
		tok, err := d.dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return fmt.Errorf("jsonarray: expected array, got %v", tok)
		}
		d.started = true
	}
	if d.dec.More() {
		return d.dec.Decode(v)
	}
	if _, err := d.dec.Token(); err != nil {
		return err
	}
	d.finished = true
	if err := d.drain(); err != nil {
		return err
	}
	return io.EOF
}

func (d *Decoder) drain() error {
	if _, err := io.Copy(io.Discard, d.dec.Buffered()); err != nil {
		return err
	}
	_, err := io.Copy(io.Discard, d.r)
	return err
}
