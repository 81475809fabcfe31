package jsonarray_test

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maystreet/hpq-go/internal/jsonarray"
)

func TestDecoderItems(t *testing.T) {
	d := jsonarray.NewDecoder(strings.NewReader(`[{"a":1},{"a":2},{"a":3}]`))
	var got []string
	for {
		var v map[string]interface{}
		err := d.Next(&v)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(v["a"].(json.Number)))
	}
	assert.Equal(t, []string{"1", "2", "3"}, got)

	// past the end it stays at EOF
	var v map[string]interface{}
	assert.Equal(t, io.EOF, d.Next(&v))
}

func TestDecoderEmptyArray(t *testing.T) {
	d := jsonarray.NewDecoder(strings.NewReader(`[]`))
	var v map[string]interface{}
	assert.Equal(t, io.EOF, d.Next(&v))
}

func TestDecoderUsesNumber(t *testing.T) {
	// nanosecond timestamps must not pass through float64
	d := jsonarray.NewDecoder(strings.NewReader(`[{"receipt_timestamp":1646127600123456789}]`))
	var v map[string]interface{}
	require.NoError(t, d.Next(&v))
	n, ok := v["receipt_timestamp"].(json.Number)
	require.True(t, ok)
	assert.Equal(t, "1646127600123456789", n.String())
}

func TestDecoderNotAnArray(t *testing.T) {
	d := jsonarray.NewDecoder(strings.NewReader(`{"a":1}`))
	var v map[string]interface{}
	err := d.Next(&v)
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

// failAfter yields its contents and then a terminal error instead of EOF.
type failAfter struct {
	r   io.Reader
	err error
}

func (f *failAfter) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestDecoderDrainSurfacesError(t *testing.T) {
	// an error delivered at end of stream (the mid-stream failure path)
	// outranks the EOF of the final Next
	sentinel := errors.New("stream failed at the end")
	d := jsonarray.NewDecoder(&failAfter{r: strings.NewReader(`[{"a":1}]`), err: sentinel})

	var v map[string]interface{}
	require.NoError(t, d.Next(&v))
	err := d.Next(&v)
	assert.Equal(t, sentinel, err)
}
