package hpq_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hpq "github.com/maystreet/hpq-go"
)

// openStream scripts a response whose body arrives in the given frames and
// returns a reader positioned at its start.
func openStream(t *testing.T, frames []wireAction, tail ...wireAction) (*hpq.BodyReader, *hpq.Client, *fakeTransport) {
	t.Helper()
	script := []wireAction{
		expectSend(`{"q":"x"}`),
		text(`{"query_status":"scheduled"}`),
		text(`{"query_status":"accepted"}`),
	}
	script = append(script, frames...)
	script = append(script, tail...)
	c, ft := newTestClient(t, script)
	r, err := c.Stream(map[string]interface{}{"q": "x"})
	require.NoError(t, err)
	return r, c, ft
}

func TestBodyReaderPreservesBytes(t *testing.T) {
	frames := []wireAction{
		frame("ab", false),
		frame("", false), // empty frames are skipped, not surfaced
		frame("cdefg", false),
		frame("hi", true),
	}
	const want = "abcdefghi"

	for _, bufSize := range []int{1, 2, 3, 4, 7, 64} {
		r, c, ft := openStream(t, frames, text(`{"query_status":"complete"}`))
		var got strings.Builder
		buf := make([]byte, bufSize)
		for {
			n, err := r.Read(buf)
			got.Write(buf[:n])
			if err == io.EOF {
				break
			}
			require.NoError(t, err, "buffer size %d", bufSize)
			require.Greater(t, n, 0, "a non-final read must yield bytes")
		}
		assert.Equal(t, want, got.String(), "buffer size %d", bufSize)
		assert.Equal(t, hpq.StateIdle, c.State())
		ft.assertDrained()
	}
}

func TestBodyReaderEOFContract(t *testing.T) {
	r, _, ft := openStream(t,
		[]wireAction{frame("x", true)},
		text(`{"query_status":"complete"}`),
	)
	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "x", string(buf[:n]))

	// the terminating read completes the response exactly once; the script
	// holds a single "complete", so a second EndResponse would fail the fake
	for i := 0; i < 3; i++ {
		n, err = r.Read(buf)
		assert.Equal(t, 0, n)
		assert.Equal(t, io.EOF, err)
	}
	ft.assertDrained()
}

func TestBodyReaderEmptyBody(t *testing.T) {
	r, c, _ := openStream(t,
		[]wireAction{frame("", true)},
		text(`{"query_status":"complete"}`),
	)
	n, err := r.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, hpq.StateIdle, c.State())
}

func TestBodyReaderMidStream(t *testing.T) {
	r, c, _ := openStream(t,
		[]wireAction{frame("data", true)},
		text(`{"query_status":"error","msg":"exploded"}`),
	)
	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// the failure comes out of the terminating read
	_, err = r.Read(buf)
	var mid *hpq.MidStreamError
	require.ErrorAs(t, err, &mid)
	assert.Equal(t, hpq.StateIdle, c.State())

	// and is not retried afterwards
	n, err = r.Read(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestBodyReaderStreamingSplit(t *testing.T) {
	// S2: a two-frame body read through a 4-byte buffer
	r, c, ft := openStream(t,
		[]wireAction{
			frame(`[{"a":1},`, false),
			frame(`{"a":2}]`, true),
		},
		text(`{"query_status":"complete"}`),
	)
	var got strings.Builder
	buf := make([]byte, 4)
	for {
		n, err := r.Read(buf)
		got.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, `[{"a":1},{"a":2}]`, got.String())
	assert.Equal(t, hpq.StateIdle, c.State())
	ft.assertDrained()
}
