package hpq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// control messages surface through BeginResponse; the accepted descriptor
// keeps whatever else the server sent, in its original key order.
func TestAcceptedKeepsOpaqueBody(t *testing.T) {
	c, _ := newTestClient(t, []wireAction{
		expectSend(`{"q":"x"}`),
		text(`{"query_status":"scheduled"}`),
		text(`{"zeta":1,"query_status":"accepted","alpha":{"nested":true}}`),
	})
	require.NoError(t, c.SendRequest(map[string]interface{}{"q": "x"}))

	acc, err := c.BeginResponse()
	require.NoError(t, err)
	assert.Equal(t, "accepted", acc.Status)
	assert.Equal(t, []string{"zeta", "query_status", "alpha"}, acc.Object.Order)
	assert.Contains(t, acc.Object.Data, "alpha")
}
