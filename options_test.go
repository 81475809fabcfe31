package hpq

// options_test.go checks header assembly, which is not observable through
// the public surface until a handshake happens.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHeaderFrom(t *testing.T, opt ...Option) (string, error) {
	t.Helper()
	o := options{}
	for _, f := range opt {
		f(&o)
	}
	h, err := o.buildHeader()
	if err != nil {
		return "", err
	}
	return h.Get("Authorization"), nil
}

func TestBuildHeaderSchemes(t *testing.T) {
	secret := "6c753a250093df2e997c143cc95dc246024c8b6b5f717f8d6b6ee2b4b7399e59"

	auth, err := buildHeaderFrom(t, WithBearerToken("abc.def.ghi"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc.def.ghi", auth)

	auth, err = buildHeaderFrom(t, WithSecret(secret))
	require.NoError(t, err)
	assert.Equal(t, SecretScheme+" "+secret, auth)

	// schemes are mutually exclusive: the last one wins
	auth, err = buildHeaderFrom(t, WithSecret(secret), WithBearerToken("abc.def.ghi"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc.def.ghi", auth)

	auth, err = buildHeaderFrom(t, WithBearerToken("abc.def.ghi"), WithSecret(secret))
	require.NoError(t, err)
	assert.Equal(t, SecretScheme+" "+secret, auth)

	_, err = buildHeaderFrom(t, WithSecret("tooshort"))
	require.Error(t, err)
}

func TestValidSecret(t *testing.T) {
	assert.True(t, validSecret("6C753A250093DF2E997C143CC95DC246024C8B6B5F717F8D6B6EE2B4B7399E59"))
	assert.False(t, validSecret(""))
	assert.False(t, validSecret("6C753A250093DF2E997C143CC95DC246024C8B6B5F717F8D6B6EE2B4B7399E5")) // 63 digits
	assert.False(t, validSecret("zz753A250093DF2E997C143CC95DC246024C8B6B5F717F8D6B6EE2B4B7399E59"))
}
