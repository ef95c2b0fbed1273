package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, 32)
}

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey())
	require.NoError(t, err)

	sealed, err := sealer.Seal("123456789012")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "123456789012")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", opened)
}

func TestSealer_NonceIsRandom(t *testing.T) {
	sealer, err := NewSealer(testKey())
	require.NoError(t, err)

	a, _ := sealer.Seal("123456789012")
	b, _ := sealer.Seal("123456789012")

	assert.NotEqual(t, a, b)
}

func TestSealer_WrongKey(t *testing.T) {
	sealer, _ := NewSealer(testKey())
	other, _ := NewSealer(bytes.Repeat([]byte{9}, 32))

	sealed, err := sealer.Seal("123456789012")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestSealer_Garbage(t *testing.T) {
	sealer, _ := NewSealer(testKey())

	_, err := sealer.Open("not base64 !!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = sealer.Open("YWJj")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestNewSealer_KeyLength(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "********9012", Mask("123456789012"))
	assert.Equal(t, "****", Mask("1234"))
	assert.Equal(t, "", Mask(""))
}
