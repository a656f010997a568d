package auth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin string
		ok  bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{"١٢٣٤", false},
	}
	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := ValidatePIN(tt.pin)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPIN)
			}
		})
	}
}

func TestHashAndVerifyPIN(t *testing.T) {
	hash, err := HashPIN("4821")
	require.NoError(t, err)
	assert.NotContains(t, hash, "4821")
	assert.True(t, IsHash(hash))
	assert.False(t, IsHash("4821"))

	assert.NoError(t, VerifyPIN(hash, "4821"))
	assert.ErrorIs(t, VerifyPIN(hash, "1111"), ErrPINMismatch)
	assert.ErrorIs(t, VerifyPIN(hash, "abc"), ErrInvalidPIN)

	_, err = HashPIN("12")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestRandomPIN(t *testing.T) {
	pin, err := RandomPIN()
	require.NoError(t, err)
	assert.NoError(t, ValidatePIN(pin))
}

// Out-of-range draws are rejected, not folded onto the low digits.
func TestRandomPINRejectsOutOfRangeDraws(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xFF, 0x07}, PINLength))
	pin, err := randomPIN(src)
	require.NoError(t, err)
	assert.Equal(t, "7777", pin)

	_, err = randomPIN(bytes.NewReader(nil))
	assert.Error(t, err)
}
