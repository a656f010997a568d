package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PINLength is the number of digits in a deletion PIN.
const PINLength = 4

// PINCost is the bcrypt work factor for PIN hashes.
const PINCost = 10

var (
	ErrInvalidPIN  = errors.New("PIN must be exactly 4 digits")
	ErrPINMismatch = errors.New("PIN does not match")
)

// ValidatePIN checks that pin is exactly four ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// HashPIN validates pin and returns its bcrypt hash. The plaintext is never stored.
func HashPIN(pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), PINCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPIN compares pin against a stored hash.
func VerifyPIN(hash, pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPINMismatch
	}
	return err
}

// IsHash reports whether s looks like a bcrypt hash rather than a plaintext PIN.
func IsHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}

// RandomHex generates a random hexadecimal string of n bytes
func RandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// RandomPIN generates a random 4 digit PIN with every digit equally likely.
func RandomPIN() (string, error) {
	return randomPIN(rand.Reader)
}

func randomPIN(r io.Reader) (string, error) {
	ten := big.NewInt(10)
	b := make([]byte, PINLength)
	for i := range b {
		d, err := rand.Int(r, ten)
		if err != nil {
			return "", err
		}
		b[i] = '0' + byte(d.Int64())
	}
	return string(b), nil
}
