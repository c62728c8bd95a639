package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	require.Len(t, key1, KeySize)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// argon2id, time 1, 64 MiB, 4 threads
	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestVerifier(t *testing.T) {
	salt := NewSalt()
	require.Len(t, salt, SaltSize)

	key := DeriveMasterKey([]byte("right"), salt)
	v := MakeVerifier(key)

	assert.NoError(t, CheckVerifier(key, v))
	assert.ErrorIs(t, CheckVerifier(DeriveMasterKey([]byte("wrong"), salt), v), ErrWrongKey)
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{7}, KeySize))
	require.NoError(t, err)

	ct, nonce := s.SealString("Meeting notes")
	assert.NotContains(t, string(ct), "Meeting")

	got, err := s.OpenString(ct, nonce)
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", got)

	ct2, nonce2 := s.SealString("Meeting notes")
	assert.NotEqual(t, nonce, nonce2, "each seal uses a fresh nonce")
	assert.NotEqual(t, ct, ct2)
}

func TestSealer_OpenFailures(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{1}, KeySize))
	require.NoError(t, err)
	other, err := NewSealer(bytes.Repeat([]byte{2}, KeySize))
	require.NoError(t, err)

	ct, nonce := s.Seal([]byte(`{"a":1}`))

	_, err = other.Open(ct, nonce)
	assert.Error(t, err, "wrong key must not open")

	_, err = s.Open(ct, nonce[:4])
	assert.Error(t, err, "short nonce")

	ct[0] ^= 0xff
	_, err = s.Open(ct, nonce)
	assert.Error(t, err, "tampered ciphertext")
}

func TestNewSealer_BadKey(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.Error(t, err)
}
