// Package cryptox provides the key handling and field sealing used by the
// embedded store: argon2id key derivation, a key verifier, and AES-GCM
// sealing of individual column values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docstore/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	KeySize  = 32
	SaltSize = 16
)

// ErrWrongKey is returned when a verifier does not match the derived key.
var ErrWrongKey = errors.New("wrong passphrase")

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// CheckVerifier compares a stored verifier with the one derived from key
// in constant time.
func CheckVerifier(masterKey, verifier []byte) error {
	if subtle.ConstantTimeCompare(MakeVerifier(masterKey), verifier) != 1 {
		return ErrWrongKey
	}
	return nil
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
	return x
}

// NewSalt returns a fresh random salt for DeriveMasterKey.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Sealer encrypts and decrypts single values with AES-GCM.
// Every Seal call draws a new random nonce, which is returned separately
// so it can be stored next to the ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a 16, 24 or 32 byte AES key.
func NewSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext.
func (s *Sealer) Seal(plaintext []byte) (ciphertext, nonce []byte) {
	nonce = common.GenerateRandByteArray(s.aead.NonceSize())
	ciphertext = s.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}
	return s.aead.Open(nil, nonce, ciphertext, nil)
}

func (s *Sealer) SealString(v string) (ciphertext, nonce []byte) {
	return s.Seal([]byte(v))
}

func (s *Sealer) OpenString(ciphertext, nonce []byte) (string, error) {
	b, err := s.Open(ciphertext, nonce)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
