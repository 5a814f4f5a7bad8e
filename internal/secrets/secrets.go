// Package secrets encrypts vendor API keys at rest. Ciphertexts are
// AES-256-GCM with a random nonce, base64-encoded, and carry a versioned
// prefix so stored values are self-identifying.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// encryptedPrefix identifies values produced by this codec.
const encryptedPrefix = "inkenc:v1:"

// ErrInvalidCiphertext is returned when a value cannot be decrypted: wrong
// prefix, corrupt payload, or a key mismatch.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Codec encrypts and decrypts short secrets with a key derived from the
// configured secret string.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key from secret via SHA-256 and prepares the
// AEAD. An empty secret is refused — running without one would silently
// store keys unprotected.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("secrets: empty secret key")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns a prefixed, base64-encoded
// ciphertext. Empty input returns empty output; already-encrypted values
// are returned unchanged rather than double-wrapped.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if IsEncrypted(plaintext) {
		return plaintext, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Empty input returns empty output.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	payload, ok := strings.CutPrefix(ciphertext, encryptedPrefix)
	if !ok {
		return "", ErrInvalidCiphertext
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrInvalidCiphertext
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plain), nil
}

// IsEncrypted reports whether value carries this codec's prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptedPrefix)
}
