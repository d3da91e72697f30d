// Package envelope encrypts issued tokens at rest for offline admin
// distribution. An envelope is the URL-safe base64 encoding of
// nonce || ciphertext, produced with AES-256-GCM and a fresh random nonce
// per call. The envelope carries no expiry of its own; freshness is bounded
// only by the embedded token's exp, which callers must re-verify.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const keyLen = 32

var (
	// ErrKeyTooShort is returned when the supplied key is shorter than the
	// 32 bytes AES-256 requires. Longer keys are truncated to 32 bytes.
	ErrKeyTooShort = errors.New("encryption key must be at least 32 bytes")

	// ErrDecryptFailed is returned when an envelope cannot be opened:
	// tampered ciphertext, wrong key, or malformed encoding.
	ErrDecryptFailed = errors.New("decrypt envelope")
)

// Cipher seals tokens into envelopes under a fixed key.
type Cipher struct {
	key []byte
}

// NewCipher creates a cipher from the given key string. Only the first 32
// bytes are used.
func NewCipher(key string) (*Cipher, error) {
	if len(key) < keyLen {
		return nil, ErrKeyTooShort
	}
	return &Cipher{key: []byte(key)[:keyLen]}, nil
}

// GenerateKey returns a new random key, base64-encoded. Intended for the
// degraded single-instance mode where no ENCRYPTION_KEY is configured: other
// instances will not hold this key, so envelopes sealed with it cannot be
// decrypted elsewhere.
func GenerateKey() (string, error) {
	raw := make([]byte, keyLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate encryption key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// Encrypt seals the plaintext token into an envelope. A fresh random nonce is
// generated on every call and prepended to the ciphertext before encoding.
func (c *Cipher) Encrypt(token string) (string, error) {
	gcm, err := newGCM(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(token), nil)
	return base64.URLEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt opens an envelope with an explicitly supplied key and returns the
// plaintext token. Success does not imply the token is unexpired; callers
// needing a freshness or identity guarantee must re-verify the result.
func Decrypt(envelope, key string) (string, error) {
	if len(key) < keyLen {
		return "", ErrKeyTooShort
	}

	gcm, err := newGCM([]byte(key)[:keyLen])
	if err != nil {
		return "", err
	}

	raw, err := base64.URLEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("%w: envelope too short", ErrDecryptFailed)
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}
