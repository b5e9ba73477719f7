// Package payload provides the symmetric cipher for transfer payloads.
//
// Payloads are encrypted with a 256-bit AEAD: AES-GCM where hardware
// acceleration is available, ChaCha20-Poly1305 otherwise. A fresh 96-bit
// nonce is generated per encryption and prepended to the ciphertext, and
// both keys and ciphertexts are exchanged as standard base64 strings so
// they can live in ordinary string fields of the session record.
//
// This is at-rest confidentiality only: the key is stored alongside the
// ciphertext by the session protocol, so the store operator can decrypt.
package payload

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher parameters.
const (
	// KeySize is the symmetric key length in bytes (256 bits).
	KeySize = 32

	// NonceSize is the per-message nonce length in bytes (96 bits).
	NonceSize = 12
)

// Cipher errors.
var (
	// ErrInvalidKey indicates a key that is not valid base64 or not
	// KeySize bytes after decoding.
	ErrInvalidKey = errors.New("payload: invalid encryption key")

	// ErrDecryptionFailed indicates authentication failure (tampered or
	// wrong-key ciphertext) or a malformed ciphertext encoding.
	ErrDecryptionFailed = errors.New("payload: decryption failed")
)

// GenerateKey returns a fresh random 256-bit key, base64 encoded.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt seals plaintext under the given base64 key and returns
// base64(nonce || ciphertext || tag).
func Encrypt(plaintext, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns ErrDecryptionFailed for tampered,
// wrong-key, or malformed input; it never returns a silently wrong
// plaintext.
func Decrypt(ciphertext, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < NonceSize {
		return "", ErrDecryptionFailed
	}

	nonce, sealed := raw[:NonceSize], raw[NonceSize:]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// newAEAD decodes the key and constructs the platform-preferred AEAD.
func newAEAD(key string) (cipher.AEAD, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(raw) != KeySize {
		return nil, ErrInvalidKey
	}

	if hasAESAcceleration() {
		block, err := aes.NewCipher(raw)
		if err != nil {
			return nil, ErrInvalidKey
		}
		return cipher.NewGCM(block)
	}
	return chacha20poly1305.New(raw)
}

// hasAESAcceleration reports whether AES-GCM is hardware accelerated.
// Go's crypto/aes uses AES-NI on amd64 and the ARM crypto extensions on
// arm64; elsewhere ChaCha20-Poly1305 is the faster constant-time choice.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}
