package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// Cipher encrypts and decrypts field content.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// PassphraseCipher is a Cipher keyed by a password.
// The key is the SHA-256 digest of the password, so the same password always
// yields the same key on every machine.
type PassphraseCipher struct {
	key [keySize]byte
}

// NewPassphraseCipher derives a secretbox key from password.
func NewPassphraseCipher(password string) *PassphraseCipher {
	return &PassphraseCipher{key: sha256.Sum256([]byte(password))}
}

// NewKeyCipher returns a cipher using a raw 32-byte key.
func NewKeyCipher(symKey []byte) (*PassphraseCipher, error) {
	if len(symKey) != keySize {
		return nil, fmt.Errorf("invalid symmetric key length: expected %d bytes, got %d bytes", keySize, len(symKey))
	}
	c := &PassphraseCipher{}
	copy(c.key[:], symKey)
	return c, nil
}

// Encrypt seals plaintext and returns base64(nonce || box).
// An empty plaintext encrypts to an empty string.
func (c *PassphraseCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("%w: generating nonce: %v", kerrors.ErrEncryptFailed, err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	encoded := base64.StdEncoding.EncodeToString(sealed)
	if encoded == "" {
		return "", fmt.Errorf("%w: encrypted content is empty", kerrors.ErrEncryptFailed)
	}

	return encoded, nil
}

// Decrypt reverses Encrypt. An empty ciphertext decrypts to an empty string.
func (c *PassphraseCipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", kerrors.ErrDecryptFailed, err)
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("%w: ciphertext too short", kerrors.ErrDecryptFailed)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", fmt.Errorf("%w: wrong password or corrupt ciphertext", kerrors.ErrDecryptFailed)
	}
	if len(plaintext) == 0 {
		return "", fmt.Errorf("%w: decrypted content is empty", kerrors.ErrDecryptFailed)
	}

	return string(plaintext), nil
}
