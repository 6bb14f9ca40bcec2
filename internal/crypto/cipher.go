package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// cipherService is the private implementation of [Cipher]. It resolves the
// key through the vault on every call, which after the first call is a
// cached in-memory read.
//
// Blob layout: nonce (12 bytes) ‖ ciphertext. The nonce is prepended so the
// decryption side can split it out without any side channel.
type cipherService struct {
	vault *KeyVault
}

// NewCipher constructs a [Cipher] over the given vault.
func NewCipher(vault *KeyVault) Cipher {
	return &cipherService{vault: vault}
}

// Encrypt implements [Cipher] using ChaCha20-Poly1305 with a random nonce.
func (c *cipherService) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// Decrypt implements [Cipher]. The blob must be at least as long as the
// nonce. An authentication-tag mismatch means the blob was produced under a
// different key or tampered with; both map to [ErrDecryptFailed].
func (c *cipherService) Decrypt(blob []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(blob) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptFailed)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return plaintext, nil
}

// EncryptString implements [Cipher]. The empty string is "nothing to store":
// no ciphertext is produced and the field stays nil.
func (c *cipherService) EncryptString(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, nil
	}
	return c.Encrypt([]byte(plaintext))
}

// DecryptString implements [Cipher]. A nil or empty blob is "field absent"
// and decrypts to the empty string without error.
func (c *cipherService) DecryptString(blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", nil
	}

	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func (c *cipherService) aead() (cipher.AEAD, error) {
	key, err := c.vault.GetOrCreateKey()
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create aead: %w", err)
	}

	return aead, nil
}
