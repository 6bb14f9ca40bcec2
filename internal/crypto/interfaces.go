package crypto

// KeyStore is the protected, device-bound secret store backing the key
// vault. It holds at most one entry under a fixed application-scoped tag.
type KeyStore interface {
	// Read returns the stored key bytes, or [ErrKeyEntryNotFound] when no
	// entry exists under the application tag.
	Read() ([]byte, error)

	// Write persists key under the application tag. Any stale entry is
	// deleted before the new one is written, so the store never holds two
	// entries for the same tag.
	Write(key []byte) error
}

// Cipher is the authenticated-encryption service used by every component
// that stores sensitive fields. It is stateless given the vault key.
type Cipher interface {
	// Encrypt seals plaintext with the vault key. The returned blob is
	// nonce ‖ ciphertext. Fails with [ErrKeyUnavailable] when no key can be
	// resolved.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt. Returns [ErrDecryptFailed]
	// on authentication failure or a malformed blob, [ErrKeyUnavailable]
	// when no key can be resolved.
	Decrypt(blob []byte) ([]byte, error)

	// EncryptString seals a UTF-8 string. The empty string produces no
	// ciphertext: the result is a nil blob and a nil error ("field is nil").
	EncryptString(plaintext string) ([]byte, error)

	// DecryptString opens a blob into a UTF-8 string. A nil or empty blob
	// is "field absent" and yields ("", nil); a corrupt blob yields
	// [ErrDecryptFailed] so callers can tell absent from corrupt.
	DecryptString(blob []byte) (string, error)
}
