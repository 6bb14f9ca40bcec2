package crypto

import "errors"

// Sentinel errors returned by the key vault and cipher. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyUnavailable is returned when the protected keystore cannot
	// produce a key. All dependent encrypt/decrypt calls fail closed; the
	// vault never substitutes a fallback key, since a different key on the
	// next launch would silently orphan every existing ciphertext.
	ErrKeyUnavailable = errors.New("encryption key unavailable")

	// ErrKeyEntryNotFound is returned by a [KeyStore] when no key entry
	// exists under the application tag. The vault turns this into fresh key
	// generation; other callers should treat it as "fresh install".
	ErrKeyEntryNotFound = errors.New("key entry not found")

	// ErrDecryptFailed is returned when ciphertext fails the authentication
	// check or is structurally malformed (e.g. shorter than the nonce).
	// It is distinct from "field absent": a nil blob decrypts to the empty
	// value without error, a corrupt blob returns this.
	ErrDecryptFailed = errors.New("decryption failed")

	// ErrKeySize is returned when a keystore entry does not hold exactly
	// 32 raw key bytes.
	ErrKeySize = errors.New("invalid key size")
)
