// Package crypto owns confidentiality at rest for the companion data layer:
// a key vault over a protected device-bound keystore, and an authenticated
// (ChaCha20-Poly1305) cipher used by every component that persists sensitive
// fields.
//
// The vault resolves exactly one 256-bit key per device. Losing the keystore
// means losing access to every ciphertext, which is why key errors always
// fail closed and are never papered over with a fallback key.
package crypto
