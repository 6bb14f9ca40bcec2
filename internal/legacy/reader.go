// Package legacy is the read-only accessor for the pre-migration flat-store
// records: two encrypted whole-record blobs under well-known settings keys.
// Nothing in this package ever writes or deletes a blob; after a successful
// migration the blobs remain in place as a backup copy.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/models"
)

var (
	// ErrNoLegacyData is returned when the requested flat-store blob does
	// not exist. Distinct from a blob that exists but cannot be read.
	ErrNoLegacyData = errors.New("no legacy data")

	// ErrDecodeFailed is returned when a decrypted blob does not match the
	// expected legacy record shape. The blob itself is left untouched.
	ErrDecodeFailed = errors.New("legacy record decode failed")
)

// Reader decrypts and decodes the legacy flat-store records.
type Reader struct {
	prefs  *prefs.Store
	cipher crypto.Cipher
	logger *logger.Logger
}

// NewReader constructs a [Reader] over the app-settings store and cipher.
func NewReader(prefsStore *prefs.Store, cipher crypto.Cipher, logger *logger.Logger) *Reader {
	return &Reader{prefs: prefsStore, cipher: cipher, logger: logger}
}

// HasUser reports whether the legacy user blob exists. Pure existence probe;
// no decryption happens.
func (r *Reader) HasUser() bool {
	return r.prefs.HasData(prefs.KeyLegacyUser)
}

// HasMoodCheckIns reports whether the legacy mood blob exists.
func (r *Reader) HasMoodCheckIns() bool {
	return r.prefs.HasData(prefs.KeyLegacyMoodCheckIns)
}

// ReadUser decrypts and decodes the legacy user record, embedded contacts
// included.
func (r *Reader) ReadUser(ctx context.Context) (models.LegacyUser, error) {
	log := logger.FromContext(ctx)

	blob, ok := r.prefs.GetData(prefs.KeyLegacyUser)
	if !ok {
		return models.LegacyUser{}, ErrNoLegacyData
	}

	plaintext, err := r.cipher.Decrypt(blob)
	if err != nil {
		log.Err(err).Str("func", "legacy.Reader.ReadUser").Msg("failed to decrypt legacy user blob")
		return models.LegacyUser{}, fmt.Errorf("decrypt legacy user blob: %w", err)
	}

	var user models.LegacyUser
	if err := json.Unmarshal(plaintext, &user); err != nil {
		log.Err(err).Str("func", "legacy.Reader.ReadUser").Msg("failed to decode legacy user record")
		return models.LegacyUser{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return user, nil
}

// ReadMoodCheckIns decrypts and decodes the legacy mood check-in array.
func (r *Reader) ReadMoodCheckIns(ctx context.Context) ([]models.LegacyMoodCheckIn, error) {
	log := logger.FromContext(ctx)

	blob, ok := r.prefs.GetData(prefs.KeyLegacyMoodCheckIns)
	if !ok {
		return nil, ErrNoLegacyData
	}

	plaintext, err := r.cipher.Decrypt(blob)
	if err != nil {
		log.Err(err).Str("func", "legacy.Reader.ReadMoodCheckIns").Msg("failed to decrypt legacy mood blob")
		return nil, fmt.Errorf("decrypt legacy mood blob: %w", err)
	}

	var checkIns []models.LegacyMoodCheckIn
	if err := json.Unmarshal(plaintext, &checkIns); err != nil {
		log.Err(err).Str("func", "legacy.Reader.ReadMoodCheckIns").Msg("failed to decode legacy mood records")
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return checkIns, nil
}
