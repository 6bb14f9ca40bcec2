package legacy_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/legacy"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/models"
)

func newReaderFixture(t *testing.T) (*legacy.Reader, *prefs.Store, crypto.Cipher) {
	t.Helper()

	store, err := prefs.NewStore(prefs.InMemory)
	require.NoError(t, err)

	vault := crypto.NewKeyVault(crypto.NewFileKeyStore(t.TempDir()), logger.Nop())
	cipher := crypto.NewCipher(vault)

	return legacy.NewReader(store, cipher, logger.Nop()), store, cipher
}

func sealJSON(t *testing.T, c crypto.Cipher, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	blob, err := c.Encrypt(payload)
	require.NoError(t, err)
	return blob
}

func TestReader_ReadUser(t *testing.T) {
	reader, store, cipher := newReaderFixture(t)

	userType := models.Pregnant
	edd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	legacyUser := models.LegacyUser{
		ID:          uuid.New(),
		FirstName:   "Amara",
		UserType:    &userType,
		StorageMode: models.DeviceOnly,
		ExpectedDeliveryDate: &edd,
		EmergencyContacts: []models.LegacyContact{
			{ID: uuid.New(), Name: "Ngozi", Relationship: "sister", PhoneNumber: "+44 7000 000000"},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SetData(prefs.KeyLegacyUser, sealJSON(t, cipher, legacyUser)))

	got, err := reader.ReadUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Amara", got.FirstName)
	require.NotNil(t, got.UserType)
	assert.Equal(t, models.Pregnant, *got.UserType)
	require.Len(t, got.EmergencyContacts, 1)
	assert.Equal(t, "Ngozi", got.EmergencyContacts[0].Name)
}

func TestReader_ReadMoodCheckIns(t *testing.T) {
	reader, store, cipher := newReaderFixture(t)

	checkIns := []models.LegacyMoodCheckIn{
		{ID: uuid.New(), Date: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), Mood: models.MoodOkay},
	}
	require.NoError(t, store.SetData(prefs.KeyLegacyMoodCheckIns, sealJSON(t, cipher, checkIns)))

	got, err := reader.ReadMoodCheckIns(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.MoodOkay, got[0].Mood)
}

func TestReader_MissingBlobs(t *testing.T) {
	reader, _, _ := newReaderFixture(t)

	assert.False(t, reader.HasUser())
	assert.False(t, reader.HasMoodCheckIns())

	_, err := reader.ReadUser(context.Background())
	require.ErrorIs(t, err, legacy.ErrNoLegacyData)
	_, err = reader.ReadMoodCheckIns(context.Background())
	require.ErrorIs(t, err, legacy.ErrNoLegacyData)
}

func TestReader_CorruptBlob(t *testing.T) {
	reader, store, _ := newReaderFixture(t)

	require.NoError(t, store.SetData(prefs.KeyLegacyUser, []byte("not a sealed blob at all")))

	_, err := reader.ReadUser(context.Background())
	require.ErrorIs(t, err, crypto.ErrDecryptFailed)
}

func TestReader_UnknownEnumIsDecodeFailure(t *testing.T) {
	reader, store, cipher := newReaderFixture(t)

	raw := []byte(`[{"id":"` + uuid.NewString() + `","date":"2025-01-02T09:00:00Z","mood":"ecstatic"}]`)
	blob, err := cipher.Encrypt(raw)
	require.NoError(t, err)
	require.NoError(t, store.SetData(prefs.KeyLegacyMoodCheckIns, blob))

	_, err = reader.ReadMoodCheckIns(context.Background())
	require.ErrorIs(t, err, legacy.ErrDecodeFailed)
}
