package crypto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
)

func TestKeyVault_GeneratesOnce(t *testing.T) {
	vault := crypto.NewKeyVault(crypto.NewFileKeyStore(t.TempDir()), logger.Nop())

	first, err := vault.GetOrCreateKey()
	require.NoError(t, err)
	require.Len(t, first, crypto.KeySize)

	second, err := vault.GetOrCreateKey()
	require.NoError(t, err)
	assert.Equal(t, first, second, "sequential calls must return bit-identical keys")
}

func TestKeyVault_SurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()

	first, err := crypto.NewKeyVault(crypto.NewFileKeyStore(dir), logger.Nop()).GetOrCreateKey()
	require.NoError(t, err)

	// a second vault over the same keystore models a new process
	second, err := crypto.NewKeyVault(crypto.NewFileKeyStore(dir), logger.Nop()).GetOrCreateKey()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestKeyVault_FreshInstallGeneratesNewKey(t *testing.T) {
	first, err := crypto.NewKeyVault(crypto.NewFileKeyStore(t.TempDir()), logger.Nop()).GetOrCreateKey()
	require.NoError(t, err)

	second, err := crypto.NewKeyVault(crypto.NewFileKeyStore(t.TempDir()), logger.Nop()).GetOrCreateKey()
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "a cleared keystore must yield a different key")
}

type failingKeyStore struct{}

func (failingKeyStore) Read() ([]byte, error) { return nil, errors.New("keystore offline") }
func (failingKeyStore) Write([]byte) error    { return errors.New("keystore offline") }

func TestKeyVault_KeystoreUnavailable(t *testing.T) {
	vault := crypto.NewKeyVault(failingKeyStore{}, logger.Nop())

	_, err := vault.GetOrCreateKey()
	require.ErrorIs(t, err, crypto.ErrKeyUnavailable)

	// dependent cipher calls fail closed
	c := crypto.NewCipher(vault)
	_, err = c.EncryptString("anything")
	require.ErrorIs(t, err, crypto.ErrKeyUnavailable)
	_, err = c.DecryptString([]byte{1, 2, 3, 4})
	require.ErrorIs(t, err, crypto.ErrKeyUnavailable)
}

func TestFileKeyStore_WriteReplacesStaleEntry(t *testing.T) {
	store := crypto.NewFileKeyStore(t.TempDir())

	stale := make([]byte, crypto.KeySize)
	require.NoError(t, store.Write(stale))

	fresh := make([]byte, crypto.KeySize)
	fresh[0] = 0xAB
	require.NoError(t, store.Write(fresh))

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestFileKeyStore_ReadMissing(t *testing.T) {
	store := crypto.NewFileKeyStore(t.TempDir())

	_, err := store.Read()
	require.ErrorIs(t, err, crypto.ErrKeyEntryNotFound)
}

func TestFileKeyStore_RejectsWrongSize(t *testing.T) {
	store := crypto.NewFileKeyStore(t.TempDir())

	err := store.Write([]byte("short"))
	require.ErrorIs(t, err, crypto.ErrKeySize)
}
