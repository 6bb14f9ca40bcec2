package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/config"
	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/store"
	"github.com/mamacare/companion/models"
)

// ─────────────────────────────────────────────
// Fake: RemoteStore
// ─────────────────────────────────────────────

type fakeRemote struct {
	token    string
	ownerKey string

	signUpErr error
	signInErr error

	fetchedProfile models.UserProfile
	fetchErr       error

	created      []models.UserProfile
	createErr    error
	appended     []models.MoodEntry
	appendErr    error
	listEntries  []models.MoodEntry
	listErr      error
	listCalls    int
	deleteCalls  int
	deleteAllErr error
}

func (f *fakeRemote) SetToken(token string) { f.token = token }
func (f *fakeRemote) Token() string         { return f.token }

func (f *fakeRemote) SignUp(_ context.Context, _, _ string) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	f.token = "token"
	return f.ownerKey, nil
}

func (f *fakeRemote) SignIn(_ context.Context, _, _ string) (string, error) {
	if f.signInErr != nil {
		return "", f.signInErr
	}
	f.token = "token"
	return f.ownerKey, nil
}

func (f *fakeRemote) Restore(token string) (string, error) {
	f.token = token
	return f.ownerKey, nil
}

func (f *fakeRemote) CreateProfile(_ context.Context, profile models.UserProfile, _ string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, profile)
	return nil
}

func (f *fakeRemote) FetchProfile(_ context.Context, ownerKey string) (models.UserProfile, error) {
	if f.fetchErr != nil {
		return models.UserProfile{}, f.fetchErr
	}
	return f.fetchedProfile, nil
}

func (f *fakeRemote) DeleteAllData(_ context.Context, _ string) error {
	f.deleteCalls++
	return f.deleteAllErr
}

func (f *fakeRemote) AppendMoodEntry(_ context.Context, entry models.MoodEntry, _ string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeRemote) ListMoodEntries(_ context.Context, _ string) ([]models.MoodEntry, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listEntries, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type svcFixture struct {
	services *Services
	remote   *fakeRemote
	storages *store.Storages
	prefs    *prefs.Store
}

func newSvcFixture(t *testing.T) svcFixture {
	t.Helper()

	l := logger.Nop()

	db, err := store.NewConnectSQLite(context.Background(), config.DB{DSN: ":memory:"}, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	cipher := crypto.NewCipher(crypto.NewKeyVault(crypto.NewFileKeyStore(t.TempDir()), l))
	storages := &store.Storages{
		Profiles: store.NewProfileRepository(db, l),
		Moods:    store.NewMoodEntryRepository(db, cipher, l),
		Contacts: store.NewContactRepository(db, cipher, l),
	}

	prefsStore, err := prefs.NewStore(prefs.InMemory)
	require.NoError(t, err)

	remote := &fakeRemote{ownerKey: "owner-1"}

	return svcFixture{
		services: NewServices(storages, remote, prefsStore, l),
		remote:   remote,
		storages: storages,
		prefs:    prefsStore,
	}
}

func cloudProfile() models.UserProfile {
	pregnant := models.Pregnant
	return models.UserProfile{
		ID:          uuid.New(),
		FirstName:   "Amara",
		Email:       "amara@example.com",
		UserType:    &pregnant,
		StorageMode: models.Cloud,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func deviceProfile() models.UserProfile {
	profile := cloudProfile()
	profile.StorageMode = models.DeviceOnly
	return profile
}

// ─────────────────────────────────────────────
// CompleteOnboarding
// ─────────────────────────────────────────────

func TestCompleteOnboarding_CloudWritesRemoteOnly(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	sess, err := f.services.Session.CompleteOnboarding(ctx, cloudProfile(), "s3cret", models.Cloud, true)
	require.NoError(t, err)

	assert.Equal(t, AuthorityRemote, sess.Authority)
	assert.Equal(t, "owner-1", sess.OwnerKey)
	require.Len(t, f.remote.created, 1)

	// No local row in cloud mode.
	_, err = f.storages.Profiles.GetMostRecent(ctx)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	assert.True(t, f.prefs.GetBool(prefs.KeyLoggedIn))
	assert.True(t, f.prefs.GetBool(prefs.KeyOnboardingDone))
}

func TestCompleteOnboarding_DeviceOnlyWritesLocalOnly(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	sess, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	assert.Equal(t, AuthorityLocal, sess.Authority)
	assert.Empty(t, f.remote.created)

	local, err := f.storages.Profiles.GetMostRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Amara", local.FirstName)
	assert.Equal(t, models.DeviceOnly, local.StorageMode)
}

func TestCompleteOnboarding_SignUpFailureIsFatal(t *testing.T) {
	f := newSvcFixture(t)
	f.remote.signUpErr = errors.New("email already registered")

	_, err := f.services.Session.CompleteOnboarding(context.Background(), cloudProfile(), "s3cret", models.Cloud, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignUpOnRemote)
	assert.Empty(t, f.remote.created)
}

func TestCompleteOnboarding_ProfileWriteFailureLeavesIdentityOrphaned(t *testing.T) {
	f := newSvcFixture(t)
	f.remote.createErr = errors.New("quota exceeded")

	_, err := f.services.Session.CompleteOnboarding(context.Background(), cloudProfile(), "s3cret", models.Cloud, true)
	require.Error(t, err)

	var orphaned *OrphanedIdentityError
	require.ErrorAs(t, err, &orphaned)
	assert.Equal(t, "owner-1", orphaned.OwnerKey)
}

// ─────────────────────────────────────────────
// Resume
// ─────────────────────────────────────────────

func TestResume_RemoteProfileWins(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	profile := cloudProfile()
	cloudMood := models.MoodEntry{ID: uuid.New(), Date: time.Now(), Mood: models.MoodGood}
	f.remote.fetchedProfile = profile
	f.remote.listEntries = []models.MoodEntry{cloudMood}

	sess, err := f.services.Session.Resume(ctx, "amara@example.com", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, AuthorityRemote, sess.Authority)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, profile.ID, sess.Profile.ID)
	require.Len(t, sess.Moods, 1)
	assert.Equal(t, cloudMood.ID, sess.Moods[0].ID)

	// Best-effort local cache write happened.
	cached, err := f.storages.Profiles.GetMostRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, cached.ID)
}

func TestResume_NotFoundFallsBackToLocal(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	local := deviceProfile()
	require.NoError(t, f.storages.Profiles.Save(ctx, local))
	note := "kick counted"
	require.NoError(t, f.storages.Moods.Save(ctx, models.MoodEntry{
		ID: uuid.New(), ProfileID: local.ID, Date: time.Now(), Mood: models.MoodOkay, Notes: &note,
	}))

	f.remote.fetchErr = adapter.ErrProfileNotFound

	sess, err := f.services.Session.Resume(ctx, "amara@example.com", "s3cret")
	require.NoError(t, err)

	// Not-found is not success-with-remote-authority.
	assert.Equal(t, AuthorityLocal, sess.Authority)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, local.ID, sess.Profile.ID)
	require.Len(t, sess.Moods, 1)
	assert.Equal(t, "kick counted", *sess.Moods[0].Notes)

	// The remote mood listing was never contacted.
	assert.Zero(t, f.remote.listCalls)
}

func TestResume_TransportFailureFallsBackToLocal(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	local := deviceProfile()
	require.NoError(t, f.storages.Profiles.Save(ctx, local))
	f.remote.fetchErr = errors.New("connection refused")

	sess, err := f.services.Session.Resume(ctx, "amara@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, AuthorityLocal, sess.Authority)
}

func TestResume_NoDataAnywhereIsLoggedInWithoutAuthority(t *testing.T) {
	f := newSvcFixture(t)
	f.remote.fetchErr = adapter.ErrProfileNotFound

	sess, err := f.services.Session.Resume(context.Background(), "amara@example.com", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, AuthorityNone, sess.Authority)
	assert.True(t, sess.LoggedIn)
	assert.Nil(t, sess.Profile)
	assert.True(t, f.prefs.GetBool(prefs.KeyLoggedIn))
	assert.False(t, f.prefs.GetBool(prefs.KeyOnboardingDone))
}

func TestResume_RejectedCredentials(t *testing.T) {
	f := newSvcFixture(t)
	f.remote.signInErr = adapter.ErrUnauthorized

	_, err := f.services.Session.Resume(context.Background(), "amara@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignInOnRemote)

	_, ok := f.services.Session.Current()
	assert.False(t, ok)
}

func TestResumeWithToken_ReconcilesLikeResume(t *testing.T) {
	f := newSvcFixture(t)
	f.remote.fetchedProfile = cloudProfile()

	sess, err := f.services.Session.ResumeWithToken(context.Background(), "bearer-token")
	require.NoError(t, err)
	assert.Equal(t, AuthorityRemote, sess.Authority)
	assert.Equal(t, "bearer-token", f.remote.token)
}

// ─────────────────────────────────────────────
// MoodService
// ─────────────────────────────────────────────

func TestAddCheckIn_NoSession(t *testing.T) {
	f := newSvcFixture(t)

	_, err := f.services.Moods.AddCheckIn(context.Background(), models.MoodGood, nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAddCheckIn_CloudGoesRemoteOnly(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, cloudProfile(), "s3cret", models.Cloud, true)
	require.NoError(t, err)

	entry, err := f.services.Moods.AddCheckIn(ctx, models.MoodGood, nil)
	require.NoError(t, err)

	require.Len(t, f.remote.appended, 1)
	assert.Equal(t, entry.ID, f.remote.appended[0].ID)

	// Nothing written locally in cloud mode.
	sess, _ := f.services.Session.Current()
	localMoods, err := f.storages.Moods.GetByProfile(ctx, sess.Profile.ID)
	require.NoError(t, err)
	assert.Empty(t, localMoods)
}

func TestAddCheckIn_DeviceOnlyBulkOverwritesLocally(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	note := "first"
	first, err := f.services.Moods.AddCheckIn(ctx, models.MoodOkay, &note)
	require.NoError(t, err)
	second, err := f.services.Moods.AddCheckIn(ctx, models.MoodGood, nil)
	require.NoError(t, err)

	assert.Empty(t, f.remote.appended)

	sess, _ := f.services.Session.Current()
	require.Len(t, sess.Moods, 2)
	assert.Equal(t, second.ID, sess.Moods[0].ID)
	assert.Equal(t, first.ID, sess.Moods[1].ID)

	localMoods, err := f.storages.Moods.GetByProfile(ctx, sess.Profile.ID)
	require.NoError(t, err)
	assert.Len(t, localMoods, 2)
}

func TestRefreshFromCloud_OnlyForRemoteAuthority(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	require.NoError(t, f.services.Moods.RefreshFromCloud(ctx))
	assert.Zero(t, f.remote.listCalls)
}

func TestRefreshFromCloud_ReplacesSessionHistory(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	f.remote.fetchedProfile = cloudProfile()
	_, err := f.services.Session.Resume(ctx, "amara@example.com", "s3cret")
	require.NoError(t, err)

	refreshed := models.MoodEntry{ID: uuid.New(), Date: time.Now(), Mood: models.MoodNotGood}
	f.remote.listEntries = []models.MoodEntry{refreshed}

	require.NoError(t, f.services.Moods.RefreshFromCloud(ctx))

	history, err := f.services.Moods.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, refreshed.ID, history[0].ID)
}

// ─────────────────────────────────────────────
// ProfileService
// ─────────────────────────────────────────────

func TestProfileService_ContactsAreLocalOnly(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	contact := models.EmergencyContact{ID: uuid.New(), Name: "Chidi", PhoneNumber: "+2348098765432"}
	require.NoError(t, f.services.Profile.AddContact(ctx, contact))

	contacts, err := f.services.Profile.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Chidi", contacts[0].Name)

	contact.Name = "Chidi Okafor"
	require.NoError(t, f.services.Profile.UpdateContact(ctx, contact))
	require.NoError(t, f.services.Profile.DeleteContact(ctx, contact))

	contacts, err = f.services.Profile.Contacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestDeleteAccount_RemoteThenLocal(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	require.NoError(t, f.services.Profile.DeleteAccount(ctx))

	assert.Equal(t, 1, f.remote.deleteCalls)
	_, err = f.storages.Profiles.GetMostRecent(ctx)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
	assert.False(t, f.prefs.GetBool(prefs.KeyLoggedIn))

	_, ok := f.services.Session.Current()
	assert.False(t, ok)
}

func TestDeleteAccount_RemoteFailureAbortsBeforeLocal(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)
	f.remote.deleteAllErr = errors.New("gateway timeout")

	err = f.services.Profile.DeleteAccount(ctx)
	require.Error(t, err)

	// Local rows survive so the whole operation can be retried.
	_, err = f.storages.Profiles.GetMostRecent(ctx)
	require.NoError(t, err)
	_, ok := f.services.Session.Current()
	assert.True(t, ok)
}

func TestLogout_KeepsLocalData(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.services.Session.CompleteOnboarding(ctx, deviceProfile(), "s3cret", models.DeviceOnly, false)
	require.NoError(t, err)

	require.NoError(t, f.services.Profile.Logout(ctx))

	assert.False(t, f.prefs.GetBool(prefs.KeyLoggedIn))
	assert.Empty(t, f.remote.token)
	_, ok := f.services.Session.Current()
	assert.False(t, ok)

	_, err = f.storages.Profiles.GetMostRecent(ctx)
	require.NoError(t, err)
}
