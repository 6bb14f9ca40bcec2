package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/models"
)

type profileRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewProfileRepository constructs a [ProfileRepository] backed by the local
// SQLite database.
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) Save(ctx context.Context, profile models.UserProfile) error {
	log := logger.FromContext(ctx)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, err := r.db.ExecContext(ctx, upsertProfile,
		profile.ID.String(),
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Country,
		profile.MobileNumber,
		userTypeParam(profile.UserType),
		profile.ExpectedDeliveryDate,
		profile.BirthDate,
		string(profile.StorageMode),
		profile.PrivacyAcceptedAt,
		profile.NotificationsWanted,
		profile.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "profileRepository.Save").
			Str("profile_id", profile.ID.String()).
			Msg("failed to execute upsert for user profile")
		return fmt.Errorf("failed to save user profile (id=%s): %w", profile.ID, err)
	}

	return nil
}

func (r *profileRepository) GetMostRecent(ctx context.Context) (models.UserProfile, error) {
	profiles, err := r.getAll(ctx, 1)
	if err != nil {
		return models.UserProfile{}, err
	}
	if len(profiles) == 0 {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return profiles[0], nil
}

func (r *profileRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	return r.getAll(ctx, 0)
}

func (r *profileRepository) getAll(ctx context.Context, limit uint64) ([]models.UserProfile, error) {
	log := logger.FromContext(ctx)

	builder := selectProfiles()
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "profileRepository.getAll").
			Msg("failed to execute query for user profiles")
		return nil, fmt.Errorf("failed to query user profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		profile, scanErr := scanProfile(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "profileRepository.getAll").
				Msg("failed to scan user profile row")
			return nil, scanErr
		}
		profiles = append(profiles, profile)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating user profile rows: %w", rowsErr)
	}

	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile models.UserProfile) error {
	// upsert semantics make update and save the same statement; the caller
	// distinguishes them by intent only
	return r.Save(ctx, profile)
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result, err := r.db.ExecContext(ctx, deleteProfile, id.String())
	if err != nil {
		log.Err(err).
			Str("func", "profileRepository.Delete").
			Str("profile_id", id.String()).
			Msg("failed to execute delete for user profile")
		return fmt.Errorf("failed to delete user profile (id=%s): %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func userTypeParam(t *models.UserType) any {
	if t == nil {
		return nil
	}
	return string(*t)
}

// scanProfile reads one profile row, validating the persisted enum columns.
// Unknown enum values abort the read with [ErrInvalidStoredEnum] instead of
// silently defaulting.
func scanProfile(rows *sql.Rows) (models.UserProfile, error) {
	var (
		profile      models.UserProfile
		id           string
		userType     sql.NullString
		edd          sql.NullTime
		birthDate    sql.NullTime
		storageMode  string
		privacyAt    sql.NullTime
		createdAt    time.Time
	)

	if err := rows.Scan(
		&id,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.Country,
		&profile.MobileNumber,
		&userType,
		&edd,
		&birthDate,
		&storageMode,
		&privacyAt,
		&profile.NotificationsWanted,
		&createdAt,
	); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to scan user profile row: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse user profile id: %w", err)
	}
	profile.ID = parsedID
	profile.CreatedAt = createdAt

	if userType.Valid {
		t := models.UserType(userType.String)
		if !t.Valid() {
			return models.UserProfile{}, fmt.Errorf("%w: user_type=%q", ErrInvalidStoredEnum, userType.String)
		}
		profile.UserType = &t
	}

	mode := models.StorageMode(storageMode)
	if !mode.Valid() {
		return models.UserProfile{}, fmt.Errorf("%w: storage_mode=%q", ErrInvalidStoredEnum, storageMode)
	}
	profile.StorageMode = mode

	if edd.Valid {
		t := edd.Time
		profile.ExpectedDeliveryDate = &t
	}
	if birthDate.Valid {
		t := birthDate.Time
		profile.BirthDate = &t
	}
	if privacyAt.Valid {
		t := privacyAt.Time
		profile.PrivacyAcceptedAt = &t
	}

	return profile, nil
}
