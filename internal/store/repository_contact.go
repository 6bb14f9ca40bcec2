package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/models"
)

// contactRepository persists emergency contacts with every content field
// encrypted at the repository boundary.
type contactRepository struct {
	db     *DB
	cipher crypto.Cipher
	logger *logger.Logger
}

// NewContactRepository constructs a [ContactRepository] backed by the local
// SQLite database and the given cipher.
func NewContactRepository(db *DB, cipher crypto.Cipher, logger *logger.Logger) ContactRepository {
	logger.Debug().Msg("creating contact repository")
	return &contactRepository{
		db:     db,
		cipher: cipher,
		logger: logger,
	}
}

func (r *contactRepository) Save(ctx context.Context, contact models.EmergencyContact) error {
	log := logger.FromContext(ctx)

	sealed, err := r.encryptContact(contact)
	if err != nil {
		return fmt.Errorf("failed to encrypt emergency contact (id=%s): %w", contact.ID, err)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, upsertContact,
		contact.ID.String(),
		contact.ProfileID.String(),
		sealed.name,
		sealed.relationship,
		sealed.phoneNumber,
		sealed.email,
	); err != nil {
		log.Err(err).
			Str("func", "contactRepository.Save").
			Str("contact_id", contact.ID.String()).
			Msg("failed to execute upsert for emergency contact")
		return fmt.Errorf("failed to save emergency contact (id=%s): %w", contact.ID, err)
	}

	return nil
}

func (r *contactRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.EmergencyContact, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectContactsByProfile(profileID.String()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.GetByProfile").
			Str("profile_id", profileID.String()).
			Msg("failed to execute query for emergency contacts")
		return nil, fmt.Errorf("failed to query emergency contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.EmergencyContact
	for rows.Next() {
		contact, scanErr := r.scanContact(ctx, rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "contactRepository.GetByProfile").
				Msg("failed to scan emergency contact row")
			return nil, scanErr
		}
		contacts = append(contacts, contact)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating emergency contact rows: %w", rowsErr)
	}

	return contacts, nil
}

func (r *contactRepository) Update(ctx context.Context, contact models.EmergencyContact) error {
	return r.Save(ctx, contact)
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result, err := r.db.ExecContext(ctx, deleteContact, id.String())
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.Delete").
			Str("contact_id", id.String()).
			Msg("failed to execute delete for emergency contact")
		return fmt.Errorf("failed to delete emergency contact (id=%s): %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrContactNotFound
	}

	return nil
}

type sealedContact struct {
	name         []byte
	relationship []byte
	phoneNumber  []byte
	email        []byte
}

func (r *contactRepository) encryptContact(contact models.EmergencyContact) (sealedContact, error) {
	var (
		sealed sealedContact
		err    error
	)

	if sealed.name, err = r.cipher.EncryptString(contact.Name); err != nil {
		return sealedContact{}, err
	}
	if sealed.relationship, err = r.cipher.EncryptString(contact.Relationship); err != nil {
		return sealedContact{}, err
	}
	if sealed.phoneNumber, err = r.cipher.EncryptString(contact.PhoneNumber); err != nil {
		return sealedContact{}, err
	}
	if sealed.email, err = r.cipher.EncryptString(contact.Email); err != nil {
		return sealedContact{}, err
	}

	return sealed, nil
}

// scanContact reads one row. Each field that fails authentication degrades
// to empty (with a distinct log) rather than aborting the whole record: a
// half-readable contact is still worth showing.
func (r *contactRepository) scanContact(ctx context.Context, rows *sql.Rows) (models.EmergencyContact, error) {
	var (
		contact   models.EmergencyContact
		id        string
		profileID string
		sealed    sealedContact
	)

	if err := rows.Scan(&id, &profileID, &sealed.name, &sealed.relationship, &sealed.phoneNumber, &sealed.email); err != nil {
		return models.EmergencyContact{}, fmt.Errorf("failed to scan emergency contact row: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return models.EmergencyContact{}, fmt.Errorf("failed to parse emergency contact id: %w", err)
	}
	parsedProfileID, err := uuid.Parse(profileID)
	if err != nil {
		return models.EmergencyContact{}, fmt.Errorf("failed to parse emergency contact profile id: %w", err)
	}
	contact.ID = parsedID
	contact.ProfileID = parsedProfileID

	if contact.Name, err = r.openField(ctx, id, "name", sealed.name); err != nil {
		return models.EmergencyContact{}, err
	}
	if contact.Relationship, err = r.openField(ctx, id, "relationship", sealed.relationship); err != nil {
		return models.EmergencyContact{}, err
	}
	if contact.PhoneNumber, err = r.openField(ctx, id, "phone_number", sealed.phoneNumber); err != nil {
		return models.EmergencyContact{}, err
	}
	if contact.Email, err = r.openField(ctx, id, "email", sealed.email); err != nil {
		return models.EmergencyContact{}, err
	}

	return contact, nil
}

func (r *contactRepository) openField(ctx context.Context, contactID, field string, blob []byte) (string, error) {
	value, err := r.cipher.DecryptString(blob)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, crypto.ErrDecryptFailed) {
		logger.FromContext(ctx).Warn().
			Str("func", "contactRepository.openField").
			Str("contact_id", contactID).
			Str("field", field).
			Msg("contact field ciphertext failed authentication, treating as empty")
		return "", nil
	}
	return "", err
}
