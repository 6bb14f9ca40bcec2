package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/models"
)

func newMockProfileRepo(t *testing.T) (*profileRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &profileRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestProfileRepository_GetAll_QueryError(t *testing.T) {
	repo, mock, db := newMockProfileRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM user_profiles").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.GetAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to query user profiles") {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}

func TestProfileRepository_Save_ExecError(t *testing.T) {
	repo, mock, db := newMockProfileRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_profiles").
		WillReturnError(errors.New("database is locked"))

	profile := models.UserProfile{ID: uuid.New(), StorageMode: models.DeviceOnly}
	err := repo.Save(context.Background(), profile)
	if err == nil || !strings.Contains(err.Error(), "failed to save user profile") {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
