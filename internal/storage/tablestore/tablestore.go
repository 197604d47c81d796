// Package tablestore реализует репозиторий школ и записей об оплате поверх
// внешнего табличного хранилища. Все чтения идут через формулу точного
// совпадения поля, все записи изменяют ровно одну запись по её идентификатору.
package tablestore

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/school-fees/internal/airtable"
	"github.com/magabrotheeeer/school-fees/internal/config"
	"github.com/magabrotheeeer/school-fees/internal/fees"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Client операции хранилища, которыми пользуется репозиторий.
type Client interface {
	List(ctx context.Context, table, formula string) ([]airtable.Record, error)
	Update(ctx context.Context, table, recordID string, fields map[string]any) (*airtable.Record, error)
}

// Storage репозиторий над двумя таблицами: школ и записей об оплате.
type Storage struct {
	client       Client
	schoolsTable string
	feesTable    string
}

// New создаёт репозиторий с указанными таблицами.
func New(client Client, schoolsTable, feesTable string) *Storage {
	return &Storage{
		client:       client,
		schoolsTable: schoolsTable,
		feesTable:    feesTable,
	}
}

// NewFromConfig создаёт клиент хранилища и репозиторий по настройкам.
func NewFromConfig(cfg config.Store) *Storage {
	client := airtable.NewClient(cfg.StoreURL, cfg.APIKey, cfg.BaseID, cfg.StoreTimeout)
	return New(client, cfg.SchoolsTable, cfg.FeesTable)
}

// FindSchoolByEmail возвращает школу, у которой admin_email точно равен email.
func (s *Storage) FindSchoolByEmail(ctx context.Context, email string) (*models.School, error) {
	const op = "storage.FindSchoolByEmail"
	school, err := s.findSchool(ctx, models.FieldAdminEmail, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return school, nil
}

// FindSchoolByID возвращает школу по её коду.
func (s *Storage) FindSchoolByID(ctx context.Context, schoolID string) (*models.School, error) {
	const op = "storage.FindSchoolByID"
	school, err := s.findSchool(ctx, models.FieldSchoolID, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return school, nil
}

func (s *Storage) findSchool(ctx context.Context, field, value string) (*models.School, error) {
	records, err := s.client.List(ctx, s.schoolsTable, airtable.FieldEquals(field, value))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.ErrSchoolNotFound
	}
	rec := records[0]
	return &models.School{
		RecordID:     rec.ID,
		SchoolID:     fees.Text(rec.Fields.Get(models.FieldSchoolID)),
		Name:         fees.Text(rec.Fields.Get(models.FieldSchoolName)),
		AdminEmail:   fees.Text(rec.Fields.Get(models.FieldAdminEmail)),
		PasswordHash: fees.Text(rec.Fields.Get(models.FieldAdminPassword)),
	}, nil
}

// SetSchoolPassword перезаписывает хэш пароля одной школы.
func (s *Storage) SetSchoolPassword(ctx context.Context, recordID, hash string) error {
	const op = "storage.SetSchoolPassword"
	_, err := s.client.Update(ctx, s.schoolsTable, recordID, map[string]any{
		models.FieldAdminPassword: hash,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListFees возвращает все нормализованные записи об оплате школы.
func (s *Storage) ListFees(ctx context.Context, schoolID string) ([]models.FeeRecord, error) {
	const op = "storage.ListFees"
	records, err := s.client.List(ctx, s.feesTable, airtable.FieldEquals(models.FieldSchoolID, schoolID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fees.NormalizeAll(records), nil
}

// UpdateFee записывает поля одной записи об оплате.
func (s *Storage) UpdateFee(ctx context.Context, recordID string, fields map[string]any) error {
	const op = "storage.UpdateFee"
	if _, err := s.client.Update(ctx, s.feesTable, recordID, fields); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
