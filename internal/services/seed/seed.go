// Package services реализует разовую установку пароля администраторам школ.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/school-fees/internal/lib/password"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// SchoolRepository поиск школы по коду и перезапись хэша пароля.
type SchoolRepository interface {
	FindSchoolByID(ctx context.Context, schoolID string) (*models.School, error)
	SetSchoolPassword(ctx context.Context, recordID, hash string) error
}

// Result итог установки пароля одной школе.
type Result struct {
	SchoolID string
	Err      error
}

// OK сообщает об успешной установке.
func (r Result) OK() bool { return r.Err == nil }

// Seeder устанавливает один и тот же пароль списку школ.
type Seeder struct {
	schools SchoolRepository
	log     *slog.Logger
	hash    func(string) (string, error)
}

// NewSeeder создаёт Seeder.
func NewSeeder(schools SchoolRepository, log *slog.Logger) *Seeder {
	return &Seeder{schools: schools, log: log, hash: password.GetHash}
}

// Seed хэширует plaintext один раз и записывает хэш каждой школе из schoolIDs.
// Школы обрабатываются независимо: ошибка одной не отменяет остальные и не откатывает уже записанные.
func (s *Seeder) Seed(ctx context.Context, schoolIDs []string, plaintext string) ([]Result, error) {
	const op = "services.seed.Seed"
	if plaintext == "" {
		return nil, fmt.Errorf("%s: empty password", op)
	}
	hash, err := s.hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := make([]Result, 0, len(schoolIDs))
	for _, id := range schoolIDs {
		err := s.seedOne(ctx, id, hash)
		if err != nil {
			s.log.Error("failed to set school password", sl.School(id), sl.Err(err))
		} else {
			s.log.Info("school password updated", sl.School(id))
		}
		results = append(results, Result{SchoolID: id, Err: err})
	}
	return results, nil
}

func (s *Seeder) seedOne(ctx context.Context, schoolID, hash string) error {
	school, err := s.schools.FindSchoolByID(ctx, schoolID)
	if err != nil {
		return err
	}
	return s.schools.SetSchoolPassword(ctx, school.RecordID, hash)
}
