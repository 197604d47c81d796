// Package services содержит логику входа администраторов школ и проверки их сессий.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/school-fees/internal/lib/jwt"
	"github.com/magabrotheeeer/school-fees/internal/lib/password"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/metrics"
	"github.com/magabrotheeeer/school-fees/internal/models"
	"github.com/magabrotheeeer/school-fees/internal/session"
)

// Значения метки result для metrics.Logins.
const (
	loginNotFound        = "not_found"
	loginInvalidPassword = "invalid_password"
)

// SchoolRepository описывает чтение учётных данных школы.
type SchoolRepository interface {
	// FindSchoolByEmail возвращает школу с точно совпадающим email администратора
	// или models.ErrSchoolNotFound.
	FindSchoolByEmail(ctx context.Context, email string) (*models.School, error)
}

// LoginResult установленная сессия и выданные токены.
type LoginResult struct {
	Session       session.Session
	Token         string
	RememberToken string
}

// AuthService отвечает за вход, восстановление входа, проверку и завершение сессий.
type AuthService struct {
	schools  SchoolRepository
	sessions *session.Store
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(schools SchoolRepository, sessions *session.Store, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		schools:  schools,
		sessions: sessions,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль администратора школы и открывает сессию.
// Нет школы с таким email -> models.ErrSchoolNotFound, пароль не совпал -> models.ErrInvalidPassword.
// При remember дополнительно выдаётся токен восстановления входа.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string, remember bool) (*LoginResult, error) {
	const op = "services.auth.Login"

	school, err := s.schools.FindSchoolByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrSchoolNotFound) {
			metrics.Logins.WithLabelValues(loginNotFound).Inc()
		} else {
			metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(school.PasswordHash, rawPassword); err != nil {
		metrics.Logins.WithLabelValues(loginInvalidPassword).Inc()
		s.log.Debug("password check failed", slog.String("op", op), sl.School(school.SchoolID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPassword)
	}

	res, err := s.open(school.SchoolID, school.Name, remember)
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.Logins.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("school admin logged in", slog.String("op", op), sl.School(school.SchoolID))
	return res, nil
}

// Restore открывает новую сессию по токену «запомнить меня» без ввода пароля.
func (s *AuthService) Restore(_ context.Context, rememberToken string) (*LoginResult, error) {
	const op = "services.auth.Restore"
	claims, err := s.jwtMaker.ParseRememberToken(rememberToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.open(claims.SchoolID, claims.SchoolName, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res.RememberToken = rememberToken
	return res, nil
}

func (s *AuthService) open(schoolID, schoolName string, remember bool) (*LoginResult, error) {
	sess := session.New(schoolID, schoolName, s.sessions.Now())
	token, err := s.jwtMaker.SessionToken(sess.ID, sess.LoginAt)
	if err != nil {
		return nil, err
	}
	res := &LoginResult{Session: sess, Token: token}
	if remember {
		res.RememberToken, err = s.jwtMaker.RememberToken(schoolID, schoolName)
		if err != nil {
			return nil, err
		}
	}
	s.sessions.Save(sess)
	return res, nil
}

// Authenticate проверяет токен сессии и возвращает действующую сессию.
// Просроченная сессия удаляется, и возвращается models.ErrSessionExpired.
func (s *AuthService) Authenticate(_ context.Context, token string) (session.Session, error) {
	const op = "services.auth.Authenticate"
	sid, err := s.jwtMaker.ParseSessionToken(token)
	if err != nil {
		return session.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	sess, err := s.sessions.Check(sid)
	if err != nil {
		return session.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// Logout завершает сессию. Повторный вызов и неизвестный токен не являются ошибкой.
func (s *AuthService) Logout(_ context.Context, token string) {
	sid, err := s.jwtMaker.ParseSessionToken(token)
	if err != nil {
		return
	}
	s.sessions.Delete(sid)
}
