package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/school-fees/internal/lib/jwt"
	"github.com/magabrotheeeer/school-fees/internal/lib/password"
	"github.com/magabrotheeeer/school-fees/internal/models"
	services "github.com/magabrotheeeer/school-fees/internal/services/auth"
	"github.com/magabrotheeeer/school-fees/internal/session"
)

// Мок для SchoolRepository
type SchoolRepoMock struct {
	mock.Mock
}

func (m *SchoolRepoMock) FindSchoolByEmail(ctx context.Context, email string) (*models.School, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.School), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	repo  *SchoolRepoMock
	store *session.Store
	maker *customjwt.MakerImpl
	svc   *services.AuthService
	now   *time.Time
}

func newFixture() *fixture {
	now := time.Now()
	f := &fixture{
		repo:  new(SchoolRepoMock),
		maker: customjwt.NewJWTMaker("test-secret", time.Hour, time.Hour),
		now:   &now,
	}
	f.store = session.NewStore(session.DefaultTimeout, session.WithClock(func() time.Time { return *f.now }))
	f.svc = services.NewAuthService(f.repo, f.store, f.maker, newNoopLogger())
	return f
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret")
	require.NoError(t, err)

	school := &models.School{
		RecordID:     "recS1",
		SchoolID:     "S001",
		Name:         "Hill School",
		AdminEmail:   "admin@x.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		remember   bool
		setupMocks func(r *SchoolRepoMock)
		wantErr    error
		errMsg     string
	}{
		{
			name:     "successful login",
			email:    "admin@x.com",
			password: "secret",
			setupMocks: func(r *SchoolRepoMock) {
				r.On("FindSchoolByEmail", mock.Anything, "admin@x.com").Return(school, nil).Once()
			},
		},
		{
			name:     "successful login with remember and padded email",
			email:    "  admin@x.com ",
			password: "secret",
			remember: true,
			setupMocks: func(r *SchoolRepoMock) {
				r.On("FindSchoolByEmail", mock.Anything, "admin@x.com").Return(school, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "admin@x.com",
			password: "wrong",
			setupMocks: func(r *SchoolRepoMock) {
				r.On("FindSchoolByEmail", mock.Anything, "admin@x.com").Return(school, nil).Once()
			},
			wantErr: models.ErrInvalidPassword,
		},
		{
			name:     "school without password hash",
			email:    "admin@x.com",
			password: "secret",
			setupMocks: func(r *SchoolRepoMock) {
				noHash := *school
				noHash.PasswordHash = ""
				r.On("FindSchoolByEmail", mock.Anything, "admin@x.com").Return(&noHash, nil).Once()
			},
			wantErr: models.ErrInvalidPassword,
		},
		{
			name:     "school not found",
			email:    "nobody@x.com",
			password: "x",
			setupMocks: func(r *SchoolRepoMock) {
				r.On("FindSchoolByEmail", mock.Anything, "nobody@x.com").Return(nil, models.ErrSchoolNotFound).Once()
			},
			wantErr: models.ErrSchoolNotFound,
		},
		{
			name:     "store error",
			email:    "admin@x.com",
			password: "secret",
			setupMocks: func(r *SchoolRepoMock) {
				r.On("FindSchoolByEmail", mock.Anything, "admin@x.com").Return(nil, errors.New("store unreachable")).Once()
			},
			errMsg: "store unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f.repo)

			res, err := f.svc.Login(context.Background(), tt.email, tt.password, tt.remember)
			if tt.wantErr != nil || tt.errMsg != "" {
				assert.Nil(t, res)
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				assert.Equal(t, 0, f.store.Len())
			} else {
				require.NoError(t, err)
				assert.Equal(t, "S001", res.Session.SchoolID)
				assert.Equal(t, "Hill School", res.Session.SchoolName)
				assert.True(t, res.Session.LoggedIn)
				assert.Equal(t, *f.now, res.Session.LoginAt)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, tt.remember, res.RememberToken != "")

				sess, err := f.svc.Authenticate(context.Background(), res.Token)
				require.NoError(t, err)
				assert.Equal(t, res.Session, sess)
			}

			f.repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_SessionExpiry(t *testing.T) {
	f := newFixture()
	hash, err := password.GetHash("secret")
	require.NoError(t, err)
	f.repo.On("FindSchoolByEmail", mock.Anything, "admin@x.com").
		Return(&models.School{SchoolID: "S001", Name: "Hill School", PasswordHash: hash}, nil).Once()

	res, err := f.svc.Login(context.Background(), "admin@x.com", "secret", false)
	require.NoError(t, err)

	*f.now = f.now.Add(1800 * time.Second)
	_, err = f.svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)

	*f.now = f.now.Add(time.Second)
	_, err = f.svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, models.ErrSessionExpired)

	_, err = f.svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture()
	hash, err := password.GetHash("secret")
	require.NoError(t, err)
	f.repo.On("FindSchoolByEmail", mock.Anything, "admin@x.com").
		Return(&models.School{SchoolID: "S001", PasswordHash: hash}, nil).Once()

	res, err := f.svc.Login(context.Background(), "admin@x.com", "secret", false)
	require.NoError(t, err)

	f.svc.Logout(context.Background(), res.Token)
	f.svc.Logout(context.Background(), res.Token)
	f.svc.Logout(context.Background(), "garbage")

	_, err = f.svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestAuthService_Restore(t *testing.T) {
	f := newFixture()
	remember, err := f.maker.RememberToken("S002", "Lake School")
	require.NoError(t, err)

	res, err := f.svc.Restore(context.Background(), remember)
	require.NoError(t, err)
	assert.Equal(t, "S002", res.Session.SchoolID)
	assert.Equal(t, "Lake School", res.Session.SchoolName)
	assert.Equal(t, remember, res.RememberToken)

	_, err = f.svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)

	// токен сессии не подходит для восстановления
	_, err = f.svc.Restore(context.Background(), res.Token)
	assert.ErrorIs(t, err, customjwt.ErrWrongKind)

	_, err = f.svc.Restore(context.Background(), "not-a-token")
	assert.Error(t, err)
}
