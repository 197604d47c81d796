package logout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	t.Run("with session cookie", func(t *testing.T) {
		authMock := new(AuthServiceMock)
		authMock.On("Logout", mock.Anything, "tok").Once()

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: middlewarectx.CookieName, Value: "tok"})
		rec := httptest.NewRecorder()

		New(logger, authMock, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "", cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
		authMock.AssertExpectations(t)
	})

	t.Run("without token is still ok", func(t *testing.T) {
		authMock := new(AuthServiceMock)
		rec := httptest.NewRecorder()

		New(logger, authMock, false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		authMock.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}
