package students

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/session"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Students(ctx context.Context, schoolID, parent string) ([]string, error) {
	args := m.Called(ctx, schoolID, parent)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

func TestStudentsHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	sess := session.New("S001", "Hill School", time.Now())

	tests := []struct {
		name           string
		parent         string
		mockResp       []string
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "missing parent",
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"status":"Error","error":"parent is required"}`,
		},
		{
			name:           "students of parent",
			parent:         "Mary Smith",
			mockResp:       []string{"Tom Smith", "Lucy Smith"},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"status":"OK","data":{"parent":"Mary Smith","students":["Tom Smith","Lucy Smith"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.parent != "" {
				svc.On("Students", mock.Anything, "S001", tt.parent).Return(tt.mockResp, nil).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/parents/students?parent="+url.QueryEscape(tt.parent), nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), sess))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
