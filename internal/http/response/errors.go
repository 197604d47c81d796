package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/school-fees/internal/airtable"
	"github.com/magabrotheeeer/school-fees/internal/lib/jwt"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// FromError подбирает HTTP-статус и текст для ошибки бизнес-слоя.
// Неизвестные ошибки не раскрываются клиенту.
func FromError(err error) (int, Response) {
	var apiErr *airtable.APIError
	switch {
	case errors.Is(err, models.ErrSchoolNotFound):
		return http.StatusNotFound, Error(models.ErrSchoolNotFound.Error())
	case errors.Is(err, models.ErrInvalidPassword):
		return http.StatusUnauthorized, Error(models.ErrInvalidPassword.Error())
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound, Error(models.ErrRecordNotFound.Error())
	case errors.Is(err, models.ErrSessionExpired):
		return http.StatusUnauthorized, Error("session expired, please log in again")
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, jwt.ErrWrongKind):
		return http.StatusUnauthorized, Error("not logged in")
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, Error("fee store request failed")
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}
