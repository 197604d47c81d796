package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWrongKind токен подписан верно, но выпущен для другой цели.
var ErrWrongKind = errors.New("unexpected token kind")

// Claims описывает данные, хранящиеся в токене.
type Claims struct {
	Kind                 string `json:"kind"`                  // session или remember
	SessionID            string `json:"sid,omitempty"`         // Для токена сессии
	SchoolID             string `json:"school_id,omitempty"`   // Для токена remember
	SchoolName           string `json:"school_name,omitempty"` // Для токена remember
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt
}

func (j *MakerImpl) sign(claims Claims, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// SessionToken подписывает идентификатор сессии.
func (j *MakerImpl) SessionToken(sessionID string, issuedAt time.Time) (string, error) {
	const op = "jwt.SessionToken"
	tok, err := j.sign(Claims{Kind: KindSession, SessionID: sessionID}, issuedAt, j.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return tok, nil
}

// RememberToken подписывает код и название школы для восстановления входа.
func (j *MakerImpl) RememberToken(schoolID, schoolName string) (string, error) {
	const op = "jwt.RememberToken"
	tok, err := j.sign(Claims{Kind: KindRemember, SchoolID: schoolID, SchoolName: schoolName}, j.now(), j.rememberTTL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return tok, nil
}

// ParseSessionToken проверяет подпись и тип токена и возвращает идентификатор сессии.
func (j *MakerImpl) ParseSessionToken(tokenStr string) (string, error) {
	const op = "jwt.ParseSessionToken"
	claims, err := j.parse(tokenStr, KindSession)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return claims.SessionID, nil
}

// ParseRememberToken проверяет подпись и тип токена и возвращает его claims.
func (j *MakerImpl) ParseRememberToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseRememberToken"
	claims, err := j.parse(tokenStr, KindRemember)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

func (j *MakerImpl) parse(tokenStr, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	return claims, nil
}
