// Package jwt выпускает и проверяет подписанные токены сессии администратора.
//
// Токен сессии несёт только идентификатор серверной сессии: сама сессия и проверка
// неактивности живут в session.Store. Токен «запомнить меня» несёт код и название
// школы и позволяет восстановить вход без пароля в пределах RememberTTL.
package jwt

import (
	"time"
)

// Типы токенов.
const (
	KindSession  = "session"
	KindRemember = "remember"
)

// Maker описывает интерфейс для генерации и разбора токенов.
type Maker interface {
	SessionToken(sessionID string, issuedAt time.Time) (string, error)
	ParseSessionToken(tokenStr string) (string, error)
	RememberToken(schoolID, schoolName string) (string, error)
	ParseRememberToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker с подписью HS256.
type MakerImpl struct {
	secretKey   []byte        // Секретный ключ для подписи токенов.
	sessionTTL  time.Duration // Верхняя граница жизни токена сессии.
	rememberTTL time.Duration // Время жизни токена «запомнить меня».
	now         func() time.Time
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и времён жизни токенов.
func NewJWTMaker(secretKey string, sessionTTL, rememberTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:   []byte(secretKey),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}
