// Package session хранит сессии администраторов школ в памяти процесса.
//
// Сессия живёт не дольше таймаута неактивности с момента входа; продления нет.
// Просроченная сессия очищается при первой же проверке.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/school-fees/internal/models"
)

// DefaultTimeout таймаут сессии по умолчанию.
const DefaultTimeout = 1800 * time.Second

// Session контекст вошедшего администратора.
type Session struct {
	ID         string    `json:"id"`
	SchoolID   string    `json:"school_id"`
	SchoolName string    `json:"school_name"`
	LoginAt    time.Time `json:"login_at"`
	LoggedIn   bool      `json:"logged_in"`
}

// New создаёт аутентифицированную сессию школы.
func New(schoolID, schoolName string, now time.Time) Session {
	return Session{
		ID:         uuid.NewString(),
		SchoolID:   schoolID,
		SchoolName: schoolName,
		LoginAt:    now,
		LoggedIn:   true,
	}
}

// Expired сообщает, что сессия недействительна в момент now.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	if !s.LoggedIn {
		return true
	}
	return now.Sub(s.LoginAt) > timeout
}

// Store потокобезопасное хранилище сессий по идентификатору.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	timeout  time.Duration
	now      func() time.Time
}

// Option настраивает Store.
type Option func(*Store)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

// NewStore создаёт хранилище. Неположительный timeout заменяется DefaultTimeout.
func NewStore(timeout time.Duration, opts ...Option) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	st := &Store{
		sessions: make(map[string]Session),
		timeout:  timeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Now возвращает текущее время хранилища.
func (st *Store) Now() time.Time {
	return st.now()
}

// Save сохраняет сессию.
func (st *Store) Save(s Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

// Check возвращает действующую сессию. Просроченная сессия удаляется.
func (st *Store) Check(id string) (Session, error) {
	const op = "session.Check"
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%s: %w", op, models.ErrSessionNotFound)
	}
	if s.Expired(st.now(), st.timeout) {
		delete(st.sessions, id)
		return Session{}, fmt.Errorf("%s: %w", op, models.ErrSessionExpired)
	}
	return s, nil
}

// Delete удаляет сессию; повторный вызов ничего не делает.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len возвращает число хранимых сессий.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
