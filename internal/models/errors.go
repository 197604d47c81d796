package models

import "errors"

var (
	// ErrSchoolNotFound нет школы с таким email администратора или кодом.
	ErrSchoolNotFound = errors.New("school not found")
	// ErrInvalidPassword пароль не совпал с сохранённым хэшем.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrSessionNotFound сессия не существует или уже завершена.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired истёк интервал неактивности сессии.
	ErrSessionExpired = errors.New("session expired")
	// ErrRecordNotFound нет записи для пары родитель/ученик.
	ErrRecordNotFound = errors.New("fee record not found")
)
