// Package models содержит доменные структуры школы, записи об оплате
// и производные агрегаты, а также общие ошибки бизнес-слоя.
package models

// School представляет школу из внешнего табличного хранилища.
// Запись создаётся и ведётся вне системы, здесь она только читается
// (кроме утилиты первичной установки паролей).
type School struct {
	RecordID     string // Идентификатор записи во внешнем хранилище
	SchoolID     string // Код школы, например S001
	Name         string // Отображаемое название
	AdminEmail   string // Email администратора
	PasswordHash string // bcrypt-хэш пароля администратора
}

// Имена полей таблицы школ.
const (
	FieldSchoolID      = "school_id"
	FieldSchoolName    = "school_name"
	FieldAdminEmail    = "admin_email"
	FieldAdminPassword = "admin_password"
)
