package models

import "strings"

// Статусы оплаты записи.
const (
	StatusUnpaid  = "unpaid"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// Имена полей таблицы начислений.
const (
	FieldParentName    = "parent_name"
	FieldParentEmail   = "parent_email"
	FieldParentContact = "parent_contact"
	FieldStudentNames  = "student_names"
	FieldAmountDue     = "amount_due"
	FieldAmountPaid    = "amount_paid"
	FieldBalance       = "balance"
	FieldStatus        = "status"
	FieldReminderSent  = "reminder_sent"
	FieldLastReminder  = "last_reminder"
)

// FeeRecord нормализованная запись о начислении для ученика (учеников) одного родителя.
// Balance и Status являются производными полями.
type FeeRecord struct {
	ID              string   `json:"id"`
	SchoolID        string   `json:"school_id"`
	SchoolName      string   `json:"school_name"`
	ParentName      string   `json:"parent_name"`
	ParentEmail     string   `json:"parent_email"`
	ParentContact   string   `json:"parent_contact"`
	Students        []string `json:"students"`
	StudentsDisplay string   `json:"students_display"`
	AmountDue       float64  `json:"amount_due"`
	AmountPaid      float64  `json:"amount_paid"`
	Balance         float64  `json:"balance"`
	Status          string   `json:"status"`
	StoredStatus    string   `json:"stored_status,omitempty"` // Статус из хранилища, только для отображения
	ReminderSent    bool     `json:"reminder_sent"`
	LastReminder    string   `json:"last_reminder,omitempty"`
}

// HasStudent сообщает, числится ли ученик в записи (без учёта регистра).
func (r FeeRecord) HasStudent(name string) bool {
	for _, s := range r.Students {
		if strings.EqualFold(s, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// PaymentResult описывает результат внесения оплаты.
type PaymentResult struct {
	RecordID   string  `json:"record_id"`
	ParentName string  `json:"parent_name"`
	Student    string  `json:"student"`
	Amount     float64 `json:"amount"`
	AmountPaid float64 `json:"amount_paid"`
	Balance    float64 `json:"balance"`
	Status     string  `json:"status"`
}

// PaymentEvent публикуется в брокер после успешной записи оплаты.
type PaymentEvent struct {
	SchoolID      string  `json:"school_id"`
	RecordID      string  `json:"record_id"`
	ParentName    string  `json:"parent_name"`
	ParentEmail   string  `json:"parent_email"`
	ParentContact string  `json:"parent_contact"`
	Student       string  `json:"student"`
	Amount        float64 `json:"amount"`
	AmountPaid    float64 `json:"amount_paid"`
	Balance       float64 `json:"balance"`
	Status        string  `json:"status"`
	RecordedAt    string  `json:"recorded_at"`
}
