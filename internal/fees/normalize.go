// Package fees превращает сырые записи хранилища в каноничную модель начислений,
// выводит статус оплаты, агрегирует задолженность по родителям и применяет оплаты.
package fees

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/magabrotheeeer/school-fees/internal/airtable"
	"github.com/magabrotheeeer/school-fees/internal/lib/money"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Normalize приводит сырую запись к FeeRecord. Никогда не возвращает ошибку:
// неразборчивые суммы считаются нулём, чтобы дашборд оставался рабочим на грязных данных.
func Normalize(rec airtable.Record) models.FeeRecord {
	f := rec.Fields
	students := Students(f.Get(models.FieldStudentNames))
	due := Amount(f.Get(models.FieldAmountDue))
	paid := Amount(f.Get(models.FieldAmountPaid))

	return models.FeeRecord{
		ID:              rec.ID,
		SchoolID:        Text(f.Get(models.FieldSchoolID)),
		SchoolName:      Name(f.Get(models.FieldSchoolName)),
		ParentName:      Name(f.Get(models.FieldParentName)),
		ParentEmail:     Email(f.Get(models.FieldParentEmail)),
		ParentContact:   Text(f.Get(models.FieldParentContact)),
		Students:        students,
		StudentsDisplay: strings.Join(students, ", "),
		AmountDue:       due,
		AmountPaid:      paid,
		Balance:         Balance(Amount(f.Get(models.FieldBalance)), due, paid),
		Status:          DeriveStatus(due, paid),
		StoredStatus:    strings.ToLower(Text(f.Get(models.FieldStatus))),
		ReminderSent:    f.Get(models.FieldReminderSent).Truthy(),
		LastReminder:    Text(f.Get(models.FieldLastReminder)),
	}
}

// NormalizeAll нормализует пачку записей.
func NormalizeAll(recs []airtable.Record) []models.FeeRecord {
	out := make([]models.FeeRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, Normalize(r))
	}
	return out
}

// Amount читает денежное поле: число проходит как есть, строка разбирается
// через money.Parse, у списка берётся первый элемент.
func Amount(v airtable.Value) float64 {
	switch v.Kind() {
	case airtable.KindNumber:
		f, _ := v.Float()
		return f
	case airtable.KindText:
		return money.Parse(v.String())
	case airtable.KindList:
		items := v.Strings()
		if len(items) == 0 {
			return 0
		}
		return money.Parse(items[0])
	default:
		return 0
	}
}

// Text склеивает список через ", " и обрезает пробелы.
func Text(v airtable.Value) string {
	if v.Kind() != airtable.KindList {
		return strings.TrimSpace(v.String())
	}
	parts := make([]string, 0, len(v.Strings()))
	for _, s := range v.Strings() {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Name текстовое поле с именем. Список склеивается и переводится в title case,
// строка только обрезается.
func Name(v airtable.Value) string {
	s := Text(v)
	if v.Kind() == airtable.KindList {
		return titleCase(s)
	}
	return s
}

// Email поле адреса. Список склеивается и переводится в нижний регистр,
// строка только обрезается.
func Email(v airtable.Value) string {
	s := Text(v)
	if v.Kind() == airtable.KindList {
		return strings.ToLower(s)
	}
	return s
}

// Students возвращает список учеников: принимает список имён или строку через запятую.
func Students(v airtable.Value) []string {
	var raw []string
	switch v.Kind() {
	case airtable.KindEmpty:
		return nil
	case airtable.KindList:
		for _, item := range v.Strings() {
			raw = append(raw, strings.Split(item, ",")...)
		}
	default:
		raw = strings.Split(v.String(), ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, titleCase(s))
		}
	}
	return out
}

// DeriveStatus: unpaid, если ничего не оплачено; paid, если оплачено не меньше начисленного; иначе partial.
func DeriveStatus(due, paid float64) string {
	switch {
	case paid <= 0:
		return models.StatusUnpaid
	case paid >= due:
		return models.StatusPaid
	default:
		return models.StatusPartial
	}
}

// Balance берёт сохранённый остаток, если он ненулевой, иначе due - paid.
func Balance(stored, due, paid float64) float64 {
	if stored != 0 {
		return stored
	}
	return money.Sub(due, paid)
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
