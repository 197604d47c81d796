package fees

import (
	"sort"
	"strings"

	"github.com/magabrotheeeer/school-fees/internal/lib/money"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Outstanding оставляет записи с положительным остатком.
func Outstanding(records []models.FeeRecord) []models.FeeRecord {
	out := make([]models.FeeRecord, 0, len(records))
	for _, r := range records {
		if r.Balance > 0 {
			out = append(out, r)
		}
	}
	return out
}

type parentKey struct {
	name, contact, email string
}

// ByParent группирует записи с положительным остатком по (имя, контакт, email)
// и сортирует группы по убыванию суммы задолженности.
func ByParent(records []models.FeeRecord) []models.ParentAggregate {
	index := make(map[parentKey]int)
	var out []models.ParentAggregate
	for _, r := range Outstanding(records) {
		key := parentKey{r.ParentName, r.ParentContact, r.ParentEmail}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.ParentAggregate{
				ParentName:    r.ParentName,
				ParentContact: r.ParentContact,
				ParentEmail:   r.ParentEmail,
			})
		}
		out[i].BalanceDue = money.Add(out[i].BalanceDue, r.Balance)
		out[i].Records++
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].BalanceDue != out[b].BalanceDue {
			return out[a].BalanceDue > out[b].BalanceDue
		}
		return out[a].ParentName < out[b].ParentName
	})
	return out
}

// Summarize считает итоги: остаток к оплате и число родителей по записям с долгом,
// начисленное по всем записям и процент собранного.
func Summarize(records []models.FeeRecord) models.Summary {
	var s models.Summary
	parents := make(map[parentKey]struct{})
	for _, r := range records {
		s.TotalDue = money.Add(s.TotalDue, r.AmountDue)
		if r.Balance > 0 {
			s.TotalOutstanding = money.Add(s.TotalOutstanding, r.Balance)
			parents[parentKey{r.ParentName, r.ParentContact, r.ParentEmail}] = struct{}{}
		}
	}
	s.ParentCount = len(parents)
	s.PercentCollected = money.Percent(money.Sub(s.TotalDue, s.TotalOutstanding), s.TotalDue)
	return s
}

// StudentsOf возвращает учеников родителя без повторов, в порядке первого появления.
func StudentsOf(records []models.FeeRecord, parent string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if !sameParent(r, parent) {
			continue
		}
		for _, s := range r.Students {
			key := strings.ToLower(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Parents возвращает имена родителей без повторов, отсортированные по алфавиту.
func Parents(records []models.FeeRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r.ParentName == "" {
			continue
		}
		if _, ok := seen[r.ParentName]; ok {
			continue
		}
		seen[r.ParentName] = struct{}{}
		out = append(out, r.ParentName)
	}
	sort.Strings(out)
	return out
}

// FindPayable находит первую запись родителя, в которой числится ученик.
func FindPayable(records []models.FeeRecord, parent, student string) (models.FeeRecord, bool) {
	for _, r := range records {
		if sameParent(r, parent) && r.HasStudent(student) {
			return r, true
		}
	}
	return models.FeeRecord{}, false
}

// ApplyPayment прибавляет сумму к оплаченному и пересчитывает остаток и статус.
func ApplyPayment(r models.FeeRecord, amount float64) models.FeeRecord {
	r.AmountPaid = money.Add(r.AmountPaid, amount)
	r.Balance = money.Sub(r.AmountDue, r.AmountPaid)
	r.Status = DeriveStatus(r.AmountDue, r.AmountPaid)
	return r
}

func sameParent(r models.FeeRecord, parent string) bool {
	return strings.EqualFold(r.ParentName, strings.TrimSpace(parent))
}
