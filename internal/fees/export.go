package fees

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/magabrotheeeer/school-fees/internal/models"
)

var csvHeader = []string{
	"id", "parent_name", "parent_email", "parent_contact", "students",
	"amount_due", "amount_paid", "balance", "status", "reminder_sent", "last_reminder",
}

// WriteCSV пишет записи в CSV с заголовком.
func WriteCSV(w io.Writer, records []models.FeeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.ParentName,
			r.ParentEmail,
			r.ParentContact,
			r.StudentsDisplay,
			formatAmount(r.AmountDue),
			formatAmount(r.AmountPaid),
			formatAmount(r.Balance),
			r.Status,
			strconv.FormatBool(r.ReminderSent),
			r.LastReminder,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
