package fees

import "github.com/magabrotheeeer/school-fees/internal/models"

// Названия показателей дашборда.
const (
	KPIOutstanding = "total_outstanding"
	KPIParents     = "parents_owing"
	KPICollected   = "percent_collected"
)

// Thresholds задаёт пороги подсветки показателей.
type Thresholds struct {
	OutstandingAlert float64 // Остаток выше порога подсвечивается красным
	ParentsAlert     int     // Число должников выше порога подсвечивается красным
	CollectedTarget  float64 // Процент собранного ниже цели подсвечивается красным
}

// Evaluate строит показатели с уровнями подсветки.
func (t Thresholds) Evaluate(s models.Summary) []models.KPI {
	return []models.KPI{
		{
			Name:      KPIOutstanding,
			Value:     s.TotalOutstanding,
			Threshold: t.OutstandingAlert,
			Level:     levelAbove(s.TotalOutstanding, t.OutstandingAlert),
		},
		{
			Name:      KPIParents,
			Value:     float64(s.ParentCount),
			Threshold: float64(t.ParentsAlert),
			Level:     levelAbove(float64(s.ParentCount), float64(t.ParentsAlert)),
		},
		{
			Name:      KPICollected,
			Value:     s.PercentCollected,
			Threshold: t.CollectedTarget,
			Level:     levelBelow(s.PercentCollected, t.CollectedTarget),
		},
	}
}

func levelAbove(v, limit float64) string {
	if v > limit {
		return models.LevelRed
	}
	return models.LevelGreen
}

func levelBelow(v, target float64) string {
	if v < target {
		return models.LevelRed
	}
	return models.LevelGreen
}

// Подсветка строк таблицы записей.
const (
	HighlightGreen  = "green"
	HighlightOrange = "orange"
	HighlightRed    = "red"
)

// Highlight возвращает цвет строки по статусу.
func Highlight(status string) string {
	switch status {
	case models.StatusPaid:
		return HighlightGreen
	case models.StatusPartial:
		return HighlightOrange
	default:
		return HighlightRed
	}
}
