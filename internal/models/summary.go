package models

// ParentAggregate сумма задолженности по всем записям одного родителя.
// Не хранится, пересчитывается из текущего снимка записей.
type ParentAggregate struct {
	ParentName    string  `json:"parent_name"`
	ParentContact string  `json:"parent_contact"`
	ParentEmail   string  `json:"parent_email"`
	BalanceDue    float64 `json:"balance_due"`
	Records       int     `json:"records"`
}

// Summary содержит итоговые показатели по школе.
type Summary struct {
	TotalOutstanding float64 `json:"total_outstanding"`
	ParentCount      int     `json:"parent_count"`
	TotalDue         float64 `json:"total_due"`
	PercentCollected float64 `json:"percent_collected"`
}

// Уровни подсветки показателей.
const (
	LevelGreen = "green"
	LevelRed   = "red"
)

// KPI показатель дашборда с уровнем подсветки.
type KPI struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Level     string  `json:"level"`
}

// Dashboard объединяет итоги и показатели для главного экрана.
type Dashboard struct {
	SchoolID string  `json:"school_id"`
	Summary  Summary `json:"summary"`
	KPIs     []KPI   `json:"kpis"`
}
