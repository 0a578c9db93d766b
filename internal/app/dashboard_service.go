package app

import (
	"contractiq/internal/dataset"
	"contractiq/internal/session"
)

// DashboardService projects the sample catalog onto a session's upload
// count. It is a pure read: nothing on the session is mutated.
type DashboardService struct {
	catalog *dataset.Catalog
}

func NewDashboardService(catalog *dataset.Catalog) *DashboardService {
	return &DashboardService{catalog: catalog}
}

// ChartPoint is one labeled value of a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardSnapshot carries the sliced tables and the chart series derived
// from them.
type DashboardSnapshot struct {
	RowCount          int              `json:"row_count"`
	Tables            *dataset.Catalog `json:"tables"`
	ContractTypes     []ChartPoint     `json:"contract_types"`
	SpendByEngagement []ChartPoint     `json:"spend_by_engagement"`
	SpendByGeography  []ChartPoint     `json:"spend_by_geography"`
}

// Snapshot truncates each sample table to the session's uploaded-file count
// (unreadable files included, capped at the table size) and computes the
// chart aggregates over the truncated rows.
func (s *DashboardService) Snapshot(sess *session.Session) *DashboardSnapshot {
	sess.Lock()
	uploads := len(sess.Documents)
	sess.Unlock()

	sliced := s.catalog.Slice(uploads)
	return &DashboardSnapshot{
		RowCount:          len(sliced.Critical),
		Tables:            sliced,
		ContractTypes:     contractTypeDistribution(sliced),
		SpendByEngagement: spendBy(sliced, func(row dataset.CriticalRow) string { return row.Engagement }),
		SpendByGeography:  spendBy(sliced, func(row dataset.CriticalRow) string { return row.Geography }),
	}
}

// contractTypeDistribution counts contract types in first-seen order, the
// series behind the donut chart.
func contractTypeDistribution(c *dataset.Catalog) []ChartPoint {
	counts := make(map[string]int)
	var order []string
	for _, row := range c.Critical {
		if _, seen := counts[row.ContractType]; !seen {
			order = append(order, row.ContractType)
		}
		counts[row.ContractType]++
	}
	points := make([]ChartPoint, len(order))
	for i, label := range order {
		points[i] = ChartPoint{Label: label, Value: float64(counts[label])}
	}
	return points
}

// spendBy sums total contract value grouped by a critical-table column.
// The tables are parallel, so commercial row i belongs to critical row i.
func spendBy(c *dataset.Catalog, key func(dataset.CriticalRow) string) []ChartPoint {
	sums := make(map[string]float64)
	var order []string
	for i, row := range c.Critical {
		label := key(row)
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += c.Commercial[i].TotalContractValue
	}
	points := make([]ChartPoint, len(order))
	for i, label := range order {
		points[i] = ChartPoint{Label: label, Value: sums[label]}
	}
	return points
}
