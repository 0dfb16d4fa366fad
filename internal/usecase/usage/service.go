package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
)

// Service reports embedding token spend against the configured budget.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (no budget configured: limit 0, nothing used).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds the report for the current UTC day or month.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Window(s.now())
	var limit int64
	var spend domusage.Spend

	if s.br != nil {
		switch period {
		case domusage.PeriodMonth:
			limit, spend = s.br.MonthlyLimit(), s.br.MonthlySpend()
		default:
			limit, spend = s.br.DailyLimit(), s.br.DailySpend()
		}
	}

	return domusage.NewReport(period, start, end, limit, spend)
}
