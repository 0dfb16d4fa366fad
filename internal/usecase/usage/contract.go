package usage

import domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"

// BudgetReader provides read-only access to token budget state.
type BudgetReader interface {
	DailyLimit() int64
	MonthlyLimit() int64
	DailySpend() domusage.Spend
	MonthlySpend() domusage.Spend
}
