package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request with domain.ErrEmbeddingQuotaExceeded.
	BudgetActionReject BudgetAction = "reject"
)

// persistTimeout bounds one write-behind of a recorded spend.
const persistTimeout = 2 * time.Second

// BudgetStore persists per-chain spend for a provider's current day and month.
type BudgetStore interface {
	Add(ctx context.Context, provider string, at time.Time, chain domusage.Chain, tokens int64) error
	Load(ctx context.Context, provider string, at time.Time) (daily, monthly domusage.Spend, err error)
}

// BudgetConfig holds token limits for one provider. A zero limit means unlimited.
type BudgetConfig struct {
	Provider     string
	DailyLimit   int64
	MonthlyLimit int64
	Action       BudgetAction
}

// BudgetTracker is an in-memory token budget shared by the query and document
// chains, with optional write-behind persistence. Check never leaves the process.
type BudgetTracker struct {
	mu      sync.Mutex
	cfg     BudgetConfig
	daily   domusage.Spend
	monthly domusage.Spend
	day     time.Time
	month   time.Time
	store   BudgetStore
	now     func() time.Time
	logger  *zap.Logger
}

// NewBudgetTracker creates a budget tracker. An unset action warns.
func NewBudgetTracker(cfg BudgetConfig, logger *zap.Logger) *BudgetTracker {
	if cfg.Action == "" {
		cfg.Action = BudgetActionWarn
	}
	b := &BudgetTracker{cfg: cfg, now: time.Now, logger: logger}
	b.day, b.month = b.periods(b.now())
	return b
}

// WithStore attaches a persistence store and loads the current period's spend.
// A failed load leaves the counters at zero.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	daily, monthly, err := store.Load(ctx, b.cfg.Provider, b.now())
	if err != nil {
		b.logger.Warn("Failed to load budget from store",
			zap.String("provider", b.cfg.Provider), zap.Error(err))
		return b
	}
	b.daily, b.monthly = daily, monthly

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.cfg.Provider),
		zap.Int64("daily_query_tokens", daily.Query),
		zap.Int64("daily_document_tokens", daily.Document),
		zap.Int64("monthly_used", monthly.Total()),
	)
	return b
}

// Check reports whether a new request fits the budget. Both chains draw on the same limit.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollover()

	dailyUsed, monthlyUsed := b.daily.Total(), b.monthly.Total()
	dailyExceeded := b.cfg.DailyLimit > 0 && dailyUsed >= b.cfg.DailyLimit
	monthlyExceeded := b.cfg.MonthlyLimit > 0 && monthlyUsed >= b.cfg.MonthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if b.cfg.Action == BudgetActionReject {
		return fmt.Errorf("provider %s: %w", b.cfg.Provider, domain.ErrEmbeddingQuotaExceeded)
	}

	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.cfg.Provider),
		zap.Int64("daily_used", dailyUsed),
		zap.Int64("daily_limit", b.cfg.DailyLimit),
		zap.Int64("monthly_used", monthlyUsed),
		zap.Int64("monthly_limit", b.cfg.MonthlyLimit),
	)
	return nil
}

// Record books tokens spent by chain, then writes them behind to the store (if attached).
func (b *BudgetTracker) Record(chain domusage.Chain, tokens int64) {
	if tokens <= 0 {
		return
	}

	b.mu.Lock()
	b.rollover()
	b.daily = b.daily.Add(chain, tokens)
	b.monthly = b.monthly.Add(chain, tokens)
	store := b.store
	now := b.now()
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request: a cancelled search must not lose the spend.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := store.Add(ctx, b.cfg.Provider, now, chain, tokens); err != nil {
		b.logger.Warn("Failed to persist budget",
			zap.String("provider", b.cfg.Provider),
			zap.String("chain", string(chain)),
			zap.Int64("tokens", tokens),
			zap.Error(err),
		)
	}
}

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	return remaining(b.cfg.DailyLimit, b.DailySpend().Total())
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	return remaining(b.cfg.MonthlyLimit, b.MonthlySpend().Total())
}

// DailyLimit returns the daily token limit (0 = unlimited).
func (b *BudgetTracker) DailyLimit() int64 { return b.cfg.DailyLimit }

// MonthlyLimit returns the monthly token limit (0 = unlimited).
func (b *BudgetTracker) MonthlyLimit() int64 { return b.cfg.MonthlyLimit }

// DailySpend returns today's spend per chain.
func (b *BudgetTracker) DailySpend() domusage.Spend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.daily
}

// MonthlySpend returns this month's spend per chain.
func (b *BudgetTracker) MonthlySpend() domusage.Spend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.monthly
}

// Provider returns the provider the budget applies to.
func (b *BudgetTracker) Provider() string { return b.cfg.Provider }

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	return max(limit-used, 0)
}

// rollover zeroes counters when the UTC day or month changes. Caller holds mu.
func (b *BudgetTracker) rollover() {
	day, month := b.periods(b.now())
	if day.After(b.day) {
		b.daily = domusage.Spend{}
		b.day = day
	}
	if month.After(b.month) {
		b.monthly = domusage.Spend{}
		b.month = month
	}
}

func (b *BudgetTracker) periods(t time.Time) (day, month time.Time) {
	day, _ = domusage.PeriodDay.Window(t)
	month, _ = domusage.PeriodMonth.Window(t)
	return day, month
}
