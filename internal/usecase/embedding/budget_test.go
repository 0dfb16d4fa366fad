package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
)

func newTracker(daily, monthly int64, action BudgetAction) *BudgetTracker {
	return NewBudgetTracker(BudgetConfig{
		Provider:     "test",
		DailyLimit:   daily,
		MonthlyLimit: monthly,
		Action:       action,
	}, zap.NewNop())
}

// fixedClock pins the tracker's clock; advance moves it forward.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func withClock(b *BudgetTracker, c *fixedClock) *BudgetTracker {
	b.now = c.now
	b.day, b.month = b.periods(c.now())
	return b
}

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name     string
		daily    int64
		monthly  int64
		action   BudgetAction
		query    int64
		document int64
		wantQuot bool
	}{
		{"daily reject", 100, 0, BudgetActionReject, 0, 100, true},
		{"chains share the limit", 100, 0, BudgetActionReject, 40, 60, true},
		{"daily warn allows", 100, 0, BudgetActionWarn, 150, 0, false},
		{"monthly reject", 0, 500, BudgetActionReject, 500, 0, true},
		{"unlimited", 0, 0, BudgetActionReject, 1 << 40, 1 << 40, false},
		{"below limit", 1000, 10000, BudgetActionReject, 499, 500, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bt := newTracker(tc.daily, tc.monthly, tc.action)
			bt.Record(domusage.ChainQuery, tc.query)
			bt.Record(domusage.ChainDocument, tc.document)

			err := bt.Check(context.Background())
			if got := errors.Is(err, domain.ErrEmbeddingQuotaExceeded); got != tc.wantQuot {
				t.Errorf("Check() = %v, want quota exceeded = %v", err, tc.wantQuot)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := newTracker(1000, 10000, BudgetActionWarn)
	bt.Record(domusage.ChainQuery, 50)
	bt.Record(domusage.ChainDocument, 250)

	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := bt.RemainingMonthly(); got != 9700 {
		t.Errorf("RemainingMonthly() = %d, want 9700", got)
	}

	want := domusage.Spend{Query: 50, Document: 250}
	if bt.DailySpend() != want || bt.MonthlySpend() != want {
		t.Errorf("spend = %+v/%+v, want %+v", bt.DailySpend(), bt.MonthlySpend(), want)
	}
	if bt.DailyLimit() != 1000 || bt.MonthlyLimit() != 10000 {
		t.Errorf("limits = %d/%d", bt.DailyLimit(), bt.MonthlyLimit())
	}

	bt.Record(domusage.ChainDocument, 5000)
	if got := bt.RemainingDaily(); got != 0 {
		t.Errorf("RemainingDaily() = %d, want clamp to 0", got)
	}

	unlimited := newTracker(0, 0, BudgetActionWarn)
	if unlimited.RemainingDaily() != -1 || unlimited.RemainingMonthly() != -1 {
		t.Error("zero limits must report -1 (unlimited)")
	}
}

func TestBudgetTracker_RecordIgnoresNonPositive(t *testing.T) {
	bt := newTracker(100, 0, BudgetActionReject)
	bt.Record(domusage.ChainQuery, 0)
	bt.Record(domusage.ChainDocument, -5)
	if got := bt.RemainingDaily(); got != 100 {
		t.Errorf("RemainingDaily() = %d, want 100", got)
	}
}

func TestBudgetTracker_DailyRollover(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)}
	bt := withClock(newTracker(100, 1000, BudgetActionReject), clock)

	bt.Record(domusage.ChainQuery, 100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected quota exceeded before rollover")
	}

	clock.advance(2 * time.Hour) // April 1st: new day and new month
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected budget reset after rollover, got %v", err)
	}
	if got := bt.MonthlySpend(); got.Total() != 0 {
		t.Errorf("MonthlySpend() = %+v, want zero after month change", got)
	}
}

// --- Mock BudgetStore ---

type addCall struct {
	provider string
	at       time.Time
	chain    domusage.Chain
	tokens   int64
}

type mockBudgetStore struct {
	mu      sync.Mutex
	daily   domusage.Spend
	monthly domusage.Spend
	adds    []addCall
	loadAt  time.Time
	loadErr error
	addErr  error
}

func (m *mockBudgetStore) Add(_ context.Context, provider string, at time.Time, chain domusage.Chain, tokens int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.adds = append(m.adds, addCall{provider, at, chain, tokens})
	return nil
}

func (m *mockBudgetStore) Load(_ context.Context, _ string, at time.Time) (domusage.Spend, domusage.Spend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadAt = at
	if m.loadErr != nil {
		return domusage.Spend{}, domusage.Spend{}, m.loadErr
	}
	return m.daily, m.monthly, nil
}

// --- Persistence tests ---

func TestBudgetTracker_WithStore_LoadsSpend(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 5, 14, 10, 0, 0, 0, time.UTC)}
	store := &mockBudgetStore{
		daily:   domusage.Spend{Query: 100, Document: 200},
		monthly: domusage.Spend{Query: 1000, Document: 4000},
	}

	bt := withClock(newTracker(1000, 10000, BudgetActionReject), clock)
	bt.WithStore(context.Background(), store)

	if !store.loadAt.Equal(clock.now()) {
		t.Errorf("Load at = %v, want tracker clock", store.loadAt)
	}
	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := bt.RemainingMonthly(); got != 5000 {
		t.Errorf("RemainingMonthly() = %d, want 5000", got)
	}
	if got := bt.DailySpend(); got.Query != 100 {
		t.Errorf("DailySpend() = %+v, want query 100 restored", got)
	}
}

func TestBudgetTracker_Record_PersistsPerChain(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 5, 14, 10, 0, 0, 0, time.UTC)}
	store := &mockBudgetStore{}
	bt := withClock(newTracker(1000, 10000, BudgetActionWarn), clock)
	bt.WithStore(context.Background(), store)

	bt.Record(domusage.ChainQuery, 12)
	bt.Record(domusage.ChainDocument, 300)

	store.mu.Lock()
	defer store.mu.Unlock()
	want := []addCall{
		{"test", clock.now(), domusage.ChainQuery, 12},
		{"test", clock.now(), domusage.ChainDocument, 300},
	}
	if len(store.adds) != len(want) {
		t.Fatalf("adds = %+v", store.adds)
	}
	for i, w := range want {
		got := store.adds[i]
		if got.provider != w.provider || !got.at.Equal(w.at) || got.chain != w.chain || got.tokens != w.tokens {
			t.Errorf("add[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestBudgetTracker_WithStore_LoadError(t *testing.T) {
	store := &mockBudgetStore{loadErr: errors.New("connection refused")}

	bt := newTracker(1000, 10000, BudgetActionReject)
	bt.WithStore(context.Background(), store)

	if got := bt.RemainingDaily(); got != 1000 {
		t.Errorf("load error must leave counters at zero, remaining = %d", got)
	}
}

func TestBudgetTracker_Record_StoreWriteError(t *testing.T) {
	store := &mockBudgetStore{}
	bt := newTracker(1000, 10000, BudgetActionWarn)
	bt.WithStore(context.Background(), store)

	store.mu.Lock()
	store.addErr = errors.New("write timeout")
	store.mu.Unlock()

	bt.Record(domusage.ChainDocument, 50)

	if got := bt.RemainingDaily(); got != 950 {
		t.Errorf("in-memory counter must update despite store error, remaining = %d", got)
	}
}

func TestBudgetTracker_Defaults(t *testing.T) {
	bt := NewBudgetTracker(BudgetConfig{Provider: "openai"}, zap.NewNop())
	if bt.cfg.Action != BudgetActionWarn {
		t.Errorf("default action = %q", bt.cfg.Action)
	}
	if bt.Provider() != "openai" {
		t.Errorf("Provider() = %q", bt.Provider())
	}
}
