package usage

import "time"

// Period is the budget window a report covers.
type Period string

// Report periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod returns the period for s; empty means day.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Window returns the UTC window of the period containing t.
func (p Period) Window(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Stamp formats the window containing t as a storage key segment
// ("2026-05-14" for a day, "2026-05" for a month).
func (p Period) Stamp(t time.Time) string {
	if p == PeriodMonth {
		return t.UTC().Format("2006-01")
	}
	return t.UTC().Format("2006-01-02")
}

// Chain names which side of a semantic search spent embedding tokens.
type Chain string

// Embedding chains.
const (
	// ChainQuery embeds the shopper's search text.
	ChainQuery Chain = "query"
	// ChainDocument embeds listing name and description.
	ChainDocument Chain = "document"
)

// Chains lists every chain in a stable order.
var Chains = []Chain{ChainQuery, ChainDocument}

// Spend is token usage split by chain.
type Spend struct {
	Query    int64
	Document int64
}

// Total returns tokens spent by both chains.
func (s Spend) Total() int64 { return s.Query + s.Document }

// Add returns s with n tokens booked to chain c. Unknown chains count as document spend.
func (s Spend) Add(c Chain, n int64) Spend {
	if c == ChainQuery {
		s.Query += n
	} else {
		s.Document += n
	}
	return s
}

// Of returns the tokens booked to chain c.
func (s Spend) Of(c Chain) int64 {
	if c == ChainQuery {
		return s.Query
	}
	return s.Document
}

// Report is the embedding token spend for one budget window.
type Report struct {
	period    Period
	start     time.Time
	end       time.Time
	limit     int64
	spend     Spend
	remaining int64
}

// NewReport creates a usage report. A zero limit means unlimited; remaining is then -1.
func NewReport(period Period, start, end time.Time, limit int64, spend Spend) Report {
	remaining := int64(-1)
	if limit > 0 {
		remaining = max(limit-spend.Total(), 0)
	}
	return Report{
		period:    period,
		start:     start,
		end:       end,
		limit:     limit,
		spend:     spend,
		remaining: remaining,
	}
}

// Period returns the budget window.
func (r *Report) Period() Period { return r.period }

// Start returns the window start (UTC).
func (r *Report) Start() time.Time { return r.start }

// End returns the window end, which is also when the budget resets.
func (r *Report) End() time.Time { return r.end }

// Limit returns the token limit, 0 when unlimited.
func (r *Report) Limit() int64 { return r.limit }

// Used returns tokens spent in the window by both chains.
func (r *Report) Used() int64 { return r.spend.Total() }

// Spend returns the per-chain split of Used.
func (r *Report) Spend() Spend { return r.spend }

// Remaining returns tokens left, -1 when unlimited.
func (r *Report) Remaining() int64 { return r.remaining }

// Exhausted reports whether a limited budget has no tokens left.
func (r *Report) Exhausted() bool { return r.limit > 0 && r.remaining == 0 }
