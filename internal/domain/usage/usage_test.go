package usage

import (
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name          string
		limit         int64
		spend         Spend
		wantRemaining int64
		wantExhausted bool
	}{
		{"within budget", 1000, Spend{Query: 100, Document: 200}, 700, false},
		{"spent exactly", 1000, Spend{Query: 10, Document: 990}, 0, true},
		{"overspent clamps", 1000, Spend{Document: 1500}, 0, true},
		{"unlimited", 0, Spend{Query: 5000}, -1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReport(PeriodDay, start, end, tc.limit, tc.spend)
			if r.Remaining() != tc.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", r.Remaining(), tc.wantRemaining)
			}
			if r.Exhausted() != tc.wantExhausted {
				t.Errorf("Exhausted() = %v, want %v", r.Exhausted(), tc.wantExhausted)
			}
			if r.Used() != tc.spend.Total() || r.Limit() != tc.limit || r.Spend() != tc.spend {
				t.Errorf("Used/Limit/Spend = %d/%d/%+v", r.Used(), r.Limit(), r.Spend())
			}
			if !r.Start().Equal(start) || !r.End().Equal(end) || r.Period() != PeriodDay {
				t.Errorf("window = %v %v-%v", r.Period(), r.Start(), r.End())
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"", PeriodDay, true},
		{"day", PeriodDay, true},
		{"month", PeriodMonth, true},
		{"year", "", false},
	}
	for _, tc := range tests {
		got, ok := ParsePeriod(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePeriod(%q) = %q, %v", tc.in, got, ok)
		}
	}
}

func TestPeriod_WindowAndStamp(t *testing.T) {
	// 23:30 IST on Jan 31 is still Jan 31 in UTC.
	at := time.Date(2026, 1, 31, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	start, end := PeriodDay.Window(at)
	if !start.Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day window = %v - %v", start, end)
	}
	start, end = PeriodMonth.Window(at)
	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month window = %v - %v", start, end)
	}
	if got := PeriodDay.Stamp(at); got != "2026-01-31" {
		t.Errorf("day stamp = %q", got)
	}
	if got := PeriodMonth.Stamp(at); got != "2026-01" {
		t.Errorf("month stamp = %q", got)
	}
}

func TestSpend(t *testing.T) {
	s := Spend{}.Add(ChainQuery, 5).Add(ChainDocument, 40).Add(ChainQuery, 1)
	if s.Query != 6 || s.Document != 40 || s.Total() != 46 {
		t.Errorf("spend = %+v", s)
	}
	if s.Of(ChainQuery) != 6 || s.Of(ChainDocument) != 40 {
		t.Errorf("Of = %d/%d", s.Of(ChainQuery), s.Of(ChainDocument))
	}
}
