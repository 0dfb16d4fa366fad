package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/listingsearch/internal/db"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
)

// expiryGrace keeps a period's counters readable for a day after the period closes.
const expiryGrace = 24 * time.Hour

// store is the consumer interface for budget operations (ISP).
type store interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store persists embedding token spend per provider, UTC period and chain.
//
// Layout: <prefix>budget:<provider>:<2026-05-14>:<chain> for days and
// <prefix>budget:<provider>:<2026-05>:<chain> for months.
type Store struct {
	store  store
	prefix string
}

// New creates a budget store writing under prefix.
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix}
}

// Add books tokens spent by chain at time at to both the day and the month counters.
// Each counter expires one day after its period ends; repeated writes never extend it.
func (s *Store) Add(ctx context.Context, provider string, at time.Time, chain domusage.Chain, tokens int64) error {
	for _, p := range []domusage.Period{domusage.PeriodDay, domusage.PeriodMonth} {
		key := s.key(provider, p, at, chain)
		if err := s.store.IncrBy(ctx, key, tokens); err != nil {
			return fmt.Errorf("budget INCRBY %s: %w", key, err)
		}
		_, end := p.Window(at)
		if err := s.store.Expire(ctx, key, end.Sub(at)+expiryGrace, true); err != nil {
			return fmt.Errorf("budget EXPIRE %s: %w", key, err)
		}
	}
	return nil
}

// Load returns the day and month spend containing at in a single MGET.
// Missing counters read as zero.
func (s *Store) Load(ctx context.Context, provider string, at time.Time) (daily, monthly domusage.Spend, err error) {
	periods := []domusage.Period{domusage.PeriodDay, domusage.PeriodMonth}
	keys := make([]string, 0, len(periods)*len(domusage.Chains))
	for _, p := range periods {
		for _, c := range domusage.Chains {
			keys = append(keys, s.key(provider, p, at, c))
		}
	}

	vals, err := s.store.MGet(ctx, keys)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return daily, monthly, nil
		}
		return daily, monthly, fmt.Errorf("budget MGET: %w", err)
	}
	if len(vals) != len(keys) {
		return daily, monthly, fmt.Errorf("budget MGET: got %d values for %d keys", len(vals), len(keys))
	}

	spends := make([]domusage.Spend, len(periods))
	for i, raw := range vals {
		n, err := parseCounter(raw)
		if err != nil {
			return daily, monthly, fmt.Errorf("budget %s: %w", keys[i], err)
		}
		p := i / len(domusage.Chains)
		spends[p] = spends[p].Add(domusage.Chains[i%len(domusage.Chains)], n)
	}
	return spends[0], spends[1], nil
}

func (s *Store) key(provider string, p domusage.Period, at time.Time, c domusage.Chain) string {
	return s.prefix + "budget:" + provider + ":" + p.Stamp(at) + ":" + string(c)
}

func parseCounter(raw []byte) (int64, error) {
	if raw == nil {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter: %w", err)
	}
	return n, nil
}
