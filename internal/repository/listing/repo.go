package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/listingsearch/internal/db"
	"github.com/kailas-cloud/listingsearch/internal/domain"
	domlisting "github.com/kailas-cloud/listingsearch/internal/domain/listing"
)

// store is the consumer interface for listing documents (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo reads listings stored as JSON documents under <prefix>listing:<id>.
type Repo struct {
	store  store
	prefix string
}

// New creates a listing repository. An empty prefix uses domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix + "listing:"}
}

// Listings returns every stored listing ordered by key.
// Documents that vanish between SCAN and GET are skipped.
func (r *Repo) Listings(ctx context.Context) ([]domlisting.Listing, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	if len(keys) == 0 {
		return []domlisting.Listing{}, nil
	}
	slices.Sort(keys)

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get listings: %w", err)
	}

	out := make([]domlisting.Listing, 0, len(docs))
	for i, raw := range docs {
		if raw == nil {
			continue
		}
		l, err := r.decode(keys[i], raw)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Upsert stores listings in one pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, listings []domlisting.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	items := make([]db.JSONSetItem, len(listings))
	for i := range listings {
		data, err := json.Marshal(toRow(&listings[i]))
		if err != nil {
			return fmt.Errorf("marshal listing %s: %w", listings[i].ID(), err)
		}
		items[i] = db.JSONSetItem{Key: r.key(listings[i].ID()), Path: "$", Data: data}
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set listings: %w", err)
	}
	return nil
}

// Prune deletes stored listings whose id is not in keep and returns how many
// were removed.
func (r *Repo) Prune(ctx context.Context, keep []string) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan listings: %w", err)
	}
	kept := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		kept[r.key(id)] = struct{}{}
	}
	removed := 0
	for _, key := range keys {
		if _, ok := kept[key]; ok {
			continue
		}
		if err := r.store.Del(ctx, key); err != nil {
			return removed, fmt.Errorf("del %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

func (r *Repo) key(id string) string {
	return r.prefix + id
}

// decode accepts both a bare document and the one-element array JSON.GET $ returns.
func (r *Repo) decode(key string, raw []byte) (domlisting.Listing, error) {
	trimmed := strings.TrimSpace(string(raw))
	var rw row
	if strings.HasPrefix(trimmed, "[") {
		var rows []row
		if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
			return domlisting.Listing{}, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if len(rows) == 0 {
			return domlisting.Listing{}, fmt.Errorf("unmarshal %s: empty document", key)
		}
		rw = rows[0]
	} else if err := json.Unmarshal([]byte(trimmed), &rw); err != nil {
		return domlisting.Listing{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	if rw.ID == "" {
		rw.ID = strings.TrimPrefix(key, r.prefix)
	}
	return rw.hydrate(), nil
}
