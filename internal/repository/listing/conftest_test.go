package listing

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/listingsearch/internal/db"
)

// mockStore is an in-memory document store.
type mockStore struct {
	docs    map[string][]byte
	scanErr error
	setErr  error
	getErr  error
	delErr  error
	sets    [][]db.JSONSetItem
}

func (m *mockStore) JSONSetMulti(_ context.Context, items []db.JSONSetItem) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets = append(m.sets, items)
	for _, it := range items {
		m.docs[it.Key] = it.Data
	}
	return nil
}

func (m *mockStore) JSONGetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.docs[k]
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.docs, key)
	return nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{docs: map[string][]byte{}}
	return New(ms, "test:"), ms
}
