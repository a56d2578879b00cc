package paper

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/papyrus/internal/db"
	"github.com/kailas-cloud/papyrus/internal/domain"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
)

const testPrefix = "papyrus:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	existsFn       func(ctx context.Context, key string) (bool, error)
	rpushFn        func(ctx context.Context, key string, values ...string) error
	lrangeFn       func(ctx context.Context, key string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) RPush(ctx context.Context, key string, values ...string) error {
	if m.rpushFn != nil {
		return m.rpushFn(ctx, key, values...)
	}
	return nil
}

func (m *mockStore) LRange(ctx context.Context, key string) ([]string, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key)
	}
	return []string{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func testPaper(t *testing.T) dompaper.Paper {
	t.Helper()
	p, err := dompaper.New(dompaper.Params{
		ID:        "3",
		Title:     domain.Text{EN: "Quantum Computing", FA: "محاسبات کوانتومی"},
		Authors:   []string{"Ali Hassani", "Sara Karimi"},
		Abstract:  domain.Text{EN: "Qubits.", FA: "کیوبیت."},
		Year:      2023,
		DOI:       "10.1234/qc.2023.003",
		Journal:   "Quantum Computing Review",
		AISummary: domain.Text{EN: "Summary."},
		DateAdded: time.Date(2023, 7, 1, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("test paper: %v", err)
	}
	return p
}
