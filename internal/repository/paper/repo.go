package paper

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/papyrus/internal/db"
	"github.com/kailas-cloud/papyrus/internal/domain"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
)

// store is the consumer interface for papers (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/directory.PaperRepository.
type Repo struct {
	store  store
	prefix string
}

// New creates a paper repository. prefix namespaces every key (e.g. "papyrus:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save upserts a paper. New ids are appended to the catalog index so listing
// keeps insertion order.
func (r *Repo) Save(ctx context.Context, p dompaper.Paper) error {
	key := r.paperKey(p.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	fields, err := paperToHash(p)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset paper %s: %w", p.ID(), err)
	}
	if exists {
		return nil
	}
	if err := r.store.RPush(ctx, r.indexKey(), p.ID()); err != nil {
		return fmt.Errorf("index paper %s: %w", p.ID(), err)
	}
	return nil
}

// SaveMany upserts papers in one pipelined write, indexing only new ids.
func (r *Repo) SaveMany(ctx context.Context, papers []dompaper.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	known, err := r.ids(ctx)
	if err != nil {
		return err
	}

	items := make([]db.HashSetItem, 0, len(papers))
	var fresh []string
	for _, p := range papers {
		fields, err := paperToHash(p)
		if err != nil {
			return fmt.Errorf("paper %s: %w", p.ID(), err)
		}
		items = append(items, db.HashSetItem{Key: r.paperKey(p.ID()), Fields: fields})
		if _, ok := known[p.ID()]; !ok {
			known[p.ID()] = struct{}{}
			fresh = append(fresh, p.ID())
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset papers: %w", err)
	}
	if err := r.store.RPush(ctx, r.indexKey(), fresh...); err != nil {
		return fmt.Errorf("index papers: %w", err)
	}
	return nil
}

// Get retrieves a paper by id.
func (r *Repo) Get(ctx context.Context, id string) (dompaper.Paper, error) {
	m, err := r.store.HGetAll(ctx, r.paperKey(id))
	if err != nil {
		return dompaper.Paper{}, fmt.Errorf("hgetall paper %s: %w", id, err)
	}
	if len(m) == 0 {
		return dompaper.Paper{}, domain.ErrNotFound
	}
	return paperFromHash(m)
}

// GetMany returns the papers for ids in the given order, skipping ids that do not resolve.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]dompaper.Paper, error) {
	if len(ids) == 0 {
		return []dompaper.Paper{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.paperKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi papers: %w", err)
	}

	papers := make([]dompaper.Paper, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		p, err := paperFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse paper %s: %w", ids[i], err)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// List returns every paper in catalog order.
func (r *Repo) List(ctx context.Context) ([]dompaper.Paper, error) {
	ids, err := r.store.LRange(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return r.GetMany(ctx, ids)
}

func (r *Repo) ids(ctx context.Context) (map[string]struct{}, error) {
	ids, err := r.store.LRange(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Key patterns: {prefix}paper:{id}, {prefix}papers

func (r *Repo) paperKey(id string) string {
	return fmt.Sprintf("%spaper:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "papers"
}
