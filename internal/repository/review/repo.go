package review

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
)

// store is the consumer interface for reviews (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HCreate(ctx context.Context, key, guard string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/review.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a review repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores and indexes a new review. The key is claimed on its id field,
// so a taken id yields domain.ErrAlreadyExists and nothing is written.
func (r *Repo) Create(ctx context.Context, rev domreview.LiteratureReview) error {
	fields, err := reviewToHash(rev)
	if err != nil {
		return err
	}
	created, err := r.store.HCreate(ctx, r.reviewKey(rev.ID()), idField, fields)
	if err != nil {
		return fmt.Errorf("create review %s: %w", rev.ID(), err)
	}
	if !created {
		return fmt.Errorf("review %s: %w", rev.ID(), domain.ErrAlreadyExists)
	}
	if err := r.store.RPush(ctx, r.indexKey(), rev.ID()); err != nil {
		return fmt.Errorf("index review %s: %w", rev.ID(), err)
	}
	return nil
}

// Update overwrites an existing review. A missing id yields domain.ErrNotFound.
func (r *Repo) Update(ctx context.Context, rev domreview.LiteratureReview) error {
	key := r.reviewKey(rev.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return r.write(ctx, key, rev)
}

func (r *Repo) write(ctx context.Context, key string, rev domreview.LiteratureReview) error {
	fields, err := reviewToHash(rev)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset review %s: %w", rev.ID(), err)
	}
	return nil
}

// Get retrieves a review by id.
func (r *Repo) Get(ctx context.Context, id string) (domreview.LiteratureReview, error) {
	m, err := r.store.HGetAll(ctx, r.reviewKey(id))
	if err != nil {
		return domreview.LiteratureReview{}, fmt.Errorf("hgetall review %s: %w", id, err)
	}
	if len(m) == 0 {
		return domreview.LiteratureReview{}, domain.ErrNotFound
	}
	return reviewFromHash(m)
}

// List returns all reviews, oldest first.
func (r *Repo) List(ctx context.Context) ([]domreview.LiteratureReview, error) {
	ids, err := r.store.LRange(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if len(ids) == 0 {
		return []domreview.LiteratureReview{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.reviewKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi reviews: %w", err)
	}

	reviews := make([]domreview.LiteratureReview, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		rev, err := reviewFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse review %s: %w", ids[i], err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, nil
}

func (r *Repo) reviewKey(id string) string {
	return fmt.Sprintf("%sreview:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "reviews"
}
