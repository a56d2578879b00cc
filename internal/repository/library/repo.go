package library

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
)

// store is the consumer interface for libraries (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/directory.LibraryRepository.
type Repo struct {
	store  store
	prefix string
}

// New creates a library repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores a new library and appends it to the library index.
func (r *Repo) Create(ctx context.Context, l domlib.Library) error {
	key := r.libraryKey(l.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return fmt.Errorf("library %s already exists", l.ID())
	}

	fields, err := libraryToHash(l)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset library %s: %w", l.ID(), err)
	}
	if err := r.store.RPush(ctx, r.indexKey(), l.ID()); err != nil {
		return fmt.Errorf("index library %s: %w", l.ID(), err)
	}
	return nil
}

// Update overwrites an existing library's fields.
func (r *Repo) Update(ctx context.Context, l domlib.Library) error {
	fields, err := libraryToHash(l)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.libraryKey(l.ID()), fields); err != nil {
		return fmt.Errorf("hset library %s: %w", l.ID(), err)
	}
	return nil
}

// Get retrieves a library by id.
func (r *Repo) Get(ctx context.Context, id string) (domlib.Library, error) {
	m, err := r.store.HGetAll(ctx, r.libraryKey(id))
	if err != nil {
		return domlib.Library{}, fmt.Errorf("hgetall library %s: %w", id, err)
	}
	if len(m) == 0 {
		return domlib.Library{}, domain.ErrNotFound
	}
	return libraryFromHash(m)
}

// List returns all libraries in creation order.
func (r *Repo) List(ctx context.Context) ([]domlib.Library, error) {
	ids, err := r.store.LRange(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	if len(ids) == 0 {
		return []domlib.Library{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.libraryKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi libraries: %w", err)
	}

	libraries := make([]domlib.Library, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		l, err := libraryFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse library %s: %w", ids[i], err)
		}
		libraries = append(libraries, l)
	}
	return libraries, nil
}

// Key patterns: {prefix}library:{id}, {prefix}libraries

func (r *Repo) libraryKey(id string) string {
	return fmt.Sprintf("%slibrary:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "libraries"
}
