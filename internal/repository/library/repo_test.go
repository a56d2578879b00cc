package library

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// --- Create ---

func TestCreate_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var pushed bool
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "papyrus:library:lib1" {
			t.Errorf("unexpected key: %s", key)
		}
		if fields["paper_ids_json"] != `["1","3"]` {
			t.Errorf("unexpected paper ids: %s", fields["paper_ids_json"])
		}
		if fields["created_at"] != "2023-05-10T12:00:00Z" {
			t.Errorf("unexpected created_at: %s", fields["created_at"])
		}
		return nil
	}
	ms.rpushFn = func(_ context.Context, key string, values ...string) error {
		pushed = key == "papyrus:libraries" && len(values) == 1 && values[0] == "lib1"
		return nil
	}

	if err := repo.Create(ctx, testLibrary(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pushed {
		t.Error("expected library id appended to index")
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		t.Error("HSET must not be called")
		return nil
	}

	if err := repo.Create(context.Background(), testLibrary(t)); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestCreate_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}
	if err := repo.Create(context.Background(), testLibrary(t)); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

// --- Update ---

func TestUpdate_WritesWithoutIndexing(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.rpushFn = func(_ context.Context, _ string, _ ...string) error {
		t.Error("Update must not touch the index")
		return nil
	}
	var got string
	ms.hsetFn = func(_ context.Context, _ string, fields map[string]string) error {
		got = fields["paper_ids_json"]
		return nil
	}

	l, _ := testLibrary(t).WithPaper("2")
	if err := repo.Update(context.Background(), l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `["1","3","2"]` {
		t.Errorf("unexpected paper ids: %s", got)
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	fields, _ := libraryToHash(testLibrary(t))
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) { return fields, nil }

	l, err := repo.Get(context.Background(), "lib1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Name() != "AI Research" || l.Len() != 2 || !l.Contains("3") {
		t.Errorf("unexpected library: %s %v", l.Name(), l.PaperIDs())
	}
	if !l.CreatedAt().Equal(testLibrary(t).CreatedAt()) {
		t.Errorf("created_at mismatch: %v", l.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_InvalidCreatedAt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"id": "lib1", "created_at": "yesterday"}, nil
	}
	if _, err := repo.Get(context.Background(), "lib1"); err == nil {
		t.Fatal("expected parse error")
	}
}

// --- List ---

func TestList_InIndexOrder(t *testing.T) {
	repo, ms := newTestRepo(t)
	first, _ := libraryToHash(testLibrary(t))
	second := map[string]string{
		"id": "lib2", "name": "Climate Studies", "paper_ids_json": `["2"]`,
		"created_at": "2023-06-15T14:30:00Z",
	}

	ms.lrangeFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"lib1", "lib2", "lost"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{first, second, {}}, nil
	}

	libs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(libs) != 2 || libs[0].ID() != "lib1" || libs[1].ID() != "lib2" {
		t.Fatalf("unexpected libraries: %v", libs)
	}
}

func TestList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	libs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if libs == nil || len(libs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", libs)
	}
}
