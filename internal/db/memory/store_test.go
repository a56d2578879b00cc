package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/papyrus/internal/db"
)

func TestHash_CopiesOnReadAndWrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := map[string]string{"name": "AI Research"}
	_ = s.HSet(ctx, "library:lib1", in)
	in["name"] = "mutated"

	got, _ := s.HGetAll(ctx, "library:lib1")
	if got["name"] != "AI Research" {
		t.Fatalf("store shares caller map: %v", got)
	}
	got["name"] = "mutated"
	again, _ := s.HGetAll(ctx, "library:lib1")
	if again["name"] != "AI Research" {
		t.Fatalf("store leaks internal map: %v", again)
	}
}

func TestHSetMulti_AndMulti(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.HSetMulti(ctx, []db.HashSetItem{
		{Key: "a", Fields: map[string]string{"f": "1"}},
		{Key: "b", Fields: map[string]string{"f": "2"}},
	})
	got, err := s.HGetAllMulti(ctx, []string{"b", "zzz", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0]["f"] != "2" || len(got[1]) != 0 || got[2]["f"] != "1" {
		t.Errorf("unexpected results: %v", got)
	}
}

func TestHCreate(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.HCreate(ctx, "review:r1", "id", map[string]string{"id": "r1", "content": "first"})
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}
	created, err = s.HCreate(ctx, "review:r1", "id", map[string]string{"id": "r1", "content": "second"})
	if err != nil || created {
		t.Fatalf("second create: created=%v err=%v", created, err)
	}
	got, _ := s.HGetAll(ctx, "review:r1")
	if got["content"] != "first" {
		t.Errorf("taken key was overwritten: %v", got)
	}

	if _, err := s.HCreate(ctx, "k", "id", map[string]string{"x": "1"}); err == nil {
		t.Error("expected error for missing guard field")
	}
}

func TestHCreate_ConcurrentSingleWinner(t *testing.T) {
	s := New()
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.HCreate(ctx, "k", "id", map[string]string{"id": "k"})
			if err == nil && created {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
}

func TestListAndExists(t *testing.T) {
	s := New()
	ctx := context.Background()

	if ok, _ := s.Exists(ctx, "papers"); ok {
		t.Fatal("empty store reports key")
	}
	_ = s.RPush(ctx, "papers", "1", "2")
	_ = s.RPush(ctx, "papers", "3")

	got, _ := s.LRange(ctx, "papers")
	if len(got) != 3 || got[2] != "3" {
		t.Errorf("unexpected list: %v", got)
	}
	if ok, _ := s.Exists(ctx, "papers"); !ok {
		t.Error("expected list key to exist")
	}
	_ = s.Del(ctx, "papers")
	got, _ = s.LRange(ctx, "papers")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice after Del, got %#v", got)
	}
}

func TestClose(t *testing.T) {
	s := New()
	s.Close()

	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.HSet(context.Background(), "k", nil); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestConcurrentRPush(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RPush(ctx, "l", "x")
		}()
	}
	wg.Wait()

	got, _ := s.LRange(ctx, "l")
	if len(got) != 50 {
		t.Errorf("expected 50 elements, got %d", len(got))
	}
}
