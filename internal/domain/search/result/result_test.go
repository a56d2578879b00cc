package result

import (
	"testing"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/domain/paper"
)

func mkPaper(id string) paper.Paper {
	return paper.Reconstruct(paper.Params{ID: id, Title: domain.Text{EN: id}})
}

func TestNew(t *testing.T) {
	r := New([]paper.Paper{mkPaper("a"), mkPaper("b")}, 3, false)

	if r.Total() != 2 {
		t.Errorf("Total() = %d", r.Total())
	}
	if r.Page() != 3 {
		t.Errorf("Page() = %d", r.Page())
	}
	if r.HasMore() {
		t.Error("HasMore() = true")
	}
	if r.Papers()[1].ID() != "b" {
		t.Errorf("Papers() order = %v", r.Papers())
	}
}

func TestEmpty(t *testing.T) {
	r := Empty(1)
	if r.Papers() == nil {
		t.Error("Papers() should be empty, not nil")
	}
	if r.Total() != 0 || r.Page() != 1 {
		t.Errorf("unexpected %+v", r)
	}
}

func TestWithPapers(t *testing.T) {
	r := New([]paper.Paper{mkPaper("a"), mkPaper("b")}, 2, false)
	narrowed := r.WithPapers([]paper.Paper{mkPaper("b")})
	if narrowed.Total() != 1 || narrowed.Page() != 2 {
		t.Errorf("unexpected %+v", narrowed)
	}
	if r.Total() != 2 {
		t.Error("receiver mutated")
	}
}
