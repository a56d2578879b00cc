package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

type mockGenerator struct {
	err   error
	got   domain.GenerationRequest
	calls int
}

func (m *mockGenerator) Generate(_ context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	m.calls++
	m.got = req
	return domain.GenerationResult{Text: "out:" + req.Text}, m.err
}

func TestRun(t *testing.T) {
	gen := &mockGenerator{}
	svc := New(gen)

	got, err := svc.Run(context.Background(), domain.TaskParaphrase, "some text", domain.Farsi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "out:some text" {
		t.Errorf("Run() = %q", got)
	}
	if gen.got.Task != domain.TaskParaphrase || gen.got.Language != domain.Farsi {
		t.Errorf("unexpected request %+v", gen.got)
	}
}

func TestRun_Rejects(t *testing.T) {
	tests := []struct {
		name string
		task domain.Task
		text string
	}{
		{"empty text", domain.TaskCite, ""},
		{"blank text", domain.TaskExpand, "  \n"},
		{"review task", domain.TaskLiteratureReview, "text"},
		{"unknown task", domain.Task("translate"), "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			_, err := New(gen).Run(context.Background(), tt.task, tt.text, domain.English)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if gen.calls != 0 {
				t.Error("generator must not be called")
			}
		})
	}
}

func TestRun_GeneratorError(t *testing.T) {
	svc := New(&mockGenerator{err: domain.ErrRateLimited})

	_, err := svc.Run(context.Background(), domain.TaskShorten, "text", domain.English)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}
