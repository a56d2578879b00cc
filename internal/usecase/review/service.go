package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
)

// maxIDAttempts bounds how far create steps the timestamp to find a free id.
const maxIDAttempts = 8

// Service generates literature reviews and keeps them editable.
type Service struct {
	papers  PaperSource
	reviews Repository
	gen     domain.Generator

	// mu serializes id allocation and content edits.
	mu  sync.Mutex
	now func() time.Time
}

// New creates a review service.
func New(papers PaperSource, reviews Repository, gen domain.Generator) *Service {
	return &Service{papers: papers, reviews: reviews, gen: gen, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateLiteratureReview synthesizes a review from the given papers, guided by
// prompt. Ids that do not resolve are left out of the sources but kept on the
// review as submitted.
func (s *Service) GenerateLiteratureReview(
	ctx context.Context, paperIDs []string, prompt string, lang domain.Language,
) (domreview.LiteratureReview, error) {
	papers, err := s.papers.Papers(ctx, paperIDs)
	if err != nil {
		return domreview.LiteratureReview{}, fmt.Errorf("resolve papers: %w", err)
	}

	res, err := s.gen.Generate(ctx, domain.GenerationRequest{
		Task:     domain.TaskLiteratureReview,
		Language: lang,
		Prompt:   prompt,
		Papers:   sourcePapers(papers, lang),
	})
	if err != nil {
		return domreview.LiteratureReview{}, fmt.Errorf("literature review: %w", err)
	}

	return s.create(ctx, func(at time.Time) domreview.LiteratureReview {
		return domreview.New(domreview.FromPapers, domreview.PapersTitle(lang), res.Text, lang, paperIDs, at)
	})
}

// GeneratePromptBasedReview synthesizes a review from prompt alone. references are
// free-form hints passed to the generator; the review records no paper ids.
func (s *Service) GeneratePromptBasedReview(
	ctx context.Context, prompt string, references []string, lang domain.Language,
) (domreview.LiteratureReview, error) {
	res, err := s.gen.Generate(ctx, domain.GenerationRequest{
		Task:       domain.TaskPromptReview,
		Language:   lang,
		Prompt:     prompt,
		References: references,
	})
	if err != nil {
		return domreview.LiteratureReview{}, fmt.Errorf("prompt review: %w", err)
	}

	return s.create(ctx, func(at time.Time) domreview.LiteratureReview {
		return domreview.New(domreview.FromPrompt, domreview.PromptTitle(lang, prompt), res.Text, lang, nil, at)
	})
}

// create stores the review built for the current time. When that id is taken
// the timestamp moves forward one nanosecond at a time.
func (s *Service) create(
	ctx context.Context, build func(at time.Time) domreview.LiteratureReview,
) (domreview.LiteratureReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UTC()
	for range maxIDAttempts {
		rev := build(at)
		err := s.reviews.Create(ctx, rev)
		if err == nil {
			return rev, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return domreview.LiteratureReview{}, domain.Unavailable("save review", err)
		}
		at = at.Add(time.Nanosecond)
	}
	return domreview.LiteratureReview{}, fmt.Errorf("save review: no free id after %d attempts", maxIDAttempts)
}

// GetReview looks up a review. ok is false when the id does not resolve.
func (s *Service) GetReview(ctx context.Context, id string) (r domreview.LiteratureReview, ok bool, err error) {
	r, err = s.reviews.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domreview.LiteratureReview{}, false, nil
	}
	if err != nil {
		return domreview.LiteratureReview{}, false, domain.Unavailable("get review", err)
	}
	return r, true, nil
}

// ListReviews returns every review, oldest first.
func (s *Service) ListReviews(ctx context.Context) ([]domreview.LiteratureReview, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, domain.Unavailable("list reviews", err)
	}
	return reviews, nil
}

// UpdateReviewContent replaces the content of a review. ok is false when the id
// does not resolve.
func (s *Service) UpdateReviewContent(
	ctx context.Context, id, content string,
) (r domreview.LiteratureReview, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok, err = s.GetReview(ctx, id)
	if err != nil || !ok {
		return domreview.LiteratureReview{}, ok, err
	}
	r = r.WithContent(content)
	if err := s.reviews.Update(ctx, r); err != nil {
		return domreview.LiteratureReview{}, false, domain.Unavailable("save review", err)
	}
	return r, true, nil
}

func sourcePapers(papers []dompaper.Paper, lang domain.Language) []domain.SourcePaper {
	out := make([]domain.SourcePaper, len(papers))
	for i, p := range papers {
		out[i] = domain.SourcePaper{
			ID:       p.ID(),
			Title:    p.Title().For(lang),
			Authors:  p.Authors(),
			Year:     p.Year(),
			Journal:  p.Journal(),
			Abstract: p.Abstract().For(lang),
		}
	}
	return out
}
