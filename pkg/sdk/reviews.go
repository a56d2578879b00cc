package papyrus

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReviewService generates and edits literature reviews.
type ReviewService struct {
	svc reviewUseCase
	obs *observer
}

// FromPapers generates a review of the given papers, optionally focused by prompt.
func (s *ReviewService) FromPapers(
	ctx context.Context, paperIDs []string, prompt string, lang Language,
) (_ Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opReviewFromPapers, start, err) }()

	if len(paperIDs) == 0 {
		return Review{}, fmt.Errorf("at least one paper id is required: %w", ErrInvalidInput)
	}
	l, err := languageToDomain(lang)
	if err != nil {
		return Review{}, err
	}
	rev, err := s.svc.GenerateLiteratureReview(ctx, paperIDs, prompt, l)
	if err != nil {
		return Review{}, fmt.Errorf("generate review: %w", err)
	}
	return reviewFromDomain(rev), nil
}

// FromPrompt generates a review from a topic prompt and free-form references.
func (s *ReviewService) FromPrompt(
	ctx context.Context, prompt string, references []string, lang Language,
) (_ Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opReviewFromPrompt, start, err) }()

	if strings.TrimSpace(prompt) == "" {
		return Review{}, fmt.Errorf("prompt is required: %w", ErrInvalidInput)
	}
	l, err := languageToDomain(lang)
	if err != nil {
		return Review{}, err
	}
	rev, err := s.svc.GeneratePromptBasedReview(ctx, prompt, references, l)
	if err != nil {
		return Review{}, fmt.Errorf("generate review: %w", err)
	}
	return reviewFromDomain(rev), nil
}

// Get returns a review by id, or ErrNotFound.
func (s *ReviewService) Get(ctx context.Context, id string) (_ Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opReviewGet, start, err) }()

	rev, ok, err := s.svc.GetReview(ctx, id)
	if err != nil {
		return Review{}, fmt.Errorf("get review %s: %w", id, err)
	}
	if !ok {
		return Review{}, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	return reviewFromDomain(rev), nil
}

// List returns every review, oldest first.
func (s *ReviewService) List(ctx context.Context) (_ []Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opReviewList, start, err) }()

	revs, err := s.svc.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]Review, len(revs))
	for i, r := range revs {
		out[i] = reviewFromDomain(r)
	}
	return out, nil
}

// UpdateContent replaces the content of a review.
func (s *ReviewService) UpdateContent(ctx context.Context, id, content string) (_ Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opReviewUpdate, start, err) }()

	rev, ok, err := s.svc.UpdateReviewContent(ctx, id, content)
	if err != nil {
		return Review{}, fmt.Errorf("update review %s: %w", id, err)
	}
	if !ok {
		return Review{}, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	return reviewFromDomain(rev), nil
}
