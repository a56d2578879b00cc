package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// Service runs editor text actions on a selection.
type Service struct {
	gen domain.Generator
}

// New creates an assist service.
func New(gen domain.Generator) *Service {
	return &Service{gen: gen}
}

// Run rewrites text with task. Only assist tasks are accepted and blank text is
// rejected with domain.ErrInvalidInput.
func (s *Service) Run(ctx context.Context, task domain.Task, text string, lang domain.Language) (string, error) {
	if !task.IsAssist() {
		return "", fmt.Errorf("unsupported assist task %q: %w", task, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}

	res, err := s.gen.Generate(ctx, domain.GenerationRequest{Task: task, Language: lang, Text: text})
	if err != nil {
		return "", fmt.Errorf("%s: %w", task, err)
	}
	return res.Text, nil
}
