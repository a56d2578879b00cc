// Package placeholder provides an offline generator that returns fixed,
// clearly marked sample text. It is the default when no provider is configured.
package placeholder

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// shortenThreshold is the rune count above which shorten halves the text.
const shortenThreshold = 20

var papersReview = domain.Text{
	EN: "This is a mock literature review generated from the selected papers. " +
		"In a real application, this would be generated by an AI model based on " +
		"the content of the papers and the provided prompt.",
	FA: "این یک مرور ادبیات نمونه است که از مقالات انتخاب شده تولید شده است. " +
		"در یک برنامه واقعی، این توسط یک مدل هوش مصنوعی براساس محتوای مقالات و " +
		"دستور ارائه شده تولید می‌شود.",
}

// Generator returns deterministic sample text and reports no token usage.
type Generator struct{}

// New creates a placeholder generator.
func New() *Generator { return &Generator{} }

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResult{}, fmt.Errorf("placeholder generate: %w", err)
	}

	var text string
	switch req.Task {
	case domain.TaskLiteratureReview:
		text = papersReview.For(req.Language)
	case domain.TaskPromptReview:
		text = promptReview(req.Language, req.Prompt, req.References)
	case domain.TaskParaphrase:
		text = fmt.Sprintf("Paraphrased: %s (This is a simulated paraphrasing result)", req.Text)
	case domain.TaskCite:
		text = req.Text + " (Author, Year)"
	case domain.TaskExpand:
		text = req.Text + " This expanded version provides additional context and explanation " +
			"to make the point more comprehensive and detailed."
	case domain.TaskShorten:
		text = shorten(req.Text)
	default:
		return domain.GenerationResult{}, fmt.Errorf("placeholder: unsupported task %q: %w",
			req.Task, domain.ErrNotImplemented)
	}
	return domain.GenerationResult{Text: text}, nil
}

// HealthCheck always succeeds.
func (g *Generator) HealthCheck(context.Context) error { return nil }

func promptReview(lang domain.Language, prompt string, refs []string) string {
	if lang == domain.Farsi {
		var extra string
		if len(refs) > 0 {
			extra = "مقالات اضافی در نظر گرفته شده: " + strings.Join(refs, ", ") + ". "
		}
		return fmt.Sprintf("این یک مرور ادبیات نمونه است که بر اساس پرامپت تولید شده است: \"%s\". %s"+
			"در یک برنامه واقعی، این توسط یک مدل هوش مصنوعی تولید می‌شود که بر اساس پرامپت، "+
			"مقالات مرتبط را جستجو می‌کند و یک مرور جامع تولید می‌کند.", prompt, extra)
	}

	var extra string
	if len(refs) > 0 {
		extra = "Additional papers considered: " + strings.Join(refs, ", ") + ". "
	}
	return fmt.Sprintf("This is a mock literature review generated based on the prompt: \"%s\". %s"+
		"In a real application, this would be generated by an AI model that would search for "+
		"relevant papers based on the prompt and generate a comprehensive review.", prompt, extra)
}

func shorten(text string) string {
	r := []rune(text)
	if len(r) <= shortenThreshold {
		return text
	}
	return string(r[:len(r)/2]) + "..."
}
