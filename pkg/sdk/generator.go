package papyrus

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// Task is the kind of text a Generator is asked to produce.
type Task string

// Generation tasks.
const (
	TaskLiteratureReview Task = "literature_review"
	TaskPromptReview     Task = "prompt_review"
	TaskParaphrase       Task = "paraphrase"
	TaskCite             Task = "cite"
	TaskExpand           Task = "expand"
	TaskShorten          Task = "shorten"
)

// SourcePaper is the part of a paper passed to a generator.
type SourcePaper struct {
	ID       string
	Title    string
	Authors  []string
	Year     int
	Journal  string
	Abstract string
}

// GenerationRequest is the input of a single generation call.
type GenerationRequest struct {
	Task        Task
	Language    Language
	Instruction string // operator instruction, separate from the user's prompt
	Prompt      string
	Papers      []SourcePaper
	References  []string
	Text        string
}

// GenerationResult carries generated text and token counts.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Generator produces review and assist text.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// generatorAdapter bridges a public Generator into domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	papers := make([]SourcePaper, len(req.Papers))
	for i, p := range req.Papers {
		papers[i] = SourcePaper{
			ID: p.ID, Title: p.Title, Authors: p.Authors, Year: p.Year, Journal: p.Journal, Abstract: p.Abstract,
		}
	}
	res, err := a.inner.Generate(ctx, GenerationRequest{
		Task:        Task(req.Task),
		Language:    Language(req.Language),
		Instruction: req.Instruction,
		Prompt:      req.Prompt,
		Papers:      papers,
		References:  req.References,
		Text:        req.Text,
	})
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	if res.Text == "" {
		return domain.GenerationResult{}, errors.New("generator returned empty text")
	}
	return domain.GenerationResult{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
	}, nil
}

// HealthCheck delegates when the wrapped generator exposes one.
func (a *generatorAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent adapter
	}
	return nil
}
