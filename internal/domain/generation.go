package domain

import (
	"context"
	"fmt"
	"strings"
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

// IsValid checks if the task is supported.
func (t Task) IsValid() bool {
	switch t {
	case TaskLiteratureReview, TaskPromptReview, TaskParaphrase, TaskCite, TaskExpand, TaskShorten:
		return true
	}
	return false
}

// IsAssist reports whether the task rewrites a text selection.
func (t Task) IsAssist() bool {
	return t == TaskParaphrase || t == TaskCite || t == TaskExpand || t == TaskShorten
}

// SourcePaper is the slice of a paper a generator needs.
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
	Task     Task
	Language Language
	// Instruction is a standing operator instruction emitted ahead of every task.
	// It is never part of the user-visible prompt.
	Instruction string
	// Prompt is the user's instruction (review tasks).
	Prompt string
	// Papers are the resolved sources of a literature review.
	Papers []SourcePaper
	// References are free-form paper references supplied with a prompt review.
	References []string
	// Text is the selection rewritten by assist tasks.
	Text string
}

// GenerationResult carries generated text and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// TotalTokens returns prompt plus completion tokens.
func (r GenerationResult) TotalTokens() int { return r.PromptTokens + r.CompletionTokens }

// Generator is the shared text generation contract between layers.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RenderPrompt turns a request into a single natural-language prompt for
// chat-style providers.
func RenderPrompt(req GenerationRequest) string {
	var b strings.Builder
	lang := "English"
	if req.Language == Farsi {
		lang = "Farsi"
	}
	if req.Instruction != "" {
		b.WriteString(req.Instruction)
		b.WriteString("\n\n")
	}

	switch req.Task {
	case TaskLiteratureReview:
		fmt.Fprintf(&b, "Write an academic literature review in %s based on the papers below.\n", lang)
		if req.Prompt != "" {
			fmt.Fprintf(&b, "Focus: %s\n", req.Prompt)
		}
		for i, p := range req.Papers {
			fmt.Fprintf(&b, "\n[%d] %s (%d)", i+1, p.Title, p.Year)
			if len(p.Authors) > 0 {
				fmt.Fprintf(&b, " by %s", strings.Join(p.Authors, ", "))
			}
			if p.Journal != "" {
				fmt.Fprintf(&b, ", %s", p.Journal)
			}
			if p.Abstract != "" {
				fmt.Fprintf(&b, "\nAbstract: %s", p.Abstract)
			}
			b.WriteString("\n")
		}
	case TaskPromptReview:
		fmt.Fprintf(&b, "Write an academic literature review in %s on the following topic, "+
			"drawing on relevant published research.\nTopic: %s\n", lang, req.Prompt)
		if len(req.References) > 0 {
			fmt.Fprintf(&b, "Also consider these papers: %s\n", strings.Join(req.References, "; "))
		}
	case TaskParaphrase:
		fmt.Fprintf(&b, "Paraphrase the following text in %s, keeping its meaning:\n\n%s", lang, req.Text)
	case TaskCite:
		fmt.Fprintf(&b, "Add an in-text citation in (Author, Year) form to the following %s text:\n\n%s",
			lang, req.Text)
	case TaskExpand:
		fmt.Fprintf(&b, "Expand the following %s text with more context and detail:\n\n%s", lang, req.Text)
	case TaskShorten:
		fmt.Fprintf(&b, "Shorten the following %s text to about half its length:\n\n%s", lang, req.Text)
	default:
		b.WriteString(req.Prompt)
	}
	return b.String()
}

// InstructionGenerator is a domain decorator that attaches a standing instruction
// to every request, whatever its task.
type InstructionGenerator struct {
	inner       Generator
	instruction string
}

// NewInstructionGenerator creates a decorator that attaches instruction text.
func NewInstructionGenerator(inner Generator, instruction string) *InstructionGenerator {
	return &InstructionGenerator{inner: inner, instruction: instruction}
}

// Generate sets the instruction on the request and delegates to the inner generator.
// An instruction already on the request is kept after the decorator's own.
func (g *InstructionGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	if g.instruction != "" {
		if req.Instruction == "" {
			req.Instruction = g.instruction
		} else {
			req.Instruction = g.instruction + "\n" + req.Instruction
		}
	}
	res, err := g.inner.Generate(ctx, req)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("instruction generate: %w", err)
	}
	return res, nil
}

// HealthCheck delegates to the inner generator when it supports health checks.
func (g *InstructionGenerator) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
