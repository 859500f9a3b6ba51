package services

import (
	"context"
	"fmt"
	"strings"

	"doc-summarizer-platform/internal/ai"
)

// SummarizationService wraps the Gemini client for document summarization
// and question answering. Retrieval is deliberately naive: QA receives
// every chunk of the document (capped by contextLimit characters), not a
// relevance-ranked subset.
type SummarizationService struct {
	geminiClient *ai.GeminiClient
	contextLimit int
}

// NewSummarizationService creates a summarization service. geminiClient
// may be nil when no API key is configured; callers check Available.
func NewSummarizationService(geminiClient *ai.GeminiClient, contextLimit int) *SummarizationService {
	if contextLimit <= 0 {
		contextLimit = 8000
	}
	return &SummarizationService{
		geminiClient: geminiClient,
		contextLimit: contextLimit,
	}
}

// Available reports whether the generative backend is configured.
func (ss *SummarizationService) Available() bool {
	return ss.geminiClient != nil
}

// SummarizeText produces a summary of approximately maxLength words.
func (ss *SummarizationService) SummarizeText(ctx context.Context, text string, maxLength int) (string, error) {
	if !ss.Available() {
		return "", ai.ErrNotConfigured
	}

	prompt := buildSummarizePrompt(text, maxLength)
	summary, err := ss.geminiClient.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// AnswerQuestion answers a question using the document's chunks as
// context, joined in order and truncated to the context limit.
func (ss *SummarizationService) AnswerQuestion(ctx context.Context, question string, chunks []string) (string, error) {
	if !ss.Available() {
		return "", ai.ErrNotConfigured
	}

	contextText := strings.Join(chunks, "\n\n")
	if len(contextText) > ss.contextLimit {
		contextText = contextText[:ss.contextLimit] + "..."
	}

	prompt := buildQAPrompt(question, contextText)
	answer, err := ss.geminiClient.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("question answering failed: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func buildSummarizePrompt(text string, maxLength int) string {
	return fmt.Sprintf(`Please provide a concise summary of the following text in approximately %d words or less.

Focus on:
- Key points and main ideas
- Important facts and details
- Main conclusions or takeaways

Text to summarize:
%s

Summary:`, maxLength, text)
}

func buildQAPrompt(question, contextText string) string {
	return fmt.Sprintf(`Based on the following context, please answer the question. If the answer cannot be found in the context, please say so.

Context:
%s

Question: %s

Answer:`, contextText, question)
}
