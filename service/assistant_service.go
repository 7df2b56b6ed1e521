package service

import (
	"context"
	"fmt"
	"strings"

	"legalinsight-backend/models"
)

// AssistantCapabilities are the single-shot helper calls
type AssistantCapabilities interface {
	SummarizeDocument(ctx context.Context, documentText string) (*models.DocumentSummary, error)
	ClientAdvice(ctx context.Context, legalQuestion string) (*models.ClientAdvice, error)
}

// AssistantService handles document summarization and client advice
type AssistantService struct {
	caps AssistantCapabilities
}

// NewAssistantService creates a new assistant service
func NewAssistantService(caps AssistantCapabilities) *AssistantService {
	return &AssistantService{caps: caps}
}

// Summarize returns a summary of a legal document
func (s *AssistantService) Summarize(ctx context.Context, documentText string) (*models.DocumentSummary, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, ErrEmptyDocument
	}
	summary, err := s.caps.SummarizeDocument(ctx, documentText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
	return summary, nil
}

// Advise answers a client's legal question with preliminary guidance
func (s *AssistantService) Advise(ctx context.Context, legalQuestion string) (*models.ClientAdvice, error) {
	if strings.TrimSpace(legalQuestion) == "" {
		return nil, ErrEmptyQuery
	}
	advice, err := s.caps.ClientAdvice(ctx, legalQuestion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdviceFailed, err)
	}
	if advice.RelevantLaws == nil {
		advice.RelevantLaws = []string{}
	}
	return advice, nil
}
