package service

import (
	"context"
	"strings"

	"legalinsight-backend/models"
)

// StructuredParser turns raw retrieval text into structured legal information
type StructuredParser interface {
	ParseStructuredLegalInfo(ctx context.Context, rawText string) (*models.StructuredLegalInfo, error)
}

// Extractor parses hosted retrieval answers
type Extractor struct {
	parser StructuredParser
}

// NewExtractor creates a new extractor
func NewExtractor(parser StructuredParser) *Extractor {
	return &Extractor{parser: parser}
}

// Extract returns all-empty sections for blank input without calling the
// parser. A parser failure is returned as *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*models.StructuredLegalInfo, error) {
	if strings.TrimSpace(rawText) == "" {
		return models.EmptyStructuredLegalInfo(), nil
	}

	info, err := e.parser.ParseStructuredLegalInfo(ctx, rawText)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	if info == nil {
		return models.EmptyStructuredLegalInfo(), nil
	}

	return &models.StructuredLegalInfo{
		Laws:       models.CleanStrings(info.Laws),
		Precedents: models.CleanPrecedents(info.Precedents),
		Checklist:  models.CleanStrings(info.Checklist),
	}, nil
}
