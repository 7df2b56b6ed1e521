package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalinsight-backend/metrics"
	"legalinsight-backend/models"

	"go.uber.org/zap"
)

// AdviceDisclaimer replaces whatever disclaimer the model writes
const AdviceDisclaimer = "This is preliminary legal guidance and not a substitute for advice from a professional legal expert."

// DefaultJurisdiction is used when a checklist request names none
const DefaultJurisdiction = "India"

var ErrEmptySummary = errors.New("model returned an empty summary")

// Capabilities runs the prompt-driven legal capabilities against a Generator
type Capabilities struct {
	generator    Generator
	logger       *zap.Logger
	jurisdiction string
}

// CapabilitiesOption is a functional option for Capabilities
type CapabilitiesOption func(*Capabilities)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) CapabilitiesOption {
	return func(c *Capabilities) {
		c.logger = logger
	}
}

// WithDefaultJurisdiction overrides the jurisdiction used for checklists
func WithDefaultJurisdiction(jurisdiction string) CapabilitiesOption {
	return func(c *Capabilities) {
		if strings.TrimSpace(jurisdiction) != "" {
			c.jurisdiction = jurisdiction
		}
	}
}

// NewCapabilities creates the capability set
func NewCapabilities(generator Generator, opts ...CapabilitiesOption) *Capabilities {
	c := &Capabilities{
		generator:    generator,
		logger:       zap.NewNop(),
		jurisdiction: DefaultJurisdiction,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IdentifyLawsRequest asks for the laws applicable to a query
type IdentifyLawsRequest struct {
	Query            string
	UseCustomLibrary bool
	Documents        []string
}

// RetrievePrecedentRequest asks for precedents relevant to a legal question
type RetrievePrecedentRequest struct {
	LegalQuestion    string
	UseCustomLibrary bool
	Documents        []string
}

// GenerateChecklistRequest asks for a procedural checklist
type GenerateChecklistRequest struct {
	Query            string
	Jurisdiction     string
	UseCustomLibrary bool
	Documents        []string
}

// IdentifyLaws lists the Indian laws relevant to a query
func (c *Capabilities) IdentifyLaws(ctx context.Context, req IdentifyLawsRequest) (*models.LawsResult, error) {
	doc, err := c.call(ctx, lawsBoundary, buildIdentifyLawsPrompt(req.Query, req.UseCustomLibrary, req.Documents))
	if err != nil {
		return nil, err
	}
	return &models.LawsResult{Laws: asStrings(lawsBoundary.field(doc, "laws"))}, nil
}

// RetrievePrecedent lists past cases relevant to a legal question. The source
// type reflects which library the prompt was pointed at.
func (c *Capabilities) RetrievePrecedent(ctx context.Context, req RetrievePrecedentRequest) (*models.PrecedentsResult, error) {
	doc, err := c.call(ctx, precedentsBoundary, buildPrecedentPrompt(req.LegalQuestion, req.UseCustomLibrary, req.Documents))
	if err != nil {
		return nil, err
	}

	source := models.SourceGeneralKnowledgeBase
	if req.UseCustomLibrary {
		source = models.SourceCustomUserLibrary
	}
	return &models.PrecedentsResult{
		Precedents: asPrecedents(precedentsBoundary.field(doc, "precedents")),
		SourceType: source,
	}, nil
}

// GenerateChecklist produces ordered procedural steps for a legal matter
func (c *Capabilities) GenerateChecklist(ctx context.Context, req GenerateChecklistRequest) (*models.ChecklistResult, error) {
	jurisdiction := strings.TrimSpace(req.Jurisdiction)
	if jurisdiction == "" {
		jurisdiction = c.jurisdiction
	}

	doc, err := c.call(ctx, checklistBoundary, buildChecklistPrompt(req.Query, jurisdiction, req.UseCustomLibrary, req.Documents))
	if err != nil {
		return nil, err
	}
	return &models.ChecklistResult{Checklist: asStrings(checklistBoundary.field(doc, "checklist"))}, nil
}

// ParseStructuredLegalInfo segments raw retrieval text into laws, precedents
// and checklist. Sections the model cannot find come back empty.
func (c *Capabilities) ParseStructuredLegalInfo(ctx context.Context, rawText string) (*models.StructuredLegalInfo, error) {
	doc, err := c.call(ctx, structuredBoundary, buildStructuredPrompt(rawText))
	if err != nil {
		return nil, err
	}
	return &models.StructuredLegalInfo{
		Laws:       asStrings(structuredBoundary.field(doc, "laws")),
		Precedents: asPrecedents(structuredBoundary.field(doc, "precedents")),
		Checklist:  asStrings(structuredBoundary.field(doc, "checklist")),
	}, nil
}

// SummarizeDocument returns a concise summary of one legal document
func (c *Capabilities) SummarizeDocument(ctx context.Context, documentText string) (*models.DocumentSummary, error) {
	doc, err := c.call(ctx, summaryBoundary, buildSummaryPrompt(documentText))
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(asString(summaryBoundary.field(doc, "summary")))
	if summary == "" {
		return nil, ErrEmptySummary
	}
	return &models.DocumentSummary{Summary: summary}, nil
}

// ClientAdvice answers a lay client's question. The disclaimer is always the fixed text.
func (c *Capabilities) ClientAdvice(ctx context.Context, legalQuestion string) (*models.ClientAdvice, error) {
	doc, err := c.call(ctx, adviceBoundary, buildAdvicePrompt(legalQuestion))
	if err != nil {
		return nil, err
	}
	return &models.ClientAdvice{
		Advice:       strings.TrimSpace(asString(adviceBoundary.field(doc, "advice"))),
		RelevantLaws: asStrings(adviceBoundary.field(doc, "relevantLaws")),
		Disclaimer:   AdviceDisclaimer,
	}, nil
}

// call generates, decodes and validates one capability response. Schema
// violations are logged and counted; the caller coerces what it can.
func (c *Capabilities) call(ctx context.Context, b *boundary, prompt string) (interface{}, error) {
	start := time.Now()
	text, err := c.generator.Generate(ctx, prompt, b.schema)
	metrics.CapabilityDuration.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CapabilityCalls.WithLabelValues(b.name, "error").Inc()
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}

	doc, err := decodeJSON(text)
	if err != nil {
		metrics.CapabilityCalls.WithLabelValues(b.name, "invalid_output").Inc()
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}

	violations, err := b.validate(doc)
	if err != nil {
		c.logger.Warn("schema validation failed", zap.String("capability", b.name), zap.Error(err))
	} else if len(violations) > 0 {
		metrics.SchemaViolations.WithLabelValues(b.name).Inc()
		c.logger.Warn("model output does not match schema, coercing",
			zap.String("capability", b.name),
			zap.Strings("violations", violations))
	}

	metrics.CapabilityCalls.WithLabelValues(b.name, "ok").Inc()
	return doc, nil
}
