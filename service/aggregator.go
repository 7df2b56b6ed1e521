package service

import (
	"context"
	"fmt"
	"strings"

	"legalinsight-backend/llm"
	"legalinsight-backend/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LegalCapabilities are the three calls fanned out for every query
type LegalCapabilities interface {
	IdentifyLaws(ctx context.Context, req llm.IdentifyLawsRequest) (*models.LawsResult, error)
	RetrievePrecedent(ctx context.Context, req llm.RetrievePrecedentRequest) (*models.PrecedentsResult, error)
	GenerateChecklist(ctx context.Context, req llm.GenerateChecklistRequest) (*models.ChecklistResult, error)
}

const unknownErrorMessage = "An unknown error occurred."

// Aggregator runs identify-laws, retrieve-precedent and generate-checklist
// concurrently and merges whatever succeeds.
type Aggregator struct {
	caps   LegalCapabilities
	logger *zap.Logger
}

// AggregatorOption is a functional option for Aggregator
type AggregatorOption func(*Aggregator)

// AggregatorWithLogger sets the logger
func AggregatorWithLogger(logger *zap.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates a new aggregator
func NewAggregator(caps LegalCapabilities, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{caps: caps, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AggregateRequest represents one fan-out query
type AggregateRequest struct {
	Query            string
	UseCustomLibrary bool
	Documents        []string
	Jurisdiction     string
}

// Aggregate fails only for a blank query. Once dispatched, every slice
// failure becomes an empty slice plus a notice.
func (a *Aggregator) Aggregate(ctx context.Context, req AggregateRequest) (*models.Insights, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	source := models.SourceGeneralKnowledgeBase
	if req.UseCustomLibrary {
		source = models.SourceCustomUserLibrary
	}

	var (
		laws       *models.LawsResult
		precedents *models.PrecedentsResult
		checklist  *models.ChecklistResult

		lawsErr, precedentsErr, checklistErr error
	)

	var eg errgroup.Group
	eg.Go(func() error {
		lawsErr = runSlice(func() (err error) {
			laws, err = a.caps.IdentifyLaws(ctx, llm.IdentifyLawsRequest{
				Query:            req.Query,
				UseCustomLibrary: req.UseCustomLibrary,
				Documents:        req.Documents,
			})
			return err
		})
		return nil
	})
	eg.Go(func() error {
		precedentsErr = runSlice(func() (err error) {
			precedents, err = a.caps.RetrievePrecedent(ctx, llm.RetrievePrecedentRequest{
				LegalQuestion:    req.Query,
				UseCustomLibrary: req.UseCustomLibrary,
				Documents:        req.Documents,
			})
			return err
		})
		return nil
	})
	eg.Go(func() error {
		checklistErr = runSlice(func() (err error) {
			checklist, err = a.caps.GenerateChecklist(ctx, llm.GenerateChecklistRequest{
				Query:            req.Query,
				Jurisdiction:     req.Jurisdiction,
				UseCustomLibrary: req.UseCustomLibrary,
				Documents:        req.Documents,
			})
			return err
		})
		return nil
	})
	_ = eg.Wait()

	out := models.EmptyInsights(source)
	failures := 0

	if lawsErr != nil {
		failures++
		out.Notices = append(out.Notices, a.failedSlice(models.SliceLaws, "Error Identifying Laws", lawsErr, req.Query))
	} else if laws != nil {
		out.Laws.Laws = models.CleanStrings(laws.Laws)
	}

	if precedentsErr != nil {
		failures++
		out.Notices = append(out.Notices, a.failedSlice(models.SlicePrecedents, "Error Retrieving Precedents", precedentsErr, req.Query))
	} else if precedents != nil {
		out.Precedents.Precedents = models.CleanPrecedents(precedents.Precedents)
	}

	if checklistErr != nil {
		failures++
		out.Notices = append(out.Notices, a.failedSlice(models.SliceChecklist, "Error Generating Checklist", checklistErr, req.Query))
	} else if checklist != nil {
		out.Checklist.Checklist = models.CleanStrings(checklist.Checklist)
	}

	switch failures {
	case 0:
		out.Outcome = models.OutcomeComplete
	case 3:
		out.Outcome = models.OutcomeNoInsights
		out.Notices = append(out.Notices, models.Notice{
			Title:   "No Insights Generated",
			Message: "Could not generate any insights. Please try refining your query.",
		})
	default:
		out.Outcome = models.OutcomePartial
	}

	return out, nil
}

func (a *Aggregator) failedSlice(slice models.Slice, title string, err error, query string) models.Notice {
	a.logger.Warn("capability slice failed",
		zap.String("slice", string(slice)),
		zap.Int("query_len", len(query)),
		zap.Error(err))

	msg := err.Error()
	if msg == "" {
		msg = unknownErrorMessage
	}
	return models.Notice{Slice: slice, Title: title, Message: msg}
}

// runSlice turns a panic inside one slice into that slice's error
func runSlice(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
