package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalinsight-backend/autorag"
	"legalinsight-backend/config"
	"legalinsight-backend/metrics"
	"legalinsight-backend/models"
	"legalinsight-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HostedRetriever answers a query with one unstructured text blob
type HostedRetriever interface {
	Search(ctx context.Context, query string) (string, error)
}

// HistoryStore persists the queries of authenticated users
type HistoryStore interface {
	Create(ctx context.Context, item *models.QueryHistoryItem) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*models.QueryHistoryItem, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

const (
	pathCustomLibrary = "custom_library"
	pathGeneralModel  = "general_model"
	pathHosted        = "hosted_retrieval"

	historyWriteTimeout = 5 * time.Second
)

// InsightService decides per query which retrieval strategy answers it
type InsightService struct {
	aggregator    *Aggregator
	extractor     *Extractor
	hosted        HostedRetriever
	store         repository.DocumentStore
	history       HistoryStore
	sequences     *SequenceTracker
	generalSource config.GeneralSource
	logger        *zap.Logger
}

// InsightServiceOption is a functional option for InsightService
type InsightServiceOption func(*InsightService)

// InsightWithAggregator sets the fan-out aggregator
func InsightWithAggregator(a *Aggregator) InsightServiceOption {
	return func(s *InsightService) {
		s.aggregator = a
	}
}

// InsightWithExtractor sets the structured extractor
func InsightWithExtractor(e *Extractor) InsightServiceOption {
	return func(s *InsightService) {
		s.extractor = e
	}
}

// InsightWithHostedRetriever sets the hosted retrieval client
func InsightWithHostedRetriever(h HostedRetriever) InsightServiceOption {
	return func(s *InsightService) {
		s.hosted = h
	}
}

// InsightWithDocumentStore sets the custom library store
func InsightWithDocumentStore(store repository.DocumentStore) InsightServiceOption {
	return func(s *InsightService) {
		s.store = store
	}
}

// InsightWithHistory sets the history store
func InsightWithHistory(h HistoryStore) InsightServiceOption {
	return func(s *InsightService) {
		s.history = h
	}
}

// InsightWithSequenceTracker sets the staleness guard
func InsightWithSequenceTracker(t *SequenceTracker) InsightServiceOption {
	return func(s *InsightService) {
		s.sequences = t
	}
}

// InsightWithGeneralSource selects how general-knowledge queries are answered
func InsightWithGeneralSource(src config.GeneralSource) InsightServiceOption {
	return func(s *InsightService) {
		s.generalSource = src
	}
}

// InsightWithLogger sets the logger
func InsightWithLogger(logger *zap.Logger) InsightServiceOption {
	return func(s *InsightService) {
		s.logger = logger
	}
}

// NewInsightService creates a new insight service
func NewInsightService(opts ...InsightServiceOption) *InsightService {
	s := &InsightService{
		sequences:     NewSequenceTracker(),
		generalSource: config.GeneralSourceHosted,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InsightRequest represents a legal query from one session
type InsightRequest struct {
	Query            string
	UseCustomLibrary bool
	Jurisdiction     string
	Session          models.Session
}

// GetInsights answers a query. A result overtaken by a newer query of the
// same scope is discarded with ErrSuperseded.
func (s *InsightService) GetInsights(ctx context.Context, req InsightRequest) (*models.Insights, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	// only identified callers have a "latest query" to guard
	scope := req.Session.Scope()
	guarded := !req.Session.Anonymous()
	var seq uint64
	if guarded {
		seq = s.sequences.Next(scope)
	}

	var (
		insights *models.Insights
		path     string
		err      error
	)
	switch {
	case req.UseCustomLibrary:
		path = pathCustomLibrary
		insights, err = s.fromCustomLibrary(ctx, scope, req)
	case s.generalSource == config.GeneralSourceModel:
		path = pathGeneralModel
		insights, err = s.fanOut(ctx, AggregateRequest{Query: req.Query, Jurisdiction: req.Jurisdiction})
	default:
		path = pathHosted
		insights, err = s.fromHostedRetrieval(ctx, req.Query)
	}

	if guarded && !s.sequences.IsLatest(scope, seq) {
		metrics.SupersededQueries.Inc()
		s.logger.Info("discarding superseded result",
			zap.String("scope", scope),
			zap.Uint64("sequence", seq),
			zap.String("path", path))
		return nil, ErrSuperseded
	}
	if err != nil {
		metrics.InsightOutcomes.WithLabelValues(path, "error").Inc()
		return nil, err
	}

	insights.Sequence = seq
	metrics.InsightOutcomes.WithLabelValues(path, string(insights.Outcome)).Inc()

	s.recordHistory(ctx, req, insights)
	return insights, nil
}

func (s *InsightService) fromCustomLibrary(ctx context.Context, scope string, req InsightRequest) (*models.Insights, error) {
	if s.store == nil {
		return nil, ErrLibraryUnavailable
	}
	docs, err := s.store.ReadAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}

	return s.fanOut(ctx, AggregateRequest{
		Query:            req.Query,
		UseCustomLibrary: true,
		Documents:        docs,
		Jurisdiction:     req.Jurisdiction,
	})
}

func (s *InsightService) fanOut(ctx context.Context, req AggregateRequest) (*models.Insights, error) {
	if s.aggregator == nil {
		return nil, errors.New("aggregator not set")
	}
	return s.aggregator.Aggregate(ctx, req)
}

// fromHostedRetrieval never falls back to another strategy on failure
func (s *InsightService) fromHostedRetrieval(ctx context.Context, query string) (*models.Insights, error) {
	if s.hosted == nil {
		err := &autorag.Error{Kind: autorag.KindConfiguration, Message: "hosted retrieval is not configured"}
		metrics.RetrievalErrors.WithLabelValues(string(err.Kind)).Inc()
		return nil, err
	}
	if s.extractor == nil {
		return nil, errors.New("extractor not set")
	}

	raw, err := s.hosted.Search(ctx, query)
	if err != nil {
		kind := "unknown"
		var ragErr *autorag.Error
		if errors.As(err, &ragErr) {
			kind = string(ragErr.Kind)
		}
		metrics.RetrievalErrors.WithLabelValues(kind).Inc()
		s.logger.Warn("hosted retrieval failed", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	info, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		s.logger.Error("structured extraction failed", zap.Int("raw_len", len(raw)), zap.Error(err))
		return nil, err
	}
	return info.Insights(models.SourceHostedRetrievalService), nil
}

// recordHistory never fails the query; errors are only logged
func (s *InsightService) recordHistory(ctx context.Context, req InsightRequest, insights *models.Insights) {
	if s.history == nil || !req.Session.PersistsHistory() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	item := &models.QueryHistoryItem{
		UserID:  req.Session.UserID,
		Query:   req.Query,
		Results: models.NewHistoryResults(insights),
	}
	if err := s.history.Create(ctx, item); err != nil {
		s.logger.Warn("failed to save query history",
			zap.String("user_id", req.Session.UserID),
			zap.Error(err))
	}
}
