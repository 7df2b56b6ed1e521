package service

import (
	"context"
	"sync"

	"legalinsight-backend/llm"
	"legalinsight-backend/models"

	"github.com/google/uuid"
)

type fakeCapabilities struct {
	mu sync.Mutex

	laws       func(req llm.IdentifyLawsRequest) (*models.LawsResult, error)
	precedents func(req llm.RetrievePrecedentRequest) (*models.PrecedentsResult, error)
	checklist  func(req llm.GenerateChecklistRequest) (*models.ChecklistResult, error)

	lawsReqs      []llm.IdentifyLawsRequest
	precedentReqs []llm.RetrievePrecedentRequest
	checklistReqs []llm.GenerateChecklistRequest
}

func newSuccessfulCapabilities() *fakeCapabilities {
	return &fakeCapabilities{
		laws: func(llm.IdentifyLawsRequest) (*models.LawsResult, error) {
			return &models.LawsResult{Laws: []string{"Transfer of Property Act, 1882, Section 106"}}, nil
		},
		precedents: func(req llm.RetrievePrecedentRequest) (*models.PrecedentsResult, error) {
			source := models.SourceGeneralKnowledgeBase
			if req.UseCustomLibrary {
				source = models.SourceCustomUserLibrary
			}
			return &models.PrecedentsResult{
				Precedents: []models.Precedent{{CaseName: "V. Dhanapal Chettiar v. Yesodai Ammal", Citation: "(1979) 4 SCC 214", Summary: "Notice under Section 106 not required under rent control acts."}},
				SourceType: source,
			}, nil
		},
		checklist: func(llm.GenerateChecklistRequest) (*models.ChecklistResult, error) {
			return &models.ChecklistResult{Checklist: []string{"Check the lease terms", "Respond to the eviction notice"}}, nil
		},
	}
}

func (f *fakeCapabilities) IdentifyLaws(ctx context.Context, req llm.IdentifyLawsRequest) (*models.LawsResult, error) {
	f.mu.Lock()
	f.lawsReqs = append(f.lawsReqs, req)
	f.mu.Unlock()
	return f.laws(req)
}

func (f *fakeCapabilities) RetrievePrecedent(ctx context.Context, req llm.RetrievePrecedentRequest) (*models.PrecedentsResult, error) {
	f.mu.Lock()
	f.precedentReqs = append(f.precedentReqs, req)
	f.mu.Unlock()
	return f.precedents(req)
}

func (f *fakeCapabilities) GenerateChecklist(ctx context.Context, req llm.GenerateChecklistRequest) (*models.ChecklistResult, error) {
	f.mu.Lock()
	f.checklistReqs = append(f.checklistReqs, req)
	f.mu.Unlock()
	return f.checklist(req)
}

func (f *fakeCapabilities) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lawsReqs) + len(f.precedentReqs) + len(f.checklistReqs)
}

type fakeParser struct {
	mu    sync.Mutex
	info  *models.StructuredLegalInfo
	err   error
	calls int
}

func (f *fakeParser) ParseStructuredLegalInfo(ctx context.Context, rawText string) (*models.StructuredLegalInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.info, f.err
}

type fakeRetriever struct {
	mu       sync.Mutex
	response string
	err      error
	queries  []string

	// entered and release let a test hold one search in flight
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRetriever) Search(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	entered, release := f.entered, f.release
	f.entered, f.release = nil, nil
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return f.response, f.err
}

type fakeHistory struct {
	mu      sync.Mutex
	items   []*models.QueryHistoryItem
	err     error
	limit   int
	deleted []uuid.UUID
}

func (f *fakeHistory) Create(ctx context.Context, item *models.QueryHistoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	item.ID = uuid.New()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeHistory) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.QueryHistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.QueryHistoryItem, 0)
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeHistory) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, item := range f.items {
		if item.ID == id && item.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeFiles struct {
	mu      sync.Mutex
	files   []*models.LibraryFile
	cleared []string
}

func (f *fakeFiles) Create(ctx context.Context, file *models.LibraryFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file)
	return nil
}

func (f *fakeFiles) GetByID(ctx context.Context, scope string, id uuid.UUID) (*models.LibraryFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.Scope == scope && file.ID == id {
			return file, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeFiles) ListByScope(ctx context.Context, scope string) ([]*models.LibraryFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.LibraryFile, 0)
	for _, file := range f.files {
		if file.Scope == scope {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFiles) DeleteByScope(ctx context.Context, scope string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, scope)
	var paths []string
	kept := f.files[:0]
	for _, file := range f.files {
		if file.Scope == scope {
			paths = append(paths, file.StoragePath)
			continue
		}
		kept = append(kept, file)
	}
	f.files = kept
	return paths, nil
}

type fakeAssistant struct {
	summary *models.DocumentSummary
	advice  *models.ClientAdvice
	err     error
}

func (f *fakeAssistant) SummarizeDocument(ctx context.Context, documentText string) (*models.DocumentSummary, error) {
	return f.summary, f.err
}

func (f *fakeAssistant) ClientAdvice(ctx context.Context, legalQuestion string) (*models.ClientAdvice, error) {
	return f.advice, f.err
}
