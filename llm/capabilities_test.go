package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"legalinsight-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	schemas  []*genai.Schema
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	return f.response, f.err
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func TestIdentifyLaws(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"laws\": [\" Transfer of Property Act, 1882 \", \"\", \"Section 106\"]}\n```"}
	caps := NewCapabilities(gen)

	result, err := caps.IdentifyLaws(context.Background(), IdentifyLawsRequest{Query: "Tenant eviction without notice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Transfer of Property Act, 1882", "Section 106"}, result.Laws)
	assert.Contains(t, gen.lastPrompt(), "Tenant eviction without notice")
	assert.NotContains(t, gen.lastPrompt(), "custom library")
	assert.Same(t, lawsBoundary.schema, gen.schemas[0])
}

func TestRetrievePrecedent_CustomLibraryEmpty(t *testing.T) {
	gen := &fakeGenerator{response: `{"precedents": []}`}
	caps := NewCapabilities(gen)

	result, err := caps.RetrievePrecedent(context.Background(), RetrievePrecedentRequest{
		LegalQuestion:    "Tenant eviction without notice",
		UseCustomLibrary: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, result.Precedents)
	assert.Empty(t, result.Precedents)
	assert.Equal(t, models.SourceCustomUserLibrary, result.SourceType)
	assert.Contains(t, gen.lastPrompt(), "custom library is currently empty")
}

func TestRetrievePrecedent_CoercesEntries(t *testing.T) {
	gen := &fakeGenerator{response: `{"precedents": [
		{"caseName": "K.M. Nanavati v. State of Maharashtra", "citation": "AIR 1962 SC 605", "summary": "Grave and sudden provocation.", "differences": "  "},
		{"caseName": "", "citation": "AIR 1950 SC 27", "summary": "missing name"},
		{"caseName": "Vishaka v. State of Rajasthan", "summary": "Workplace harassment guidelines.", "differences": "Concerns employers, not landlords."},
		"not an object"
	]}`}
	caps := NewCapabilities(gen)

	result, err := caps.RetrievePrecedent(context.Background(), RetrievePrecedentRequest{
		LegalQuestion: "query",
		Documents:     []string{"ignored without the library flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceGeneralKnowledgeBase, result.SourceType)
	require.Len(t, result.Precedents, 2)

	assert.Equal(t, "K.M. Nanavati v. State of Maharashtra", result.Precedents[0].CaseName)
	assert.Nil(t, result.Precedents[0].Differences)

	assert.Equal(t, "", result.Precedents[1].Citation)
	require.NotNil(t, result.Precedents[1].Differences)
	assert.Equal(t, "Concerns employers, not landlords.", *result.Precedents[1].Differences)
	assert.NotContains(t, gen.lastPrompt(), "ignored without the library flag")
}

func TestRetrievePrecedent_BareArray(t *testing.T) {
	gen := &fakeGenerator{response: `[{"caseName": "Olga Tellis v. Bombay Municipal Corporation", "citation": "(1985) 3 SCC 545", "summary": "Right to livelihood."}]`}
	caps := NewCapabilities(gen)

	result, err := caps.RetrievePrecedent(context.Background(), RetrievePrecedentRequest{LegalQuestion: "eviction of pavement dwellers"})
	require.NoError(t, err)
	require.Len(t, result.Precedents, 1)
	assert.Equal(t, "(1985) 3 SCC 545", result.Precedents[0].Citation)
}

func TestGenerateChecklist_Jurisdiction(t *testing.T) {
	gen := &fakeGenerator{response: `{"checklist": ["Send legal notice", "File suit"]}`}

	result, err := NewCapabilities(gen).GenerateChecklist(context.Background(), GenerateChecklistRequest{Query: "recover deposit"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Send legal notice", "File suit"}, result.Checklist)
	assert.Contains(t, gen.lastPrompt(), "jurisdiction: India.")

	_, err = NewCapabilities(gen, WithDefaultJurisdiction("State of Kerala")).
		GenerateChecklist(context.Background(), GenerateChecklistRequest{Query: "recover deposit"})
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "jurisdiction: State of Kerala.")

	_, err = NewCapabilities(gen).GenerateChecklist(context.Background(), GenerateChecklistRequest{
		Query:            "recover deposit",
		Jurisdiction:     "State of Maharashtra",
		UseCustomLibrary: true,
		Documents:        []string{"Lease deed dated 1 April 2021"},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "jurisdiction: State of Maharashtra.")
	assert.Contains(t, gen.lastPrompt(), "--- Document 1 ---\nLease deed dated 1 April 2021")
}

func TestParseStructuredLegalInfo_ChecklistOnly(t *testing.T) {
	gen := &fakeGenerator{response: `{"checklist": ["Collect rent receipts", "Reply to the notice within 15 days"]}`}

	info, err := NewCapabilities(gen).ParseStructuredLegalInfo(context.Background(), "1. Collect rent receipts\n2. Reply to the notice")
	require.NoError(t, err)
	assert.Equal(t, []string{}, info.Laws)
	assert.Equal(t, []models.Precedent{}, info.Precedents)
	assert.Len(t, info.Checklist, 2)
}

func TestCapabilities_Errors(t *testing.T) {
	t.Run("generator error propagates", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		_, err := NewCapabilities(&fakeGenerator{err: boom}).IdentifyLaws(context.Background(), IdentifyLawsRequest{Query: "q"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("non-json output", func(t *testing.T) {
		_, err := NewCapabilities(&fakeGenerator{response: "I cannot help with that."}).
			GenerateChecklist(context.Background(), GenerateChecklistRequest{Query: "q"})
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})

	t.Run("empty summary", func(t *testing.T) {
		_, err := NewCapabilities(&fakeGenerator{response: `{"summary": "   "}`}).
			SummarizeDocument(context.Background(), "document")
		assert.ErrorIs(t, err, ErrEmptySummary)
	})
}

func TestSummarizeDocument(t *testing.T) {
	gen := &fakeGenerator{response: `{"summary": "The court upheld the eviction order."}`}

	summary, err := NewCapabilities(gen).SummarizeDocument(context.Background(), "JUDGMENT ...")
	require.NoError(t, err)
	assert.Equal(t, "The court upheld the eviction order.", summary.Summary)
	assert.Contains(t, gen.lastPrompt(), "JUDGMENT ...")
}

func TestClientAdvice_FixedDisclaimer(t *testing.T) {
	gen := &fakeGenerator{response: `{"advice": "Send a legal notice first.", "relevantLaws": ["Section 106, Transfer of Property Act"], "disclaimer": "whatever"}`}

	advice, err := NewCapabilities(gen).ClientAdvice(context.Background(), "Can my landlord evict me?")
	require.NoError(t, err)
	assert.Equal(t, "Send a legal notice first.", advice.Advice)
	assert.Equal(t, []string{"Section 106, Transfer of Property Act"}, advice.RelevantLaws)
	assert.Equal(t, AdviceDisclaimer, advice.Disclaimer)
}

func TestBoundaryValidate(t *testing.T) {
	violations, err := lawsBoundary.validate(map[string]interface{}{"laws": []interface{}{"a", "b"}})
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = lawsBoundary.validate(map[string]interface{}{"laws": "a"})
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = structuredBoundary.validate(map[string]interface{}{"checklist": []interface{}{}})
	require.NoError(t, err)
	assert.Len(t, violations, 2)
}

func TestToJSONSchema(t *testing.T) {
	got := toJSONSchema(precedentArray)
	assert.Equal(t, "array", got["type"])

	items := got["items"].(map[string]interface{})
	assert.Equal(t, "object", items["type"])
	assert.ElementsMatch(t, []interface{}{"caseName", "citation", "summary"}, items["required"])
	assert.Contains(t, items["properties"], "differences")
}

func TestTruncatePrompt(t *testing.T) {
	assert.Equal(t, "short", truncatePrompt("short", 10))
	assert.Equal(t, "abcde"+truncationNotice, truncatePrompt("abcdefghij", 5))
	// a cut through a multi-byte rune drops the partial rune
	assert.Equal(t, "a"+truncationNotice, truncatePrompt("aé", 2))
}

func TestGroundedPrompts_QuerySurvivesTruncation(t *testing.T) {
	const query = "Tenant eviction without notice"
	library := []string{strings.Repeat("The lessee covenants to pay rent monthly. ", 900)}

	prompts := map[string]string{
		"laws":       buildIdentifyLawsPrompt(query, true, library),
		"precedents": buildPrecedentPrompt(query, true, library),
		"checklist":  buildChecklistPrompt(query, "India", true, library),
	}
	for name, prompt := range prompts {
		t.Run(name, func(t *testing.T) {
			require.Greater(t, len(prompt), defaultMaxPromptChars)

			cut := truncatePrompt(prompt, defaultMaxPromptChars)
			assert.Contains(t, cut, query)
			assert.Contains(t, cut, "Respond with a JSON object")
			assert.Contains(t, cut, "--- Document 1 ---")
			assert.True(t, strings.HasSuffix(cut, truncationNotice))
		})
	}
}

func TestStripCodeBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeBlock("  {\"a\":1} "))
}
