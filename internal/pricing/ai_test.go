package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// fakeCompleter devuelve respuestas predefinidas en orden, o un error fijo.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

const validResponse = `{
	"low_price": 450,
	"average_price": 650,
	"high_price": 900,
	"items_analyzed": 12,
	"items_filtered_out": 3,
	"reasoning": "discarded three accessory listings",
	"confidence_rating": "dark_green",
	"confidence_explanation": "tight cluster of comparable listings"
}`

func aiAnalyzer(c *fakeCompleter) *AIAnalyzer {
	return NewAIAnalyzer(c, statAnalyzer(), nil, noopActivity)
}

func TestAIAnalyzer_ValidResponse(t *testing.T) {
	completer := &fakeCompleter{responses: []string{validResponse}}
	listings := listingsFromPrices(400, 500, 600, 700, 800)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.Equal(t, 450.0, est.Low)
	assert.Equal(t, 650.0, est.Average)
	assert.Equal(t, 900.0, est.High)
	assert.Equal(t, 12, est.ItemsAnalyzed)
	assert.Equal(t, 3, est.ItemsFilteredOut)
	assert.Equal(t, domain.ConfidenceDarkGreen, est.Confidence)
	assert.Equal(t, 1, completer.calls)
}

func TestAIAnalyzer_MarkdownFencedResponse(t *testing.T) {
	fenced := "Here is the analysis:\n```json\n" + validResponse + "\n```\nHope that helps!"
	completer := &fakeCompleter{responses: []string{fenced}}
	listings := listingsFromPrices(400, 500, 600)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.Equal(t, 650.0, est.Average)
	assert.Equal(t, domain.ConfidenceDarkGreen, est.Confidence)
}

func TestAIAnalyzer_MissingKeyFallsBack(t *testing.T) {
	// Sin confidence_rating: schema inválido → path estadístico
	incomplete := `{"low_price": 100, "average_price": 200, "high_price": 300,
		"items_analyzed": 5, "items_filtered_out": 0,
		"reasoning": "x", "confidence_explanation": "y"}`
	completer := &fakeCompleter{responses: []string{incomplete}}
	listings := listingsFromPrices(100, 300)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	// El fallback con 2 listings colapsa los tiers a la media
	assert.Equal(t, 200.0, est.Average)
	assert.Equal(t, domain.ConfidenceYellow, est.Confidence)
	assert.Equal(t, 1, completer.calls, "respuesta malformada no se reintenta")
}

func TestAIAnalyzer_GarbageResponseFallsBack(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"I cannot analyze these listings, sorry."}}
	listings := listingsFromPrices(100, 300)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.Equal(t, 200.0, est.Average)
}

func TestAIAnalyzer_TransportErrorRetriesThenFallsBack(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection reset")}
	listings := listingsFromPrices(100, 300)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.Equal(t, 2, completer.calls, "errores de transporte se reintentan una vez")
	assert.Equal(t, 200.0, est.Average)
}

func TestAIAnalyzer_UnknownConfidenceDefaultsToYellow(t *testing.T) {
	resp := `{
		"low_price": 450, "average_price": 650, "high_price": 900,
		"items_analyzed": 12, "items_filtered_out": 3,
		"reasoning": "x", "confidence_rating": "super_green",
		"confidence_explanation": "y"
	}`
	completer := &fakeCompleter{responses: []string{resp}}
	listings := listingsFromPrices(400, 500, 600)

	est := aiAnalyzer(completer).Analyze(context.Background(), listings, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.Equal(t, domain.ConfidenceYellow, est.Confidence)
	assert.Equal(t, 650.0, est.Average)
}

func TestAIAnalyzer_NoListings(t *testing.T) {
	completer := &fakeCompleter{responses: []string{validResponse}}

	est := aiAnalyzer(completer).Analyze(context.Background(), nil, domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	assert.True(t, est.Failed())
	assert.Zero(t, completer.calls, "sin listings no se llama al modelo")
}

func TestAIAnalyzer_MinPricePrefilterAndPromptContents(t *testing.T) {
	completer := &fakeCompleter{responses: []string{validResponse}}
	listings := []domain.Listing{
		{Price: 40, Title: "Cheap accessory"},
		{Price: 600, Title: "Complete Engine 3.5L"},
	}
	part := domain.PartQuery{SearchTerm: "Engine", MinPrice: 100}
	vehicle := domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord"}

	aiAnalyzer(completer).Analyze(context.Background(), listings, part, vehicle)

	require.Len(t, completer.prompts, 1)
	prompt := completer.prompts[0]
	assert.Contains(t, prompt, "Complete Engine 3.5L")
	assert.NotContains(t, prompt, "Cheap accessory")
	assert.Contains(t, prompt, "HONDA")
}

type staticInstructions string

func (s staticInstructions) Current() string { return string(s) }

func TestAIAnalyzer_CustomInstructionsInPrompt(t *testing.T) {
	completer := &fakeCompleter{responses: []string{validResponse}}
	analyzer := NewAIAnalyzer(completer, statAnalyzer(), staticInstructions("Ignore listings marked for parts only"), noopActivity)

	analyzer.Analyze(context.Background(), listingsFromPrices(400, 500), domain.PartQuery{SearchTerm: "Engine"}, domain.Vehicle{})

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Ignore listings marked for parts only")
}
