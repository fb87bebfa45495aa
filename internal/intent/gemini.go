package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/octobees/placepack/api/internal/entity"
)

const (
	defaultModel     = "gemini-2.0-flash"
	temperature      = float32(0.2)
	maxOutputTokens  = int32(500)
	promptQueryLimit = 500
)

var (
	jsonObjectExpr = regexp.MustCompile(`(?s)\{.*\}`)

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("intent model returned no text")
	// ErrNoJSON is returned when the reply contains no JSON object.
	ErrNoJSON = errors.New("intent model reply contains no JSON object")
)

// supportedPlaceTypes are the Places API types the model may choose from.
var supportedPlaceTypes = []string{
	"restaurant", "cafe", "bar", "bakery", "meal_takeaway", "meal_delivery",
	"night_club", "spa", "gym", "park", "museum", "shopping_mall", "store",
}

const promptTemplate = `You are a place search assistant. Extract Google Places API search parameters from the user's natural language query.

User query: %q

Reply with JSON only, no explanation, in exactly this shape:
{
  "searchKeywords": ["keywords to search for, in the query's language (e.g. ramen, cafe, italian)"],
  "placeTypes": ["Google Places API types (e.g. restaurant, cafe, bar, bakery)"],
  "priceLevel": "cheap | moderate | expensive | null",
  "vibeKeywords": ["atmosphere words, in the query's language (e.g. stylish, quiet, lively)"]
}

Available placeTypes: %s`

// contentGenerator is implemented by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiExtractor derives search hints from a query with a Gemini model.
type GeminiExtractor struct {
	models   contentGenerator
	model    string
	validate *validator.Validate
}

// NewGeminiExtractor creates a Gemini API client for the given key.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key must not be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize genai client: %w", err)
	}
	return newGeminiExtractor(client.Models, model), nil
}

func newGeminiExtractor(models contentGenerator, model string) *GeminiExtractor {
	if model == "" {
		model = defaultModel
	}
	return &GeminiExtractor{models: models, model: model, validate: validator.New()}
}

type extractedPayload struct {
	SearchKeywords []string `json:"searchKeywords" validate:"required"`
	PlaceTypes     []string `json:"placeTypes" validate:"required"`
	PriceLevel     *string  `json:"priceLevel" validate:"omitempty,oneof=cheap moderate expensive"`
	VibeKeywords   []string `json:"vibeKeywords" validate:"required"`
}

// Extract asks the model for structured hints. Any failure is returned to the
// caller, which decides how to degrade.
func (g *GeminiExtractor) Extract(ctx context.Context, query string) (entity.ExtractedSearchParams, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entity.ExtractedSearchParams{}, fmt.Errorf("query must not be empty")
	}
	if r := []rune(query); len(r) > promptQueryLimit {
		query = string(r[:promptQueryLimit])
	}

	prompt := fmt.Sprintf(promptTemplate, query, strings.Join(supportedPlaceTypes, ", "))
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, config)
	if err != nil {
		return entity.ExtractedSearchParams{}, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return entity.ExtractedSearchParams{}, ErrEmptyResponse
	}
	return g.parse(text)
}

func (g *GeminiExtractor) parse(text string) (entity.ExtractedSearchParams, error) {
	raw := jsonObjectExpr.FindString(text)
	if raw == "" {
		return entity.ExtractedSearchParams{}, ErrNoJSON
	}

	var payload extractedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return entity.ExtractedSearchParams{}, fmt.Errorf("decode intent json: %w", err)
	}
	if payload.PriceLevel != nil {
		if v := strings.ToLower(strings.TrimSpace(*payload.PriceLevel)); v == "" || v == "null" {
			payload.PriceLevel = nil
		} else {
			payload.PriceLevel = &v
		}
	}
	if err := g.validate.Struct(payload); err != nil {
		return entity.ExtractedSearchParams{}, fmt.Errorf("invalid intent json: %w", err)
	}

	out := entity.ExtractedSearchParams{
		SearchKeywords: cleanList(payload.SearchKeywords),
		PlaceTypes:     cleanList(payload.PlaceTypes),
		VibeKeywords:   cleanList(payload.VibeKeywords),
	}
	if payload.PriceLevel != nil {
		hint, _ := entity.ParsePriceHint(*payload.PriceLevel)
		out.PriceLevel = &hint
	}
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
