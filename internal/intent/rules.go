package intent

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/octobees/placepack/api/internal/entity"
)

var (
	stopwordExpr = regexp.MustCompile(`(?i)\b(find|search|show|me|please|a|an|the|some|for|near|nearby|around|here|i|want|looking|place|places|spot|spots)\b`)
	splitExpr    = regexp.MustCompile(`[\s,、。!?！？]+`)
	jaStopwords  = []string{"を探して", "探して", "教えて", "ください", "近くの", "近く", "この辺の", "おすすめの", "おすすめ"}
)

// typeHints maps query words to Places API types.
var typeHints = map[string]string{
	"restaurant": "restaurant", "レストラン": "restaurant", "ramen": "restaurant", "ラーメン": "restaurant",
	"sushi": "restaurant", "寿司": "restaurant", "italian": "restaurant", "イタリアン": "restaurant",
	"cafe": "cafe", "coffee": "cafe", "カフェ": "cafe", "喫茶店": "cafe",
	"bar": "bar", "バー": "bar", "居酒屋": "bar", "pub": "bar",
	"bakery": "bakery", "パン屋": "bakery", "ベーカリー": "bakery",
	"park": "park", "公園": "park",
	"museum": "museum", "美術館": "museum", "博物館": "museum",
	"gym": "gym", "ジム": "gym",
	"spa": "spa", "温泉": "spa",
}

var priceHints = map[string]entity.PriceHint{
	"cheap": entity.PriceCheap, "budget": entity.PriceCheap, "安い": entity.PriceCheap, "格安": entity.PriceCheap,
	"moderate": entity.PriceModerate, "手頃": entity.PriceModerate,
	"expensive": entity.PriceExpensive, "fancy": entity.PriceExpensive, "luxury": entity.PriceExpensive, "高級": entity.PriceExpensive,
}

var vibeHints = map[string]bool{
	"quiet": true, "cozy": true, "stylish": true, "lively": true, "romantic": true,
	"静か": true, "おしゃれ": true, "にぎやか": true, "落ち着いた": true, "隠れ家": true,
}

// RuleExtractor is a deterministic keyword extractor used when no model is
// configured. It recognises a small vocabulary of types, prices and moods.
type RuleExtractor struct{}

// NewRuleExtractor returns a RuleExtractor.
func NewRuleExtractor() *RuleExtractor { return &RuleExtractor{} }

// Extract splits the query into words and classifies the known ones. Words it
// cannot classify become search keywords.
func (RuleExtractor) Extract(ctx context.Context, query string) (entity.ExtractedSearchParams, error) {
	if err := ctx.Err(); err != nil {
		return entity.ExtractedSearchParams{}, err
	}
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return entity.ExtractedSearchParams{}, errors.New("query must not be empty")
	}
	for _, w := range jaStopwords {
		cleaned = strings.ReplaceAll(cleaned, w, " ")
	}
	cleaned = stopwordExpr.ReplaceAllString(cleaned, " ")

	out := entity.ExtractedSearchParams{
		SearchKeywords: []string{},
		PlaceTypes:     []string{},
		VibeKeywords:   []string{},
	}
	seenTypes := map[string]bool{}
	for _, word := range splitExpr.Split(cleaned, -1) {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if hint, ok := priceHints[lower]; ok {
			if out.PriceLevel == nil {
				h := hint
				out.PriceLevel = &h
			}
			continue
		}
		if vibeHints[lower] {
			out.VibeKeywords = append(out.VibeKeywords, word)
			continue
		}
		if t, ok := typeHints[lower]; ok && !seenTypes[t] {
			seenTypes[t] = true
			out.PlaceTypes = append(out.PlaceTypes, t)
		}
		out.SearchKeywords = append(out.SearchKeywords, word)
	}
	return out, nil
}
