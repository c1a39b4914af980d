package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/model/config"
	"github.com/secmon-lab/hibana/pkg/domain/types"
)

// ErrEmptyInput is returned when the analyzed text is empty
var ErrEmptyInput = goerr.New("input text is empty")

// Fixed weights of the four factors in the overall score. They sum to 1.0.
const (
	contentWeight = 0.4
	legalWeight   = 0.3
	brandWeight   = 0.2
	socialWeight  = 0.1
)

// Score increments per matched factor keyword
const (
	legalIncrement  = 20
	brandIncrement  = 15
	socialIncrement = 10
)

// defaultContentRisk is returned when no catalog pattern matches at all
const defaultContentRisk = 10

// Engine is the multi-factor risk scoring engine. It is a pure function of
// its input text and the immutable ScoringConfig, so a single instance can
// serve any number of concurrent requests.
type Engine struct {
	cfg *config.ScoringConfig
}

// New creates a scoring engine. A nil config selects the built-in tables.
func New(cfg *config.ScoringConfig) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Analyze computes the full RiskScore for the given text
func (e *Engine) Analyze(text string) (*model.RiskScore, error) {
	if text == "" {
		return nil, goerr.Wrap(ErrEmptyInput, "cannot analyze empty text")
	}

	contentRisk, totalMatches := e.contentRisk(text)
	legalRisk := e.factorRisk(text, e.cfg.LegalFactors, legalIncrement)
	brandRisk := e.factorRisk(text, e.cfg.BrandFactors, brandIncrement)
	socialRisk := e.factorRisk(text, e.cfg.SocialFactors, socialIncrement)

	return &model.RiskScore{
		OverallScore: overallScore(contentRisk, legalRisk, brandRisk, socialRisk),
		ContentRisk:  contentRisk,
		LegalRisk:    legalRisk,
		BrandRisk:    brandRisk,
		SocialRisk:   socialRisk,
		Category:     e.classify(text),
		Confidence:   confidence(text, totalMatches),
	}, nil
}

// contentRisk is a weighted average of the base scores of every matched
// token, not a sum: one extreme match alone scores high, while extra
// lower-tier matches pull the average down. The match count is also the
// keyword density input of the confidence estimate.
func (e *Engine) contentRisk(text string) (risk int, totalMatches int) {
	var score float64
	for _, tier := range e.cfg.Tiers {
		for _, pattern := range tier.Patterns {
			matches := len(pattern.FindAllString(text, -1))
			if matches > 0 {
				score += float64(matches) * tier.Weight * float64(tier.BaseScore)
				totalMatches += matches
			}
		}
	}

	if totalMatches == 0 {
		return defaultContentRisk, 0
	}

	return clampScore(int(score / float64(totalMatches))), totalMatches
}

// factorRisk adds a fixed increment for every (factor, keyword) pair whose
// keyword appears in the text. Keyword lists overlap across factors on
// purpose: a single discriminatory term raises legal and brand risk at once.
func (e *Engine) factorRisk(text string, factors []config.FactorRule, increment int) int {
	score := 0
	for _, factor := range factors {
		for _, keyword := range factor.Keywords {
			if strings.Contains(text, keyword) {
				score += increment
			}
		}
	}
	return clampScore(score)
}

func overallScore(content, legal, brand, social int) int {
	weighted := contentWeight*float64(content) +
		legalWeight*float64(legal) +
		brandWeight*float64(brand) +
		socialWeight*float64(social)
	return clampScore(int(weighted))
}

// classify returns the category with the most keyword hits. Each keyword
// counts at most once per category. Ties go to the first category in
// declaration order; if nothing matches, the fallback is CategoryOther.
func (e *Engine) classify(text string) types.CauseCategory {
	best := types.CategoryOther
	bestCount := 0
	for _, rule := range e.cfg.Categories {
		count := 0
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = rule.Category
			bestCount = count
		}
	}
	return best
}

// confidence blends text length and keyword density: longer, denser text
// gives the tables more evidence to work with. It is a heuristic, not a
// probability.
func confidence(text string, totalMatches int) float64 {
	lengthFactor := math.Min(1.0, float64(utf8.RuneCountInString(text))/100)
	keywordFactor := math.Min(1.0, float64(totalMatches)/5)
	return math.Round((lengthFactor+keywordFactor)/2*100) / 100
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
