package config

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/types"
)

// PatternTier is a severity bucket of the pattern catalog: a list of
// case-insensitive regular expressions with a weight and a base score.
type PatternTier struct {
	Name      string
	Patterns  []*regexp.Regexp
	Weight    float64
	BaseScore int
}

// FactorRule maps a named risk factor (a law, a brand concern, a social
// dynamic) to its trigger keywords. Matching is plain substring containment.
type FactorRule struct {
	Name     string
	Keywords []string
}

// CategoryRule maps a cause category to its classifier keywords. The order
// of rules is significant: ties are broken by declaration order.
type CategoryRule struct {
	Category types.CauseCategory
	Keywords []string
}

// ScoringConfig holds every table the scoring engine reads. It is built once
// at process start and never mutated afterwards, so the engine is safe to
// call concurrently without locking.
type ScoringConfig struct {
	Tiers         []PatternTier
	LegalFactors  []FactorRule
	BrandFactors  []FactorRule
	SocialFactors []FactorRule
	Categories    []CategoryRule
}

// Validate checks structural invariants of the configuration
func (c *ScoringConfig) Validate() error {
	if len(c.Tiers) == 0 {
		return goerr.New("scoring config requires at least one pattern tier")
	}
	for _, tier := range c.Tiers {
		if tier.Name == "" {
			return goerr.New("pattern tier name is required")
		}
		if tier.Weight <= 0 {
			return goerr.New("pattern tier weight must be positive",
				goerr.V("tier", tier.Name),
				goerr.V("weight", tier.Weight),
			)
		}
		if tier.BaseScore < 0 || tier.BaseScore > 100 {
			return goerr.New("pattern tier base score must be in [0,100]",
				goerr.V("tier", tier.Name),
				goerr.V("base_score", tier.BaseScore),
			)
		}
		if len(tier.Patterns) == 0 {
			return goerr.New("pattern tier requires at least one pattern", goerr.V("tier", tier.Name))
		}
	}
	for _, rule := range c.Categories {
		if !rule.Category.IsValid() {
			return goerr.New("invalid category in classifier table", goerr.V("category", rule.Category))
		}
	}
	return nil
}
