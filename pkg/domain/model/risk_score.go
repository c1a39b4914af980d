package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/types"
)

// RiskScore is the multi-factor scoring result for a single text. Instances
// are produced fresh per analysis and never persisted.
type RiskScore struct {
	OverallScore int                 `json:"overall_score"`
	ContentRisk  int                 `json:"content_risk"`
	LegalRisk    int                 `json:"legal_risk"`
	BrandRisk    int                 `json:"brand_risk"`
	SocialRisk   int                 `json:"social_risk"`
	Category     types.CauseCategory `json:"category"`
	Confidence   float64             `json:"confidence"`
}

// Validate checks that every score is within its declared bounds
func (s *RiskScore) Validate() error {
	scores := map[string]int{
		"overall_score": s.OverallScore,
		"content_risk":  s.ContentRisk,
		"legal_risk":    s.LegalRisk,
		"brand_risk":    s.BrandRisk,
		"social_risk":   s.SocialRisk,
	}
	for name, v := range scores {
		if v < 0 || v > 100 {
			return goerr.New("score out of range", goerr.V("field", name), goerr.V("value", v))
		}
	}
	if s.Confidence < 0.0 || s.Confidence > 1.0 {
		return goerr.New("confidence out of range", goerr.V("value", s.Confidence))
	}
	if !s.Category.IsValid() {
		return goerr.New("invalid cause category", goerr.V("category", s.Category))
	}
	return nil
}

// Level returns the coarse risk level of the overall score
func (s *RiskScore) Level() types.RiskLevel {
	return types.RiskLevelFromScore(s.OverallScore)
}
