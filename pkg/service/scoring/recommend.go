package scoring

import "github.com/secmon-lab/hibana/pkg/domain/model"

// Advisory thresholds. All matching rules fire; they are not exclusive.
const (
	legalAdvisoryThreshold      = 60
	brandAdvisoryThreshold      = 60
	socialAdvisoryThreshold     = 60
	contentAdvisoryThreshold    = 80
	confidenceAdvisoryThreshold = 0.5
)

// Recommendations returns the advisory strings triggered by the score, in
// fixed rule order. The list is empty when no rule fires.
func Recommendations(score *model.RiskScore) []string {
	var recommendations []string

	if score.LegalRisk >= legalAdvisoryThreshold {
		recommendations = append(recommendations, "法的リスクが高いため、法務部門との相談を推奨")
	}
	if score.BrandRisk >= brandAdvisoryThreshold {
		recommendations = append(recommendations, "ブランドイメージへの影響が大きいため、広報戦略の見直しが必要")
	}
	if score.SocialRisk >= socialAdvisoryThreshold {
		recommendations = append(recommendations, "社会的影響が予想されるため、SNS監視体制の強化を推奨")
	}
	if score.ContentRisk >= contentAdvisoryThreshold {
		recommendations = append(recommendations, "コンテンツの全面的な見直しが必要")
	}
	if score.Confidence < confidenceAdvisoryThreshold {
		recommendations = append(recommendations, "分析の信頼度が低いため、より詳細な分析を推奨")
	}

	return recommendations
}
