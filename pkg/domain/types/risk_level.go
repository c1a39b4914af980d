package types

// RiskLevel is a coarse human-readable label derived from the overall score
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "極めて高リスク"
	RiskLevelHigh     RiskLevel = "高リスク"
	RiskLevelMedium   RiskLevel = "中リスク"
	RiskLevelLow      RiskLevel = "低リスク"
	RiskLevelMinimal  RiskLevel = "極めて低リスク"
)

// RiskLevelFromScore maps an overall score (0-100) to a risk level
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLevelCritical
	case score >= 60:
		return RiskLevelHigh
	case score >= 40:
		return RiskLevelMedium
	case score >= 20:
		return RiskLevelLow
	default:
		return RiskLevelMinimal
	}
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}
