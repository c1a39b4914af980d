package model

// AnalysisReport is the assembled result of one analysis call: the score,
// the LLM narrative (empty when narrative generation is disabled or failed),
// the related incidents and the advisory strings.
type AnalysisReport struct {
	InputText        string      `json:"input_text"`
	RiskScore        *RiskScore  `json:"risk_score"`
	AnalysisText     string      `json:"analysis_text"`
	RelatedIncidents []*Incident `json:"related_cases"`
	Recommendations  []string    `json:"recommendations"`
}
