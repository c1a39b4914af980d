package types

// CauseCategory is the closed set of labels describing why a piece of text
// or a historical incident is considered risky. Labels are kept in Japanese
// because the classifier keyword tables and the incident archive use them
// verbatim.
type CauseCategory string

const (
	CategoryExtremeExpression   CauseCategory = "極めて危険な表現"
	CategoryDiscrimination      CauseCategory = "差別的表現"
	CategoryDefamation          CauseCategory = "誹謗中傷"
	CategoryPrivacyLeak         CauseCategory = "個人情報漏洩"
	CategoryLaborIssue          CauseCategory = "労働問題"
	CategoryInappropriate       CauseCategory = "不適切な表現"
	CategoryConcealment         CauseCategory = "情報隠蔽"
	CategoryIrresponsibility    CauseCategory = "社会的責任の欠如"
	CategorySocialBias          CauseCategory = "社会問題への偏見"
	CategoryTasteDiscrimination CauseCategory = "趣味嗜好への差別"
	CategoryHumanRights         CauseCategory = "人権侵害"
	CategoryInsensitive         CauseCategory = "不謹慎な表現"
	CategoryOther               CauseCategory = "その他"
)

// AllCauseCategories returns all valid cause categories
func AllCauseCategories() []CauseCategory {
	return []CauseCategory{
		CategoryExtremeExpression,
		CategoryDiscrimination,
		CategoryDefamation,
		CategoryPrivacyLeak,
		CategoryLaborIssue,
		CategoryInappropriate,
		CategoryConcealment,
		CategoryIrresponsibility,
		CategorySocialBias,
		CategoryTasteDiscrimination,
		CategoryHumanRights,
		CategoryInsensitive,
		CategoryOther,
	}
}

// IsValid checks if the cause category is one of the closed set
func (c CauseCategory) IsValid() bool {
	for _, v := range AllCauseCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// Priority returns the retrieval ranking tier of the category. Related
// incidents are ordered by this value (descending) before recency, so an old
// discrimination incident outranks a fresh low-tier one.
func (c CauseCategory) Priority() int {
	switch c {
	case CategoryDiscrimination, CategoryDefamation, CategoryPrivacyLeak:
		return 5
	case CategoryLaborIssue, CategoryIrresponsibility, CategoryConcealment:
		return 4
	case CategoryInappropriate, CategoryInsensitive, CategorySocialBias:
		return 3
	case CategoryTasteDiscrimination:
		return 2
	default:
		return 1
	}
}

// String returns the string representation of the cause category
func (c CauseCategory) String() string {
	return string(c)
}
