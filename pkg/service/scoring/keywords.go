package scoring

import (
	"regexp"
	"strings"
)

// Keyword extraction for incident retrieval. The extracted list becomes the
// OR-of-substring term set of the incident store query, so ordering matters:
// high-signal terms go first and the list is capped at maxKeywords.

const (
	maxPriorityKeywords = 10
	maxNormalKeywords   = 5
	maxKeywords         = 15
)

// categoryMatcher pairs a pattern with a category marker. When the pattern
// matches, both the matched tokens and the marker join the keyword list so
// that incidents filed under the category name are also found.
type categoryMatcher struct {
	pattern *regexp.Regexp
	marker  string
}

var categoryMatchers = []categoryMatcher{
	{regexp.MustCompile(`クソ|くそ|最悪|ひどい|ダメ|だめ|やばい`), "不適切な表現"},
	{regexp.MustCompile(`女性|男性|男|女|性別|結婚|妊娠`), "差別的表現"},
	{regexp.MustCompile(`パクリ|盗作|コピー|真似`), "誹謗中傷"},
	{regexp.MustCompile(`住所|電話|個人情報|名前|メール`), "個人情報漏洩"},
	{regexp.MustCompile(`残業|給料|労働|働く|従業員`), "労働問題"},
	{regexp.MustCompile(`環境|地球|温暖化|CO2|エコ`), "社会的責任"},
	{regexp.MustCompile(`税金|政治|政府|国|社会`), "社会問題"},
	{regexp.MustCompile(`アニメ|ゲーム|趣味|文化|遅れ`), "趣味嗜好"},
	{regexp.MustCompile(`競合|他社|ライバル|対抗`), "競合関係"},
	{regexp.MustCompile(`完璧|問題ない|デマ|嘘|隠蔽`), "情報隠蔽"},
}

// Alternation order is behavior-bearing: matching is leftmost-first, so
// `禁止|禁止する` extracts 禁止 even when the text says 禁止する. The two
// 絶対 variants appear in the curated list with different orderings, which
// makes 絶対に yield both the short and the long form.
var emotionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`怒|悲|喜|驚|恐|嫌|愛|恨|妬|嫉`),
	regexp.MustCompile(`すごい|やばい|ひどい|最悪|最高|素晴らしい`),
	regexp.MustCompile(`絶対|絶対に|絶対だ|絶対です`),
	regexp.MustCompile(`絶対に|絶対|絶対だ|絶対です`),
}

var negationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ない|無い|だめ|ダメ|禁止|禁止する`),
	regexp.MustCompile(`やめて|やめろ|やめるな`),
	regexp.MustCompile(`買うな|買わない|買わないで`),
}

// japaneseWord matches runs of two or more Japanese-script characters
var japaneseWord = regexp.MustCompile(`[ぁ-んァ-ヶ一-龯]{2,}`)

// Substrings that mark a keyword as high-signal for retrieval ranking
var prioritySignals = []string{"不適切", "差別", "誹謗", "個人情報", "労働", "社会", "隠蔽"}

// ExtractKeywords builds the ranked keyword list for incident retrieval:
// category pattern matches (plus their markers), emotion and negation
// matches, and generic word-like tokens, deduplicated in first-seen order.
// High-signal keywords come first; at most maxKeywords are returned.
// An empty result means the caller should fall back to a recency query.
func ExtractKeywords(text string) []string {
	var keywords []string

	for _, m := range categoryMatchers {
		matches := m.pattern.FindAllString(text, -1)
		if len(matches) > 0 {
			keywords = append(keywords, matches...)
			keywords = append(keywords, m.marker)
		}
	}

	for _, p := range emotionPatterns {
		keywords = append(keywords, p.FindAllString(text, -1)...)
	}
	for _, p := range negationPatterns {
		keywords = append(keywords, p.FindAllString(text, -1)...)
	}

	keywords = append(keywords, japaneseWord.FindAllString(text, -1)...)

	var priority, normal []string
	seen := make(map[string]bool, len(keywords))
	for _, keyword := range keywords {
		if seen[keyword] {
			continue
		}
		seen[keyword] = true

		if isPriorityKeyword(keyword) {
			priority = append(priority, keyword)
		} else {
			normal = append(normal, keyword)
		}
	}

	if len(priority) > maxPriorityKeywords {
		priority = priority[:maxPriorityKeywords]
	}
	if len(normal) > maxNormalKeywords {
		normal = normal[:maxNormalKeywords]
	}

	result := append(priority, normal...)
	if len(result) > maxKeywords {
		result = result[:maxKeywords]
	}
	return result
}

func isPriorityKeyword(keyword string) bool {
	for _, signal := range prioritySignals {
		if strings.Contains(keyword, signal) {
			return true
		}
	}
	return false
}
