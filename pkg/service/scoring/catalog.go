package scoring

import (
	"regexp"

	"github.com/secmon-lab/hibana/pkg/domain/model/config"
	"github.com/secmon-lab/hibana/pkg/domain/types"
)

// The default tables below are versioned data, not logic: they are a
// hand-curated approximation of intent carried over from the incident
// analysis team's spreadsheet. Swap them via the catalog file without
// touching the engine.
//
// Note that several keyword lists tie protected characteristics (gender,
// age, disability, nationality) directly to risk. That is a policy choice
// inherited from the curated data; review it when revising the tables.

func mustTier(name string, weight float64, baseScore int, patterns ...string) config.PatternTier {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return config.PatternTier{
		Name:      name,
		Patterns:  compiled,
		Weight:    weight,
		BaseScore: baseScore,
	}
}

// DefaultConfig returns the built-in scoring tables
func DefaultConfig() *config.ScoringConfig {
	return &config.ScoringConfig{
		Tiers: []config.PatternTier{
			mustTier("extreme_risk", 4.0, 95,
				`殺害|殺す|死ね|死ぬ|殺人|殺し|殺して|殺せ`,
				`老人|高齢者|年寄り|お年寄り`,
				`障害者|障がい者|身体障害|知的障害`,
				`外国人|移民|在日|朝鮮|中国|韓国`,
				`女性|男性|男|女|性別|結婚|妊娠|LGBT|ゲイ|レズ`,
				`暴力|暴行|殴る|蹴る|叩く|痛めつける`,
				`差別|偏見|見下す|馬鹿|アホ|バカ|クズ|ゴミ`,
			),
			mustTier("high_risk", 3.0, 80,
				`クソ|くそ|最悪|ひどい|ダメ|だめ|やばい`,
				`パクリ|盗作|コピー|真似`,
				`住所|電話|個人情報|名前|メール`,
				`残業|給料|労働|働く|従業員`,
				`完璧|問題ない|デマ|嘘|隠蔽`,
				`うざい|うっとうしい|邪魔|迷惑`,
				`消えろ|消えて|出て行け|帰れ`,
			),
			mustTier("medium_risk", 2.0, 50,
				`環境|地球|温暖化|CO2|エコ`,
				`税金|政治|政府|国|社会`,
				`アニメ|ゲーム|趣味|文化|遅れ`,
				`競合|他社|ライバル|対抗`,
				`宗教|信仰|信者|信教`,
				`民族|人種|肌の色|出身`,
			),
			mustTier("low_risk", 1.0, 20,
				`すごい|素晴らしい|最高|良い`,
				`お客様|顧客|ユーザー`,
				`品質|サービス|商品`,
			),
		},

		LegalFactors: []config.FactorRule{
			{Name: "労働基準法", Keywords: []string{"残業", "給料", "労働", "働く", "従業員"}},
			{Name: "個人情報保護法", Keywords: []string{"住所", "電話", "個人情報", "名前", "メール"}},
			{Name: "差別禁止法", Keywords: []string{"女性", "男性", "男", "女", "性別", "結婚", "妊娠", "老人", "高齢者", "障害者", "外国人", "移民"}},
			{Name: "名誉毀損", Keywords: []string{"パクリ", "盗作", "コピー", "真似", "卑劣"}},
			{Name: "脅迫罪", Keywords: []string{"殺害", "殺す", "死ね", "死ぬ", "殺人", "暴力", "暴行", "殴る", "蹴る"}},
			{Name: "侮辱罪", Keywords: []string{"馬鹿", "アホ", "バカ", "クズ", "ゴミ", "うざい", "うっとうしい"}},
		},

		BrandFactors: []config.FactorRule{
			{Name: "企業イメージ", Keywords: []string{"クソ", "くそ", "最悪", "ひどい", "ダメ", "だめ", "殺害", "殺す", "死ね", "暴力"}},
			{Name: "顧客信頼", Keywords: []string{"嘘", "デマ", "隠蔽", "問題ない", "完璧", "差別", "偏見"}},
			{Name: "社会的責任", Keywords: []string{"環境", "地球", "温暖化", "CO2", "エコ", "老人", "高齢者", "障害者", "外国人"}},
			{Name: "人権問題", Keywords: []string{"差別", "偏見", "見下す", "馬鹿", "アホ", "バカ", "クズ", "ゴミ"}},
		},

		SocialFactors: []config.FactorRule{
			{Name: "炎上拡散", Keywords: []string{"やばい", "最悪", "ひどい", "問題", "殺害", "殺す", "死ね", "暴力"}},
			{Name: "批判集中", Keywords: []string{"差別", "誹謗", "中傷", "攻撃", "老人", "高齢者", "障害者", "外国人"}},
			{Name: "社会問題", Keywords: []string{"税金", "政治", "政府", "国", "社会", "差別", "偏見", "人権"}},
			{Name: "人権侵害", Keywords: []string{"老人", "高齢者", "障害者", "外国人", "移民", "女性", "男性", "LGBT"}},
		},

		Categories: []config.CategoryRule{
			{Category: types.CategoryExtremeExpression, Keywords: []string{"殺害", "殺す", "死ね", "死ぬ", "殺人", "暴力", "暴行"}},
			{Category: types.CategoryDiscrimination, Keywords: []string{"女性", "男性", "男", "女", "性別", "結婚", "妊娠", "老人", "高齢者", "障害者", "外国人", "移民", "LGBT"}},
			{Category: types.CategoryDefamation, Keywords: []string{"パクリ", "盗作", "コピー", "真似", "卑劣", "馬鹿", "アホ", "バカ", "クズ", "ゴミ"}},
			{Category: types.CategoryPrivacyLeak, Keywords: []string{"住所", "電話", "個人情報", "名前", "メール"}},
			{Category: types.CategoryLaborIssue, Keywords: []string{"残業", "給料", "労働", "働く", "従業員"}},
			{Category: types.CategoryInappropriate, Keywords: []string{"クソ", "くそ", "最悪", "ひどい", "ダメ", "だめ", "うざい", "うっとうしい"}},
			{Category: types.CategoryConcealment, Keywords: []string{"完璧", "問題ない", "デマ", "嘘", "隠蔽"}},
			{Category: types.CategoryIrresponsibility, Keywords: []string{"環境", "地球", "温暖化", "CO2", "エコ"}},
			{Category: types.CategorySocialBias, Keywords: []string{"税金", "政治", "政府", "国", "社会"}},
			{Category: types.CategoryTasteDiscrimination, Keywords: []string{"アニメ", "ゲーム", "趣味", "文化", "遅れ"}},
			{Category: types.CategoryHumanRights, Keywords: []string{"差別", "偏見", "見下す", "老人", "高齢者", "障害者", "外国人"}},
		},
	}
}
