package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/repository/memory"
	"github.com/secmon-lab/hibana/pkg/usecase"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{"総合リスク評価: 高リスクです"},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// failingRepo simulates an unavailable incident store
type failingRepo struct{}

func (r *failingRepo) Incident() interfaces.IncidentRepository { return &failingIncidentRepo{} }
func (r *failingRepo) Close() error                            { return nil }

type failingIncidentRepo struct{}

func (r *failingIncidentRepo) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingIncidentRepo) Get(ctx context.Context, id int64) (*model.Incident, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingIncidentRepo) List(ctx context.Context) ([]*model.Incident, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingIncidentRepo) Search(ctx context.Context, keywords []string, limit int) ([]*model.Incident, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingIncidentRepo) ListRecent(ctx context.Context, limit int) ([]*model.Incident, error) {
	return nil, goerr.New("store unavailable")
}

func (r *failingIncidentRepo) Count(ctx context.Context) (int64, error) {
	return 0, goerr.New("store unavailable")
}

func laborIncident() *model.Incident {
	return &model.Incident{
		Title:         "長時間残業の告発",
		IncidentText:  "残業代が一切支払われていない",
		IncidentDate:  time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		CauseCategory: types.CategoryLaborIssue,
		ReasoningText: "従業員の告発が拡散した",
	}
}

func TestAnalysisUseCase_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty text", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Analysis.Analyze(ctx, "", 3)
		gt.Error(t, err).Is(usecase.ErrEmptyText)
	})

	t.Run("rejects whitespace-only text", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Analysis.Analyze(ctx, "   \n\t ", 3)
		gt.Error(t, err).Is(usecase.ErrEmptyText)
	})

	t.Run("rejects text over the rune limit", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Analysis.Analyze(ctx, strings.Repeat("あ", 1001), 3)
		gt.Error(t, err).Is(usecase.ErrTextTooLong)
	})

	t.Run("accepts text at the rune limit", func(t *testing.T) {
		uc := usecase.New(memory.New())
		report, err := uc.Analysis.Analyze(ctx, strings.Repeat("あ", 1000), 3)
		gt.NoError(t, err).Required()
		gt.Value(t, report.RiskScore).NotNil()
	})

	t.Run("scores a violent post end to end", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Incident().Create(ctx, &model.Incident{
			Title:         "役員の脅迫発言",
			IncidentText:  "殺すぞと取引先に発言した",
			IncidentDate:  time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
			CauseCategory: types.CategoryExtremeExpression,
			ReasoningText: "役員の脅迫的な発言が録音されていた",
		})
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		report, err := uc.Analysis.Analyze(ctx, "殺すぞ。暴力で殴る。", 3)
		gt.NoError(t, err).Required()

		gt.Value(t, report.InputText).Equal("殺すぞ。暴力で殴る。")
		gt.Value(t, report.RiskScore.ContentRisk).Equal(100)
		gt.Value(t, report.RiskScore.LegalRisk).Equal(60)
		gt.Value(t, report.RiskScore.BrandRisk).Equal(30)
		gt.Value(t, report.RiskScore.SocialRisk).Equal(20)
		gt.Value(t, report.RiskScore.OverallScore).Equal(66)
		gt.Value(t, report.RiskScore.Category).Equal(types.CategoryExtremeExpression)

		gt.Array(t, report.RelatedIncidents).Length(1)
		gt.Value(t, report.RelatedIncidents[0].Title).Equal("役員の脅迫発言")

		gt.Value(t, report.Recommendations).Equal([]string{
			"法的リスクが高いため、法務部門との相談を推奨",
			"コンテンツの全面的な見直しが必要",
			"分析の信頼度が低いため、より詳細な分析を推奨",
		})

		// no LLM configured
		gt.Value(t, report.AnalysisText).Equal("")
	})

	t.Run("retrieves incidents by extracted keywords", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Incident().Create(ctx, laborIncident())
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, &model.Incident{
			Title:         "無関係の投稿",
			IncidentText:  "全く別件の話",
			IncidentDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			CauseCategory: types.CategoryOther,
			ReasoningText: "別件",
		})
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		report, err := uc.Analysis.Analyze(ctx, "残業ばかりの会社", 3)
		gt.NoError(t, err).Required()

		gt.Array(t, report.RelatedIncidents).Length(1)
		gt.Value(t, report.RelatedIncidents[0].CauseCategory).Equal(types.CategoryLaborIssue)
	})

	t.Run("falls back to recent incidents when no keyword extracted", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Incident().Create(ctx, laborIncident())
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		report, err := uc.Analysis.Analyze(ctx, "OK!", 3)
		gt.NoError(t, err).Required()

		gt.Array(t, report.RelatedIncidents).Length(1)
		gt.Value(t, report.RiskScore.ContentRisk).Equal(10)
		gt.Value(t, report.RiskScore.Category).Equal(types.CategoryOther)
	})

	t.Run("honors the retrieval limit", func(t *testing.T) {
		repo := memory.New()
		for i := 0; i < 5; i++ {
			incident := laborIncident()
			incident.IncidentDate = incident.IncidentDate.AddDate(0, 0, i)
			_, err := repo.Incident().Create(ctx, incident)
			gt.NoError(t, err).Required()
		}

		uc := usecase.New(repo)
		report, err := uc.Analysis.Analyze(ctx, "残業ばかりの会社", 2)
		gt.NoError(t, err).Required()
		gt.Array(t, report.RelatedIncidents).Length(2)
	})

	t.Run("degrades to empty incidents when the store fails", func(t *testing.T) {
		uc := usecase.New(&failingRepo{})
		report, err := uc.Analysis.Analyze(ctx, "残業ばかりの会社", 3)
		gt.NoError(t, err).Required()

		gt.Array(t, report.RelatedIncidents).Length(0)
		gt.Value(t, report.RiskScore).NotNil()
	})

	t.Run("includes LLM narrative when configured", func(t *testing.T) {
		llm := &mockLLMClient{}
		uc := usecase.New(memory.New(), usecase.WithLLM(llm))

		report, err := uc.Analysis.Analyze(ctx, "残業ばかりの会社", 3)
		gt.NoError(t, err).Required()
		gt.Value(t, report.AnalysisText).Equal("総合リスク評価: 高リスクです")
	})

	t.Run("degrades to empty narrative when the LLM fails", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, goerr.New("LLM unavailable")
			},
		}
		uc := usecase.New(memory.New(), usecase.WithLLM(llm))

		report, err := uc.Analysis.Analyze(ctx, "残業ばかりの会社", 3)
		gt.NoError(t, err).Required()
		gt.Value(t, report.AnalysisText).Equal("")
		gt.Value(t, report.RiskScore.Category).Equal(types.CategoryLaborIssue)
	})
}
