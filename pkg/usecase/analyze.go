package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/model/config"
	"github.com/secmon-lab/hibana/pkg/service/narrative"
	"github.com/secmon-lab/hibana/pkg/service/scoring"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
)

const (
	maxInputRunes         = 1000
	defaultRetrievalLimit = 3
	defaultSearchTimeout  = 5 * time.Second
)

// AnalysisUseCase runs the full analysis pipeline: deterministic scoring,
// related-incident retrieval, rule-based recommendations, and the optional
// LLM narrative. Retrieval and narrative failures degrade the report
// instead of failing it; the score is always returned.
type AnalysisUseCase struct {
	repo          interfaces.Repository
	engine        *scoring.Engine
	narrative     *narrative.Service
	searchTimeout time.Duration
}

func NewAnalysisUseCase(repo interfaces.Repository, llm gollem.LLMClient, cfg *config.ScoringConfig, searchTimeout time.Duration) *AnalysisUseCase {
	uc := &AnalysisUseCase{
		repo:          repo,
		engine:        scoring.New(cfg),
		searchTimeout: searchTimeout,
	}
	if uc.searchTimeout <= 0 {
		uc.searchTimeout = defaultSearchTimeout
	}
	if llm != nil {
		uc.narrative = narrative.New(llm)
	}
	return uc
}

func (uc *AnalysisUseCase) Analyze(ctx context.Context, text string, limit int) (*model.AnalysisReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "nothing to analyze")
	}
	if n := utf8.RuneCountInString(text); n > maxInputRunes {
		return nil, goerr.Wrap(ErrTextTooLong, "input too long",
			goerr.V("runes", n),
			goerr.V("max", maxInputRunes),
		)
	}
	if limit <= 0 {
		limit = defaultRetrievalLimit
	}

	score, err := uc.engine.Analyze(text)
	if err != nil {
		return nil, err
	}

	incidents := uc.relatedIncidents(ctx, text, limit)

	report := &model.AnalysisReport{
		InputText:        text,
		RiskScore:        score,
		RelatedIncidents: incidents,
		Recommendations:  scoring.Recommendations(score),
	}

	if uc.narrative != nil {
		analysisText, err := uc.narrative.Generate(ctx, text, score, incidents)
		if err != nil {
			logging.From(ctx).Warn("failed to generate analysis narrative", "error", err)
		} else {
			report.AnalysisText = analysisText
		}
	}

	return report, nil
}

// relatedIncidents looks up past incidents similar to the input. A failing
// or absent archive yields an empty slice, never an error.
func (uc *AnalysisUseCase) relatedIncidents(ctx context.Context, text string, limit int) []*model.Incident {
	if uc.repo == nil {
		return nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, uc.searchTimeout)
	defer cancel()

	keywords := scoring.ExtractKeywords(text)

	var incidents []*model.Incident
	var err error
	if len(keywords) > 0 {
		incidents, err = uc.repo.Incident().Search(searchCtx, keywords, limit)
	} else {
		incidents, err = uc.repo.Incident().ListRecent(searchCtx, limit)
	}
	if err != nil {
		logging.From(ctx).Warn("incident retrieval failed, continuing without related cases", "error", err)
		return nil
	}

	return incidents
}
