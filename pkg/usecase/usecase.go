package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
	"github.com/secmon-lab/hibana/pkg/domain/model/config"
)

type UseCases struct {
	repo          interfaces.Repository
	llm           gollem.LLMClient
	scoringConfig *config.ScoringConfig
	searchTimeout time.Duration
	Analysis      *AnalysisUseCase
	Incident      *IncidentUseCase
}

type Option func(*UseCases)

// WithLLM enables narrative generation. Without it, reports carry the
// deterministic score only.
func WithLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func WithScoringConfig(cfg *config.ScoringConfig) Option {
	return func(uc *UseCases) {
		uc.scoringConfig = cfg
	}
}

func WithSearchTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.searchTimeout = d
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		searchTimeout: defaultSearchTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Analysis = NewAnalysisUseCase(repo, uc.llm, uc.scoringConfig, uc.searchTimeout)
	uc.Incident = NewIncidentUseCase(repo)

	return uc
}
