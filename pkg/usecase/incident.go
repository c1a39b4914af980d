package usecase

import (
	"context"

	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
	"github.com/secmon-lab/hibana/pkg/domain/model"
)

type IncidentUseCase struct {
	repo interfaces.Repository
}

func NewIncidentUseCase(repo interfaces.Repository) *IncidentUseCase {
	return &IncidentUseCase{repo: repo}
}

func (uc *IncidentUseCase) CreateIncident(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	return uc.repo.Incident().Create(ctx, incident)
}

func (uc *IncidentUseCase) GetIncident(ctx context.Context, id int64) (*model.Incident, error) {
	return uc.repo.Incident().Get(ctx, id)
}

func (uc *IncidentUseCase) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	return uc.repo.Incident().List(ctx)
}

func (uc *IncidentUseCase) CountIncidents(ctx context.Context) (int64, error) {
	return uc.repo.Incident().Count(ctx)
}
