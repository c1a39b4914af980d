package memory

import (
	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	incident *incidentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		incident: newIncidentRepository(),
	}
}

func (m *Memory) Incident() interfaces.IncidentRepository {
	return m.incident
}

func (m *Memory) Close() error {
	return nil
}
