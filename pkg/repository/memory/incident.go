package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/model"
)

type incidentRepository struct {
	mu        sync.RWMutex
	incidents map[int64]*model.Incident
	nextID    int64
}

func newIncidentRepository() *incidentRepository {
	return &incidentRepository{
		incidents: make(map[int64]*model.Incident),
		nextID:    1,
	}
}

func copyIncident(i *model.Incident) *model.Incident {
	copied := *i
	return &copied
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if err := incident.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid incident")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyIncident(incident)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.incidents[created.ID] = created
	return copyIncident(created), nil
}

func (r *incidentRepository) Get(ctx context.Context, id int64) (*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, exists := r.incidents[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrIncidentNotFound, "no such incident", goerr.V("id", id))
	}

	return copyIncident(incident), nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incidents := make([]*model.Incident, 0, len(r.incidents))
	for _, incident := range r.incidents {
		incidents = append(incidents, copyIncident(incident))
	}
	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].ID < incidents[j].ID
	})

	return incidents, nil
}

func (r *incidentRepository) Search(ctx context.Context, keywords []string, limit int) ([]*model.Incident, error) {
	if len(keywords) == 0 {
		return nil, goerr.New("search requires at least one keyword")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Incident
	for _, incident := range r.incidents {
		if matchesAny(incident, keywords) {
			matched = append(matched, copyIncident(incident))
		}
	}

	sortByPriority(matched)

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *incidentRepository) ListRecent(ctx context.Context, limit int) ([]*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incidents := make([]*model.Incident, 0, len(r.incidents))
	for _, incident := range r.incidents {
		incidents = append(incidents, copyIncident(incident))
	}
	sort.Slice(incidents, func(i, j int) bool {
		if !incidents[i].IncidentDate.Equal(incidents[j].IncidentDate) {
			return incidents[i].IncidentDate.After(incidents[j].IncidentDate)
		}
		return incidents[i].ID < incidents[j].ID
	})

	if limit > 0 && len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}

func (r *incidentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.incidents)), nil
}

// matchesAny reports whether any keyword appears in the searchable text
// columns of the incident
func matchesAny(incident *model.Incident, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(incident.Title, keyword) ||
			strings.Contains(incident.IncidentText, keyword) ||
			strings.Contains(incident.CauseCategory.String(), keyword) ||
			strings.Contains(incident.ReasoningText, keyword) {
			return true
		}
	}
	return false
}

// sortByPriority orders incidents by cause-category priority, then by
// incident date descending, then by ID for a stable order
func sortByPriority(incidents []*model.Incident) {
	sort.Slice(incidents, func(i, j int) bool {
		pi, pj := incidents[i].CauseCategory.Priority(), incidents[j].CauseCategory.Priority()
		if pi != pj {
			return pi > pj
		}
		if !incidents[i].IncidentDate.Equal(incidents[j].IncidentDate) {
			return incidents[i].IncidentDate.After(incidents[j].IncidentDate)
		}
		return incidents[i].ID < incidents[j].ID
	})
}
