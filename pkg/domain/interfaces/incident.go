package interfaces

import (
	"context"

	"github.com/secmon-lab/hibana/pkg/domain/model"
)

// IncidentRepository defines the interface for historical incident access.
// The analysis path only reads; writes come from import tooling.
type IncidentRepository interface {
	// Create creates a new incident with auto-generated ID
	Create(ctx context.Context, incident *model.Incident) (*model.Incident, error)

	// Get retrieves an incident by ID
	Get(ctx context.Context, id int64) (*model.Incident, error)

	// List retrieves all incidents
	List(ctx context.Context) ([]*model.Incident, error)

	// Search retrieves incidents where any keyword is a substring of the
	// title, incident text, cause category or reasoning text. Results are
	// ordered by cause-category priority (descending), then by incident
	// date (descending). keywords must be non-empty.
	Search(ctx context.Context, keywords []string, limit int) ([]*model.Incident, error)

	// ListRecent retrieves the most recent incidents by incident date
	ListRecent(ctx context.Context, limit int) ([]*model.Incident, error)

	// Count returns the total number of stored incidents
	Count(ctx context.Context) (int64, error)
}
