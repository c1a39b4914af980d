package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/types"
)

// Incident is a historical controversy record. Incidents are created by
// import tooling or manual entry; the analysis path only queries them.
type Incident struct {
	ID            int64               `json:"incident_id"`
	Title         string              `json:"title"`
	IncidentText  string              `json:"incident_text"`
	IncidentDate  time.Time           `json:"incident_date"`
	CauseCategory types.CauseCategory `json:"cause_category"`
	ReasoningText string              `json:"reasoning_text"`
	CompanyInfo   string              `json:"company_info,omitempty"`
	MediaURL      string              `json:"media_url,omitempty"`
	ResponseText  string              `json:"response_text,omitempty"`
	Outcome       string              `json:"outcome,omitempty"`
	CreatedAt     time.Time           `json:"created_at,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at,omitempty"`
}

// Validate checks the required fields of an incident
func (i *Incident) Validate() error {
	if i.Title == "" {
		return goerr.New("incident title is required")
	}
	if i.IncidentText == "" {
		return goerr.New("incident text is required", goerr.V("title", i.Title))
	}
	if i.IncidentDate.IsZero() {
		return goerr.New("incident date is required", goerr.V("title", i.Title))
	}
	if !i.CauseCategory.IsValid() {
		return goerr.New("invalid cause category",
			goerr.V("title", i.Title),
			goerr.V("category", i.CauseCategory),
		)
	}
	if i.ReasoningText == "" {
		return goerr.New("reasoning text is required", goerr.V("title", i.Title))
	}
	return nil
}
