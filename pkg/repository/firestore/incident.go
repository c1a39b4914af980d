package firestore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type incidentDocument struct {
	ID            int64     `firestore:"id"`
	Title         string    `firestore:"title"`
	IncidentText  string    `firestore:"incident_text"`
	IncidentDate  time.Time `firestore:"incident_date"`
	CauseCategory string    `firestore:"cause_category"`
	ReasoningText string    `firestore:"reasoning_text"`
	CompanyInfo   string    `firestore:"company_info,omitempty"`
	MediaURL      string    `firestore:"media_url,omitempty"`
	ResponseText  string    `firestore:"response_text,omitempty"`
	Outcome       string    `firestore:"outcome,omitempty"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func toIncidentDocument(i *model.Incident) *incidentDocument {
	return &incidentDocument{
		ID:            i.ID,
		Title:         i.Title,
		IncidentText:  i.IncidentText,
		IncidentDate:  i.IncidentDate,
		CauseCategory: i.CauseCategory.String(),
		ReasoningText: i.ReasoningText,
		CompanyInfo:   i.CompanyInfo,
		MediaURL:      i.MediaURL,
		ResponseText:  i.ResponseText,
		Outcome:       i.Outcome,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func fromIncidentDocument(d *incidentDocument) *model.Incident {
	return &model.Incident{
		ID:            d.ID,
		Title:         d.Title,
		IncidentText:  d.IncidentText,
		IncidentDate:  d.IncidentDate,
		CauseCategory: types.CauseCategory(d.CauseCategory),
		ReasoningText: d.ReasoningText,
		CompanyInfo:   d.CompanyInfo,
		MediaURL:      d.MediaURL,
		ResponseText:  d.ResponseText,
		Outcome:       d.Outcome,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type incidentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIncidentRepository(client *firestore.Client) *incidentRepository {
	return &incidentRepository{
		client: client,
	}
}

func (r *incidentRepository) incidentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_incidents"
	}
	return "incidents"
}

func (r *incidentRepository) countersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *incidentRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.countersCollection()).Doc("incident_counter")

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		nextID = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if err := incident.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid incident")
	}

	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *incident
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.incidentsCollection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toIncidentDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create incident", goerr.V("id", id))
	}

	return &created, nil
}

func (r *incidentRepository) Get(ctx context.Context, id int64) (*model.Incident, error) {
	doc, err := r.client.Collection(r.incidentsCollection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrIncidentNotFound, "no such incident", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V("id", id))
	}

	var d incidentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode incident document", goerr.V("id", id))
	}

	return fromIncidentDocument(&d), nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	iter := r.client.Collection(r.incidentsCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	return collectIncidents(iter)
}

// Search streams candidate documents and filters in process: Firestore has
// no substring predicate, and the incident archive is small by design.
func (r *incidentRepository) Search(ctx context.Context, keywords []string, limit int) ([]*model.Incident, error) {
	if len(keywords) == 0 {
		return nil, goerr.New("search requires at least one keyword")
	}

	iter := r.client.Collection(r.incidentsCollection()).Documents(ctx)
	defer iter.Stop()

	incidents, err := collectIncidents(iter)
	if err != nil {
		return nil, err
	}

	var matched []*model.Incident
	for _, incident := range incidents {
		if matchesAny(incident, keywords) {
			matched = append(matched, incident)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		pi, pj := matched[i].CauseCategory.Priority(), matched[j].CauseCategory.Priority()
		if pi != pj {
			return pi > pj
		}
		if !matched[i].IncidentDate.Equal(matched[j].IncidentDate) {
			return matched[i].IncidentDate.After(matched[j].IncidentDate)
		}
		return matched[i].ID < matched[j].ID
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *incidentRepository) ListRecent(ctx context.Context, limit int) ([]*model.Incident, error) {
	query := r.client.Collection(r.incidentsCollection()).
		OrderBy("incident_date", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	return collectIncidents(iter)
}

func (r *incidentRepository) Count(ctx context.Context) (int64, error) {
	iter := r.client.Collection(r.incidentsCollection()).Select().Documents(ctx)
	defer iter.Stop()

	var count int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count incidents")
		}
		count++
	}
	return count, nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func collectIncidents(iter *firestore.DocumentIterator) ([]*model.Incident, error) {
	var incidents []*model.Incident
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate incidents")
		}

		var d incidentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode incident document")
		}
		incidents = append(incidents, fromIncidentDocument(&d))
	}
	return incidents, nil
}

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
