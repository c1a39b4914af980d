package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/usecase"
	"github.com/secmon-lab/hibana/pkg/utils/errutil"
	"github.com/secmon-lab/hibana/pkg/utils/safe"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"service":     "hibana",
		"version":     s.version,
		"llm_enabled": s.llmEnabled,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":      "ok",
		"llm_enabled": s.llmEnabled,
	}

	count, err := s.uc.Incident.CountIncidents(r.Context())
	if err != nil {
		resp["incident_store"] = "unavailable"
	} else {
		resp["incident_store"] = "ok"
		resp["incident_count"] = count
	}

	writeJSON(w, r, http.StatusOK, resp)
}

type analyzeRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode analyze request"), http.StatusBadRequest)
		return
	}

	report, err := s.uc.Analysis.Analyze(r.Context(), req.Text, req.Limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrEmptyText) || errors.Is(err, usecase.ErrTextTooLong) {
			status = http.StatusBadRequest
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.uc.Incident.ListIncidents(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var incident model.Incident
	if err := json.NewDecoder(r.Body).Decode(&incident); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode incident"), http.StatusBadRequest)
		return
	}

	created, err := s.uc.Incident.CreateIncident(r.Context(), &incident)
	if err != nil {
		status := http.StatusInternalServerError
		if incident.Validate() != nil {
			status = http.StatusBadRequest
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid incident ID"), http.StatusBadRequest)
		return
	}

	incident, err := s.uc.Incident.GetIncident(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrIncidentNotFound) {
			status = http.StatusNotFound
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	writeJSON(w, r, http.StatusOK, incident)
}
