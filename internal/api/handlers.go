package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobly-api/jobly/internal/jobs"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.store.FindAll(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in jobs.NewJob
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		s.writeError(w, r, badRequest("invalid job: %v", err))
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		s.writeError(w, r, badRequest("title is required"))
		return
	}
	if strings.TrimSpace(in.CompanyHandle) == "" {
		s.writeError(w, r, badRequest("companyHandle is required"))
		return
	}

	job, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"job": job})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fields := mutation.NewFields()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(fields); err != nil {
		s.writeError(w, r, badRequest("invalid update: %v", err))
		return
	}

	job, err := s.store.Update(r.Context(), id, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": strconv.Itoa(id)})
}

// pathID parses the {id} path segment
func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid job id: %q", raw)
	}
	return id, nil
}

// parseFilter reads minSalary, hasEquity and title. Any other key is rejected.
func parseFilter(q url.Values) (jobs.Filter, error) {
	var f jobs.Filter

	for key, values := range q {
		raw := values[len(values)-1]
		switch key {
		case "minSalary":
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return f, badRequest("minSalary must be a non-negative integer, got %q", raw)
			}
			f.MinSalary = &n
		case "hasEquity":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return f, badRequest("hasEquity must be true or false, got %q", raw)
			}
			f.HasEquity = &b
		case "title":
			if raw == "" {
				return f, badRequest("title must not be empty")
			}
			title := raw
			f.Title = &title
		default:
			return f, badRequest("unknown filter: %q", key)
		}
	}

	return f, nil
}
