package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Listing query parameter names.
const (
	paramFilter       = "filter"
	paramSearchString = "searchString"
	paramPageNumber   = "pageNumber"
	paramPageSize     = "pageSize"
)

// pinger is implemented by stores that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// taskRequest is the body accepted by create and update.
type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"isCompleted"`
	Priority    string  `json:"priority"`
}

func (req taskRequest) task(id int64) model.Task {
	t := model.Task{
		ID:          id,
		Title:       req.Title,
		IsCompleted: req.IsCompleted,
		Priority:    model.ParsePriority(req.Priority),
	}
	if req.Description != nil {
		t.Description = model.StringPtr(*req.Description)
	}
	return t
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", zap.Error(err))
			s.writeErr(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := listing.Request{
		Filter:       q.Get(paramFilter),
		SearchString: q.Get(paramSearchString),
		PageNumber:   intParam(q, paramPageNumber, 1),
		PageSize:     intParam(q, paramPageSize, s.listing.PageSize()),
	}
	if req.Filter == "" {
		req.Filter = string(listing.StatusAll)
	}

	res, err := s.listing.List(r.Context(), req)
	if err != nil {
		s.internalError(w, r, "listing tasks", err)
		return
	}
	s.metrics.listed.Observe(float64(res.TotalItems))
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.store.CreateTask(r.Context(), req.task(0))
	if err != nil {
		s.storeError(w, r, "creating task", err)
		return
	}
	w.Header().Set("Location", "/tasks/"+strconv.FormatInt(created.ID, 10))
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, id int64) {
	t, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "getting task", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, id int64) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.store.UpdateTask(r.Context(), req.task(id))
	if err != nil {
		s.storeError(w, r, "updating task", err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request, id int64) {
	t, err := s.store.ToggleComplete(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "toggling task", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// deleteTask answers 204 and points Location back at the listing the caller
// was viewing, built from whichever listing parameters it sent.
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.storeError(w, r, "deleting task", err)
		return
	}
	w.Header().Set("Location", listingLocation(r.URL.Query()))
	w.WriteHeader(http.StatusNoContent)
}

// withID parses the {id} path parameter. Anything that is not a positive
// integer cannot name a task, so it is answered with 404.
func (s *Server) withID(h func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id < 1 {
			s.writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		h(w, r, id)
	}
}

// storeError maps store and validation errors to HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeErr(w, http.StatusNotFound, "task not found")
	case errors.Is(err, model.ErrInvalidTask):
		s.writeErr(w, http.StatusBadRequest, err.Error())
	default:
		s.internalError(w, r, op, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op,
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	s.writeErr(w, http.StatusInternalServerError, "internal error")
}

// intParam reads an integer query parameter, returning def when it is
// missing or malformed.
func intParam(q url.Values, key string, def int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return v
}

// listingLocation builds the /tasks URL carrying the listing parameters
// present in q.
func listingLocation(q url.Values) string {
	keep := url.Values{}
	for _, key := range []string{paramFilter, paramSearchString, paramPageNumber, paramPageSize} {
		if q.Has(key) {
			keep.Set(key, q.Get(key))
		}
	}
	if len(keep) == 0 {
		return "/tasks"
	}
	return "/tasks?" + keep.Encode()
}

// writeJSON writes v with the given status. The header is already sent
// when encoding fails, so the error can only be logged.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("encoding response", zap.Int("status", code), zap.Error(err))
	}
}

func (s *Server) writeErr(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}
