package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lqsky7/leetfeedback/internal/catalog"
	"github.com/lqsky7/leetfeedback/internal/prediction"
	"github.com/lqsky7/leetfeedback/pkg/model"
)

// maxBodyBytes caps request bodies (catalog uploads included).
const maxBodyBytes = 8 << 20

func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts, err := parseListOptions(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	problems, err := s.store.ListProblems(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	matched := []model.IndexedProblem{}
	for i, p := range problems {
		if opts.Keep(p) {
			matched = append(matched, model.IndexedProblem{Index: i, Problem: p})
		}
	}

	total := len(matched)
	start := min(opts.Offset, total)
	end := min(start+opts.Limit, total)
	respondList(w, reqID, matched[start:end], &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: end < total,
	})
}

func parseListOptions(r *http.Request) (model.ListOptions, error) {
	opts := model.DefaultListOptions()
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, model.NewValidationError("invalid limit",
				model.FieldError{Field: "limit", Message: "must be an integer"})
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, model.NewValidationError("invalid offset",
				model.FieldError{Field: "offset", Message: "must be an integer"})
		}
		opts.Offset = n
	}
	opts.State = q.Get("state")
	switch model.ProblemState(opts.State) {
	case "", "active", model.ProblemStateSolved, model.ProblemStateUnsolved, model.ProblemStateIgnored:
	default:
		return opts, model.NewValidationError("invalid state",
			model.FieldError{Field: "state", Message: "must be one of solved, unsolved, ignored, active"})
	}
	opts.Clamp()
	return opts, nil
}

func (s *Server) handleReplaceProblems(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	problems, err := catalog.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), catalog.FormatJSON)
	if err != nil {
		var malformed *model.MalformedProblemError
		if !errors.As(err, &malformed) {
			err = model.NewValidationError("Invalid JSON body: " + err.Error())
		}
		respondErr(w, reqID, err)
		return
	}

	s.mu.Lock()
	err = s.store.ReplaceProblems(r.Context(), problems)
	s.mu.Unlock()
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	s.logger.Info("problems replaced", "count", len(problems))
	respondOK(w, reqID, map[string]any{
		"count": len(problems),
		"stats": prediction.Statistics(problems),
	})
}

func (s *Server) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	problems, idx, err := s.loadIndexed(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, model.IndexedProblem{Index: idx, Problem: problems[idx]})
}

func (s *Server) handleToggleIgnore(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	problems, idx, err := s.loadIndexed(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	ignored, err := prediction.ToggleIgnore(problems, idx)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	id := problems[idx].ID
	if err := s.store.SetIgnored(r.Context(), id, ignored); err != nil {
		respondErr(w, reqID, err)
		return
	}
	stored, err := s.store.GetProblem(r.Context(), id)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	if stored == nil {
		respondErr(w, reqID, model.NewNotFoundError("problem", id))
		return
	}

	s.logger.Info("ignore toggled", "index", idx, "id", id, "ignored", stored.Ignored)
	respondOK(w, reqID, model.IndexedProblem{Index: idx, Problem: *stored})
}

// loadIndexed reads the stored sequence and resolves the {index} URL param.
func (s *Server) loadIndexed(r *http.Request) ([]model.Problem, int, error) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return nil, 0, model.NewValidationError(fmt.Sprintf("invalid problem index %q", raw),
			model.FieldError{Field: "index", Message: "must be an integer"})
	}
	problems, err := s.store.ListProblems(r.Context())
	if err != nil {
		return nil, 0, err
	}
	if idx < 0 || idx >= len(problems) {
		return nil, 0, &model.IndexOutOfRangeError{Index: idx, Len: len(problems)}
	}
	return problems, idx, nil
}
