package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

type recordAttemptRequest struct {
	Accepted    bool  `json:"accepted"`
	AttemptedAt int64 `json:"attempted_at,omitempty"` // epoch ms; defaults to now
}

type recordAttemptResponse struct {
	Attempt *model.Attempt       `json:"attempt"`
	Problem model.IndexedProblem `json:"problem"`
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req recordAttemptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}
	if req.AttemptedAt < 0 {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid attempt",
			model.FieldError{Field: "attempted_at", Message: "must not be negative"}))
		return
	}
	if req.AttemptedAt == 0 {
		req.AttemptedAt = s.now().UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	problems, idx, err := s.loadIndexed(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	a := &model.Attempt{
		ID:          "att_" + uuid.New().String(),
		ProblemID:   problems[idx].ID,
		Accepted:    req.Accepted,
		AttemptedAt: req.AttemptedAt,
	}
	p, err := s.store.RecordAttempt(r.Context(), a)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	s.logger.Info("attempt recorded", "index", idx, "id", p.ID, "accepted", a.Accepted, "tries", p.Solved.Tries)
	respondCreated(w, reqID, recordAttemptResponse{
		Attempt: a,
		Problem: model.IndexedProblem{Index: idx, Problem: *p},
	})
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	problems, idx, err := s.loadIndexed(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	attempts, err := s.store.ListAttempts(r.Context(), problems[idx].ID)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondList(w, reqID, attempts, &model.Pagination{
		Total: len(attempts),
		Limit: len(attempts),
	})
}
