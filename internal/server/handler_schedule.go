package server

import (
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/lqsky7/leetfeedback/internal/filterexpr"
	"github.com/lqsky7/leetfeedback/internal/prediction"
	"github.com/lqsky7/leetfeedback/pkg/model"
)

type scheduleQuery struct {
	count   int
	mode    model.FocusMode
	filters model.Filters
	where   *filterexpr.Predicate
}

func (s *Server) parseScheduleQuery(r *http.Request) (scheduleQuery, error) {
	q := r.URL.Query()
	sq := scheduleQuery{
		count: s.config.Schedule.TargetCount,
		mode:  s.config.Schedule.FocusMode,
	}

	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return sq, model.NewValidationError("invalid count",
				model.FieldError{Field: "count", Message: "must be a non-negative integer"})
		}
		sq.count = n
	}
	if v := q.Get("mode"); v != "" {
		m, err := model.ParseFocusMode(v)
		if err != nil {
			return sq, err
		}
		sq.mode = m
	}

	sq.filters.Grandparent = model.ParseCriterion(q.Get("grandparent"))
	sq.filters.ParentTopic = model.ParseCriterion(q.Get("parent_topic"))
	if v := q.Get("where"); v != "" {
		pred, err := filterexpr.Compile(v)
		if err != nil {
			return sq, err
		}
		sq.where = pred
		sq.filters.Where = pred.Func()
	}
	return sq, nil
}

func (s *Server) handleScheduleToday(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	sq, err := s.parseScheduleQuery(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	problems, err := s.store.ListProblems(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	opts := []prediction.Option{prediction.WithNow(s.now())}
	if s.config.Schedule.Jitter {
		// *rand.Rand is not safe for concurrent use, so each request seeds its own.
		opts = append(opts, prediction.WithJitter(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))))
	}
	batch := prediction.Plan(problems, sq.count, sq.mode, sq.filters, opts...)

	if sq.where != nil && sq.where.Errors() > 0 {
		s.logger.Warn("where expression failed on some problems",
			"where", sq.where.String(), "failures", sq.where.Errors())
	}
	s.logger.Debug("schedule planned",
		"target", batch.Target, "mode", batch.Mode.String(),
		"new_pool", batch.NewPool, "review_pool", batch.ReviewPool, "scheduled", len(batch.Entries))

	respondOK(w, reqID, scheduleResult(batch))
}

func scheduleResult(b prediction.Batch) model.ScheduleResult {
	res := model.ScheduleResult{
		Target:      b.Target,
		Mode:        b.Mode.String(),
		ReviewQuota: b.Quota.Review,
		NewQuota:    b.Quota.New,
		NewPool:     b.NewPool,
		ReviewPool:  b.ReviewPool,
		Entries:     make([]model.ScheduleEntry, len(b.Entries)),
	}
	for i, e := range b.Entries {
		res.Entries[i] = model.ScheduleEntry{
			Index:   e.Index,
			Queue:   string(e.Queue),
			Score:   e.Score,
			Problem: e.Problem,
		}
	}
	return res
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	problems, err := s.store.ListProblems(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, prediction.Statistics(problems))
}
