package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOptions configures problem listing.
// State is "", "active", or one of the ProblemState values.
type ListOptions struct {
	Limit  int
	Offset int
	State  string
}

// DefaultListOptions returns the listing defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 50, Offset: 0}
}

// Clamp enforces limits (max 500, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 50
	}
	if o.Limit > 500 {
		o.Limit = 500
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// Keep reports whether p passes the State filter.
func (o ListOptions) Keep(p Problem) bool {
	switch o.State {
	case "":
		return true
	case "active":
		return !p.Ignored
	default:
		return string(p.State()) == o.State
	}
}

// ScheduleEntry is one problem chosen for today's batch.
type ScheduleEntry struct {
	Index   int     `json:"index"`
	Queue   string  `json:"queue"` // "new" or "review"
	Score   float64 `json:"score,omitempty"`
	Problem Problem `json:"problem"`
}

// ScheduleResult is the payload of the daily schedule endpoint.
type ScheduleResult struct {
	Target      int             `json:"target"`
	Mode        string          `json:"mode"`
	ReviewQuota int             `json:"review_quota"`
	NewQuota    int             `json:"new_quota"`
	NewPool     int             `json:"new_pool"`
	ReviewPool  int             `json:"review_pool"`
	Entries     []ScheduleEntry `json:"entries"`
}

// IndexedProblem pairs a problem with its position in the stored sequence.
// Positions are what the index-addressed endpoints accept.
type IndexedProblem struct {
	Index   int     `json:"index"`
	Problem Problem `json:"problem"`
}
