package prediction

import "github.com/lqsky7/leetfeedback/pkg/model"

// Quota is how many problems to draw from each queue.
// Review+New may fall short of the target; the scheduler backfills.
type Quota struct {
	Review int `json:"review"`
	New    int `json:"new"`
}

// SplitQuota divides n between the review and new queues for mode.
// Each share is floored on its own. Unknown modes split evenly.
func SplitQuota(n int, mode model.FocusMode) Quota {
	if n <= 0 {
		return Quota{}
	}
	switch mode {
	case model.OnlyReview:
		return Quota{Review: n}
	case model.FocusReview:
		return Quota{Review: n * 7 / 10, New: n * 3 / 10}
	case model.FocusNew:
		return Quota{Review: n * 3 / 10, New: n * 7 / 10}
	case model.OnlyNew:
		return Quota{New: n}
	default:
		return Quota{Review: n / 2, New: n / 2}
	}
}
