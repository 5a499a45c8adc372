package prediction

import (
	"math/rand/v2"
	"time"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

// Queue names the queue an entry was drawn from.
type Queue string

const (
	QueueNew    Queue = "new"
	QueueReview Queue = "review"
)

// Entry is a scheduled problem with its position in the input sequence.
type Entry struct {
	Index   int
	Queue   Queue
	Score   float64 // review entries only
	Problem model.Problem
}

// Batch is the outcome of Plan.
type Batch struct {
	Target     int
	Mode       model.FocusMode
	Quota      Quota
	NewPool    int // eligible unsolved problems
	ReviewPool int // eligible solved problems
	Entries    []Entry
}

// Problems returns the scheduled problems in batch order.
func (b Batch) Problems() []model.Problem {
	out := make([]model.Problem, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e.Problem
	}
	return out
}

type options struct {
	now    time.Time
	jitter *rand.Rand
}

// Option adjusts a single Plan call.
type Option func(*options)

// WithNow fixes the clock used for scoring.
func WithNow(now time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithJitter adds a random value in [0, 0.0001) to every review score so
// that exact ties are broken at random instead of by input position.
func WithJitter(r *rand.Rand) Option {
	return func(o *options) { o.jitter = r }
}

// ScheduleToday returns up to target problems: new problems first, in input
// order, then review problems by descending urgency.
func ScheduleToday(problems []model.Problem, target int, mode model.FocusMode, filters model.Filters, opts ...Option) []model.Problem {
	return Plan(problems, target, mode, filters, opts...).Problems()
}

// Plan is ScheduleToday with the bookkeeping kept: quotas, pool sizes, and
// each entry's input index and score. problems is not modified.
func Plan(problems []model.Problem, target int, mode model.FocusMode, filters model.Filters, opts ...Option) Batch {
	o := options{now: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	b := Batch{Target: target, Mode: mode, Quota: SplitQuota(target, mode)}

	var fresh []Entry
	var review PriorityQueue[Entry]
	for i, p := range problems {
		if p.Ignored || !filters.Match(p) {
			continue
		}
		if !p.Solved.Value {
			fresh = append(fresh, Entry{Index: i, Queue: QueueNew, Problem: p})
			continue
		}
		score := ScoreRevision(o.now, p)
		if o.jitter != nil {
			score += o.jitter.Float64() * jitterSpan
		}
		review.Push(Entry{Index: i, Queue: QueueReview, Score: score, Problem: p}, score)
	}
	b.NewPool = len(fresh)
	b.ReviewPool = review.Len()

	if target <= 0 {
		return b
	}

	takeNew := min(b.Quota.New, len(fresh))
	takeReview := min(b.Quota.Review, review.Len())

	// Backfill a shortfall from the rest of the new queue first, then from
	// the review queue.
	short := target - takeNew - takeReview
	if short > 0 {
		extra := min(short, len(fresh)-takeNew)
		takeNew += extra
		short -= extra
	}
	if short > 0 {
		takeReview += min(short, review.Len()-takeReview)
	}

	b.Entries = make([]Entry, 0, takeNew+takeReview)
	b.Entries = append(b.Entries, fresh[:takeNew]...)
	for range takeReview {
		e, _, _ := review.Pop()
		b.Entries = append(b.Entries, e)
	}
	return b
}
