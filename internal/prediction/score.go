// Package prediction picks the daily practice batch: new problems in their
// authored order plus solved problems ranked by review urgency.
package prediction

import (
	"math"
	"time"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

// Score weights. They sum to 1 so a score lies in [0, 1] before jitter.
const (
	AgeWeight        = 0.5
	TriesWeight      = 0.3
	DifficultyWeight = 0.2
)

const (
	ageHorizonDays = 30
	triesCap       = 5
	maxDifficulty  = 2
	msPerDay       = 24 * 60 * 60 * 1000

	// jitterSpan bounds the optional random tie-break added to a score.
	jitterSpan = 0.0001
)

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// AgeDays returns whole days since the problem was solved. A missing date
// counts as solved just now, and a date in the future counts as zero.
func AgeDays(now time.Time, p model.Problem) int64 {
	if p.Solved.Date == 0 {
		return 0
	}
	days := (now.UnixMilli() - p.Solved.Date) / msPerDay
	if days < 0 {
		return 0
	}
	return days
}

// ScoreRevision rates how urgently a solved problem should be reviewed.
// Higher is more urgent. p must be solved.
func ScoreRevision(now time.Time, p model.Problem) float64 {
	age := Clamp(float64(AgeDays(now, p))/ageHorizonDays, 0, 1)
	tries := Clamp(float64(p.Solved.Tries)/triesCap, 0, 1)
	diff := Clamp(float64(p.Difficulty)/maxDifficulty, 0, 1)
	return AgeWeight*age + TriesWeight*tries + DifficultyWeight*diff
}
