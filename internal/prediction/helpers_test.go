package prediction

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) int64 {
	return testNow.Add(-time.Duration(d) * 24 * time.Hour).UnixMilli()
}

func unsolved(id string) model.Problem {
	return model.Problem{ID: id, Difficulty: model.DifficultyMedium}
}

func solved(id string, age, tries int, diff model.Difficulty) model.Problem {
	return model.Problem{
		ID:         id,
		Difficulty: diff,
		Solved:     model.SolvedState{Value: true, Date: daysAgo(age), Tries: tries},
	}
}

func ids(ps []model.Problem) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// randomProblems builds a mixed sequence for property checks.
func randomProblems(r *rand.Rand, n int) []model.Problem {
	grandparents := []string{"Arrays", "Graphs", "DP"}
	ps := make([]model.Problem, n)
	for i := range ps {
		p := model.Problem{
			ID:          fmt.Sprintf("p%d", i),
			Difficulty:  model.Difficulty(r.IntN(3)),
			Ignored:     r.IntN(5) == 0,
			Grandparent: grandparents[r.IntN(len(grandparents))],
		}
		if r.IntN(2) == 0 {
			p.Solved = model.SolvedState{Value: true, Tries: r.IntN(8)}
			if r.IntN(4) != 0 {
				p.Solved.Date = daysAgo(r.IntN(60))
			}
		}
		ps[i] = p
	}
	return ps
}
