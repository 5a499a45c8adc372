package prediction

import "github.com/lqsky7/leetfeedback/pkg/model"

// ToggleIgnore flips problems[index].Ignored in place and returns the new
// value. The caller owns persistence and any locking.
func ToggleIgnore(problems []model.Problem, index int) (bool, error) {
	if index < 0 || index >= len(problems) {
		return false, &model.IndexOutOfRangeError{Index: index, Len: len(problems)}
	}
	problems[index].Ignored = !problems[index].Ignored
	return problems[index].Ignored, nil
}

// Statistics counts problems by solved and ignored state.
func Statistics(problems []model.Problem) model.Stats {
	var s model.Stats
	for _, p := range problems {
		s.Total++
		switch {
		case p.Ignored && p.Solved.Value:
			s.SolvedIgnored++
		case p.Ignored:
			s.UnsolvedIgnored++
		case p.Solved.Value:
			s.SolvedActive++
		default:
			s.UnsolvedActive++
		}
	}
	s.Ignored = s.SolvedIgnored + s.UnsolvedIgnored
	s.Active = s.Total - s.Ignored
	return s
}
