package store

import (
	"context"

	"github.com/lqsky7/leetfeedback/pkg/model"
)

// Store persists the problem sequence and its attempt history.
// Problems keep the order they were imported in; that order is the
// position used by index-addressed operations.
type Store interface {
	// Problems
	ReplaceProblems(ctx context.Context, problems []model.Problem) error
	ListProblems(ctx context.Context) ([]model.Problem, error)
	CountProblems(ctx context.Context) (int, error)
	GetProblem(ctx context.Context, id string) (*model.Problem, error)
	SetIgnored(ctx context.Context, id string, ignored bool) error

	// Attempts
	RecordAttempt(ctx context.Context, a *model.Attempt) (*model.Problem, error)
	ListAttempts(ctx context.Context, problemID string) ([]*model.Attempt, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
